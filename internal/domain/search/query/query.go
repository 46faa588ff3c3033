// Package query is a backend-agnostic structured query tree.
//
// Queries are built from typed nodes only and never parsed from text, so user
// input can never change the shape of a query. Store adapters translate the
// tree to their wire format at the boundary.
package query

import (
	"regexp"
)

// Kind identifies a node type.
type Kind int

// Node kinds.
const (
	KindEmpty Kind = iota // matches every document
	KindEq
	KindContains
	KindGte
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindEq:
		return "eq"
	case KindContains:
		return "contains"
	case KindGte:
		return "gte"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Operator is the boolean combinator used when aggregating fragments.
type Operator int

// Operators.
const (
	And Operator = iota
	Or
)

func (o Operator) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// Query is an immutable node of the query tree. The zero value matches everything.
type Query struct {
	kind     Kind
	field    string
	value    any
	pattern  string
	fold     bool
	re       *regexp.Regexp
	children []Query
}

// Empty returns the match-everything query.
func Empty() Query { return Query{} }

// Eq matches documents whose field equals value.
func Eq(field string, value any) Query {
	return Query{kind: KindEq, field: field, value: value}
}

// Contains matches documents whose field contains text as a literal substring.
// Regex metacharacters in text are escaped.
func Contains(field, text string, caseInsensitive bool) Query {
	pattern := regexp.QuoteMeta(text)
	expr := pattern
	if caseInsensitive {
		expr = "(?i)" + pattern
	}
	return Query{
		kind:    KindContains,
		field:   field,
		pattern: pattern,
		fold:    caseInsensitive,
		re:      regexp.MustCompile(expr),
	}
}

// Gte matches documents whose numeric field is >= n.
func Gte(field string, n int64) Query {
	return Query{kind: KindGte, field: field, value: n}
}

// AllOf combines queries with a logical AND. Empty operands are dropped.
func AllOf(qs ...Query) Query { return Combine(And, qs) }

// AnyOf combines queries with a logical OR. Empty operands are dropped.
func AnyOf(qs ...Query) Query { return Combine(Or, qs) }

// Combine aggregates fragments under op: none yields the empty query,
// a single fragment is returned as is, two or more are wrapped in op.
func Combine(op Operator, fragments []Query) Query {
	kept := make([]Query, 0, len(fragments))
	for _, f := range fragments {
		if !f.IsEmpty() {
			kept = append(kept, f)
		}
	}
	switch len(kept) {
	case 0:
		return Query{}
	case 1:
		return kept[0]
	}
	kind := KindAnd
	if op == Or {
		kind = KindOr
	}
	return Query{kind: kind, children: kept}
}

// Kind returns the node kind.
func (q Query) Kind() Kind { return q.kind }

// Field returns the dotted field path of a leaf.
func (q Query) Field() string { return q.field }

// Value returns the operand of an Eq or Gte leaf.
func (q Query) Value() any { return q.value }

// Pattern returns the escaped regular expression of a Contains leaf, without flags.
func (q Query) Pattern() string { return q.pattern }

// CaseInsensitive reports whether a Contains leaf ignores case.
func (q Query) CaseInsensitive() bool { return q.fold }

// Children returns the operands of an And/Or node.
func (q Query) Children() []Query {
	out := make([]Query, len(q.children))
	copy(out, q.children)
	return out
}

// IsEmpty reports whether q matches everything.
func (q Query) IsEmpty() bool { return q.kind == KindEmpty }

// IsLeaf reports whether q is a single-field fragment.
func (q Query) IsLeaf() bool {
	return q.kind == KindEq || q.kind == KindContains || q.kind == KindGte
}
