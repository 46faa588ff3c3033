package query

import (
	"math"
	"strings"
)

// Match evaluates q against a decoded document. Dotted field paths descend into
// nested maps. A field holding a list matches when any element matches.
// Backends without a native query language use this to filter scanned documents.
func (q Query) Match(doc map[string]any) bool {
	switch q.kind {
	case KindEmpty:
		return true
	case KindAnd:
		for _, c := range q.children {
			if !c.Match(doc) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range q.children {
			if c.Match(doc) {
				return true
			}
		}
		return false
	}

	v, ok := lookup(doc, q.field)
	if !ok {
		return false
	}
	if list, isList := v.([]any); isList {
		for _, e := range list {
			if q.matchValue(e) {
				return true
			}
		}
		return false
	}
	if list, isList := v.([]string); isList {
		for _, e := range list {
			if q.matchValue(e) {
				return true
			}
		}
		return false
	}
	return q.matchValue(v)
}

func (q Query) matchValue(v any) bool {
	switch q.kind {
	case KindEq:
		return equal(v, q.value)
	case KindContains:
		s, ok := v.(string)
		return ok && q.re.MatchString(s)
	case KindGte:
		f, ok := toFloat(v)
		want, _ := toFloat(q.value)
		return ok && f >= want
	default:
		return false
	}
}

func lookup(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
