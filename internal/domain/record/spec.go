// Package record enforces declared schemas on raw documents read from the store.
package record

import "fmt"

// Record is a raw or normalized document keyed by field name.
type Record = map[string]any

// Kind is the expected primitive kind of a schema field.
type Kind int

// Supported field kinds.
const (
	String Kind = iota + 1
	Bool
	Int
	List
	Nested
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case List:
		return "list"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field declares one schema key.
type Field struct {
	Name   string
	Kind   Kind
	Nested *Spec // set only for Kind == Nested
}

// Spec is an ordered, named set of field declarations.
type Spec struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSpec validates and creates a Spec.
func NewSpec(name string, fields ...Field) (Spec, error) {
	if name == "" {
		return Spec{}, fmt.Errorf("schema name is required")
	}
	if len(fields) == 0 {
		return Spec{}, fmt.Errorf("schema %q declares no fields", name)
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return Spec{}, fmt.Errorf("schema %q: field %d has no name", name, i)
		}
		if _, dup := index[f.Name]; dup {
			return Spec{}, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		switch f.Kind {
		case String, Bool, Int, List:
		case Nested:
			if f.Nested == nil || f.Nested.IsZero() {
				return Spec{}, fmt.Errorf("schema %q: nested field %q has no schema", name, f.Name)
			}
		default:
			return Spec{}, fmt.Errorf("schema %q: field %q has unknown kind %s", name, f.Name, f.Kind)
		}
		index[f.Name] = i
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return Spec{name: name, fields: out, index: index}, nil
}

// MustSpec calls NewSpec and panics on error.
func MustSpec(name string, fields ...Field) Spec {
	s, err := NewSpec(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s Spec) Name() string { return s.name }

// Fields returns the declared fields in declaration order.
func (s Spec) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Has reports whether key is declared.
func (s Spec) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// IsZero reports whether the spec declares nothing (an unusable schema).
func (s Spec) IsZero() bool { return len(s.fields) == 0 }

// Zero returns the zero value stored for a missing field of kind k.
func Zero(f Field) any {
	switch f.Kind {
	case String:
		return ""
	case Bool:
		return false
	case Int:
		return int64(0)
	case List:
		return []any{}
	case Nested:
		if f.Nested != nil {
			return Defaults(*f.Nested)
		}
	}
	return nil
}

// Defaults returns a fresh record holding the zero value of every declared field.
func Defaults(s Spec) Record {
	rec := make(Record, len(s.fields))
	for _, f := range s.fields {
		rec[f.Name] = Zero(f)
	}
	return rec
}
