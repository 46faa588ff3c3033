package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSpec_Errors(t *testing.T) {
	empty := Spec{}
	tests := []struct {
		name   string
		spec   string
		fields []Field
	}{
		{"no name", "", []Field{{Name: "a", Kind: String}}},
		{"no fields", "s", nil},
		{"unnamed field", "s", []Field{{Kind: String}}},
		{"duplicate", "s", []Field{{Name: "a", Kind: String}, {Name: "a", Kind: Int}}},
		{"unknown kind", "s", []Field{{Name: "a", Kind: Kind(99)}}},
		{"nested without schema", "s", []Field{{Name: "a", Kind: Nested}}},
		{"nested with empty schema", "s", []Field{{Name: "a", Kind: Nested, Nested: &empty}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpec(tt.spec, tt.fields...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMustSpec_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustSpec("")
}

func TestSpec_FieldsIsACopy(t *testing.T) {
	s := MustSpec("s", Field{Name: "a", Kind: String})
	fs := s.Fields()
	fs[0].Name = "changed"
	if !s.Has("a") || s.Fields()[0].Name != "a" {
		t.Error("Fields() leaked internal slice")
	}
}

func TestDefaults(t *testing.T) {
	want := Record{
		"_id": "", "name": "", "email": "", "password": "", "group": "",
	}
	if diff := cmp.Diff(want, Defaults(UserSpec)); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if got := Defaults(ImageSpec)[ImageUsageEnd]; got != int64(0) {
		t.Errorf("usage_end default = %#v", got)
	}
}

func TestKind_String(t *testing.T) {
	if Nested.String() != "nested" || Kind(0).String() != "kind(0)" {
		t.Errorf("unexpected names %q %q", Nested, Kind(0))
	}
}
