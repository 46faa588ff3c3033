package filter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

func ptr[T any](v T) *T { return &v }

func mustImageFilter(t *testing.T, c ImageCriteria) ImageFilter {
	t.Helper()
	f, err := NewImageFilter(c)
	if err != nil {
		t.Fatalf("NewImageFilter: %v", err)
	}
	return f
}

func TestImageFilter_EmptyCriteria(t *testing.T) {
	f := mustImageFilter(t, ImageCriteria{})
	if q := f.ForgeQuery(); !q.IsEmpty() {
		t.Errorf("ForgeQuery() = %s, want {}", q)
	}
	if len(f.ActiveFacets()) != 0 {
		t.Errorf("ActiveFacets() = %v", f.ActiveFacets())
	}
}

func TestImageFilter_BlankValuesAreIgnored(t *testing.T) {
	f := mustImageFilter(t, ImageCriteria{
		Text:    ptr("   "),
		Type:    ptr(""),
		Credits: ptr("\t"),
		Tags:    []string{"", "  "},
	})
	if q := f.ForgeQuery(); !q.IsEmpty() {
		t.Errorf("ForgeQuery() = %s, want {}", q)
	}
}

func TestImageFilter_SingleFacet(t *testing.T) {
	tests := []struct {
		name string
		c    ImageCriteria
		want string
	}{
		{"text", ImageCriteria{Text: ptr("Sea")}, `{"fields.tags": {"$regex": "Sea", "$options": "i"}}`},
		{"type", ImageCriteria{Type: ptr("Logo")}, `{"fields.type": "Logo"}`},
		{"product in false", ImageCriteria{ProductIn: ptr(false)}, `{"fields.product_in": false}`},
		{"human in", ImageCriteria{HumanIn: ptr(true)}, `{"fields.human_in": true}`},
		{"institutional", ImageCriteria{Institutional: ptr(true)}, `{"fields.institutional": true}`},
		{"vertical", ImageCriteria{Vertical: ptr(true)}, `{"fields.format": true}`},
		{"credits", ImageCriteria{Credits: ptr("doe")}, `{"fields.credits": {"$regex": "doe", "$options": "i"}}`},
		{"limited usage", ImageCriteria{LimitedUsage: ptr(false)}, `{"fields.limited_usage": false}`},
		{"copyright", ImageCriteria{Copyright: ptr(true)}, `{"fields.copyright": true}`},
		{"usage end", ImageCriteria{UsageEnd: ptr(int64(1700000000))}, `{"fields.usage_end": {"$gte": 1700000000}}`},
		{"one tag", ImageCriteria{Tags: []string{"fruit"}}, `{"fields.tags": {"$regex": "fruit"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustImageFilter(t, tt.c).ForgeQuery().String(); got != tt.want {
				t.Errorf("ForgeQuery() = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestImageFilter_KeepsValueWhitespace(t *testing.T) {
	f := mustImageFilter(t, ImageCriteria{
		Text: ptr(" Sea "),
		Tags: []string{" sea", "", "  "},
	})

	tq, ok := f.TagsFragment()
	if !ok || tq.Kind() != query.KindContains {
		t.Fatalf("TagsFragment() = %s, %v; want one contains leaf", tq, ok)
	}
	if tq.Pattern() != " sea" {
		t.Errorf("tag pattern = %q, want %q", tq.Pattern(), " sea")
	}

	doc := func(tags ...any) map[string]any {
		return map[string]any{"fields": map[string]any{"tags": tags}}
	}
	if !tq.Match(doc("open sea")) {
		t.Error(`" sea" should match "open sea"`)
	}
	if tq.Match(doc("seaside")) {
		t.Error(`" sea" must not match "seaside"`)
	}

	want := `{"$and": [{"fields.tags": {"$regex": " Sea ", "$options": "i"}}, {"fields.tags": {"$regex": " sea"}}]}`
	if got := f.ForgeQuery().String(); got != want {
		t.Errorf("ForgeQuery() = %s\nwant %s", got, want)
	}
}

func TestImageFilter_TagsFragment(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		active bool
		kind   query.Kind
	}{
		{"none", nil, false, query.KindEmpty},
		{"one", []string{"a"}, true, query.KindContains},
		{"two", []string{"a", "b"}, true, query.KindAnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := mustImageFilter(t, ImageCriteria{Tags: tt.tags}).TagsFragment()
			if ok != tt.active || q.Kind() != tt.kind {
				t.Errorf("TagsFragment() = %s, %v; want kind %s, %v", q, ok, tt.kind, tt.active)
			}
			if tt.kind == query.KindAnd && len(q.Children()) != len(tt.tags) {
				t.Errorf("children = %d, want %d", len(q.Children()), len(tt.tags))
			}
		})
	}
}

func TestImageFilter_FixedOrder(t *testing.T) {
	c := ImageCriteria{
		Tags:      []string{"b"},
		UsageEnd:  ptr(int64(5)),
		Type:      ptr("Logo"),
		Text:      ptr("a"),
		Copyright: ptr(false),
	}
	f := mustImageFilter(t, c)

	want := []string{FacetText, FacetType, FacetCopyright, FacetUsageEnd, FacetTags}
	if diff := cmp.Diff(want, f.ActiveFacets()); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}

	wantQuery := `{"$and": [` +
		`{"fields.tags": {"$regex": "a", "$options": "i"}}, ` +
		`{"fields.type": "Logo"}, ` +
		`{"fields.copyright": false}, ` +
		`{"fields.usage_end": {"$gte": 5}}, ` +
		`{"fields.tags": {"$regex": "b"}}]}`
	if got := f.ForgeQuery().String(); got != wantQuery {
		t.Errorf("ForgeQuery() = %s\nwant %s", got, wantQuery)
	}
}

func TestImageFilter_WithOperator(t *testing.T) {
	f := mustImageFilter(t, ImageCriteria{Type: ptr("Logo"), Vertical: ptr(true)})
	or := f.WithOperator(query.Or)

	if f.Operator() != query.And || or.Operator() != query.Or {
		t.Fatal("WithOperator must not mutate the receiver")
	}
	if got := or.ForgeQuery().Kind(); got != query.KindOr {
		t.Errorf("kind = %s, want or", got)
	}
}

func TestImageFilter_InjectionStaysLiteral(t *testing.T) {
	f := mustImageFilter(t, ImageCriteria{Text: ptr(`.*"}, {"$where": "1"`)})
	q := f.ForgeQuery()

	if q.Kind() != query.KindContains {
		t.Fatalf("kind = %s, want a single contains leaf", q.Kind())
	}
	if q.Match(map[string]any{"fields": map[string]any{"tags": []any{"anything"}}}) {
		t.Error("text must not behave as a pattern")
	}
}

func TestImageFilter_TooManyTags(t *testing.T) {
	tags := make([]string, MaxTags+1)
	for i := range tags {
		tags[i] = fmt.Sprintf("t%d", i)
	}
	_, err := NewImageFilter(ImageCriteria{Tags: tags})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestImageFilter_CriteriaAreCopied(t *testing.T) {
	tags := []string{"a"}
	f := mustImageFilter(t, ImageCriteria{Tags: tags})
	tags[0] = "changed"

	q, _ := f.TagsFragment()
	if q.Pattern() != "a" {
		t.Errorf("filter observed caller mutation: %s", q)
	}
}
