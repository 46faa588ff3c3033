// Package filter turns sparse user search criteria into structured queries.
//
// Every criterion is optional: a nil pointer means "not applied", and so does
// a present but empty (or blank) string or list, so empty form fields never
// over-filter. Active criteria are compiled into fragments in a fixed order
// and aggregated under one global operator.
package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/domain/record"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// MaxTags is the maximum number of tags in one search.
const MaxTags = 32

// ImageFieldPrefix qualifies image fields: image documents keep their
// metadata in a "fields" sub-document.
const ImageFieldPrefix = "fields."

// ImagePath returns the schema-qualified path of an image field.
func ImagePath(name string) string { return ImageFieldPrefix + name }

// fragmentFunc compiles one facet. ok is false when the facet is not applied.
type fragmentFunc func() (q query.Query, ok bool)

// namedFragment pairs a facet name with its compiler.
type namedFragment struct {
	name    string
	compile fragmentFunc
}

// aggregate combines active fragments under op.
func aggregate(op query.Operator, facets []namedFragment) (query.Query, []string) {
	var (
		fragments []query.Query
		active    []string
	)
	for _, f := range facets {
		q, ok := f.compile()
		if !ok {
			continue
		}
		fragments = append(fragments, q)
		active = append(active, f.name)
	}
	return query.Combine(op, fragments), active
}

// text returns *v verbatim. Nil and whitespace-only values are not applied.
func text(v *string) (string, bool) {
	if v == nil || isBlank(*v) {
		return "", false
	}
	return *v, true
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func exactString(field string, v *string) (query.Query, bool) {
	s, ok := text(v)
	if !ok {
		return query.Query{}, false
	}
	return query.Eq(field, s), true
}

func exactBool(field string, v *bool) (query.Query, bool) {
	if v == nil {
		return query.Query{}, false
	}
	return query.Eq(field, *v), true
}

func substring(field string, v *string) (query.Query, bool) {
	s, ok := text(v)
	if !ok {
		return query.Query{}, false
	}
	return query.Contains(field, s, true), true
}

// cleanTags drops blank tags and keeps the others exactly as given, since
// each becomes a literal substring pattern.
func cleanTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !isBlank(t) {
			out = append(out, t)
		}
	}
	if len(out) > MaxTags {
		return nil, domain.NewInvalidArgument("tags", fmt.Sprintf("too many tags (max %d)", MaxTags))
	}
	return out, nil
}

// tagsQuery ANDs one case-sensitive contains match per tag.
func tagsQuery(field string, tags []string) (query.Query, bool) {
	switch len(tags) {
	case 0:
		return query.Query{}, false
	case 1:
		return query.Contains(field, tags[0], false), true
	}
	fragments := make([]query.Query, len(tags))
	for i, t := range tags {
		fragments[i] = query.Contains(field, t, false)
	}
	return query.AllOf(fragments...), true
}

// Image field paths, qualified once.
var (
	imageTagsPath          = ImagePath(record.ImageTags)
	imageTypePath          = ImagePath(record.ImageType)
	imageProductInPath     = ImagePath(record.ImageProductIn)
	imageHumanInPath       = ImagePath(record.ImageHumanIn)
	imageInstitutionalPath = ImagePath(record.ImageInstitutional)
	imageFormatPath        = ImagePath(record.ImageFormat)
	imageCreditsPath       = ImagePath(record.ImageCredits)
	imageLimitedUsagePath  = ImagePath(record.ImageLimitedUsage)
	imageCopyrightPath     = ImagePath(record.ImageCopyright)
	imageUsageEndPath      = ImagePath(record.ImageUsageEnd)
)
