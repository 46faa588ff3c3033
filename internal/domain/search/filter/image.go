package filter

import (
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// Image facet names, in compile order.
const (
	FacetText          = "text"
	FacetType          = "type"
	FacetProductIn     = "product_in"
	FacetHumanIn       = "human_in"
	FacetInstitutional = "institutional"
	FacetFormat        = "format"
	FacetCredits       = "credits"
	FacetLimitedUsage  = "limited_usage"
	FacetCopyright     = "copyright"
	FacetUsageEnd      = "usage_end"
	FacetTags          = "tags"
)

// ImageCriteria is the sparse set of image search criteria.
type ImageCriteria struct {
	// Text is a case-insensitive substring looked up in the tags.
	Text *string
	// Type is the exact image type (e.g. PassionFroid, Fournisseur, Logo).
	Type          *string
	ProductIn     *bool
	HumanIn       *bool
	Institutional *bool
	// Vertical filters on orientation: true for vertical, false for horizontal.
	Vertical *bool
	// Credits is a case-insensitive substring of the author credits.
	Credits      *string
	LimitedUsage *bool
	Copyright    *bool
	// UsageEnd keeps images whose usage rights end at or after this unix time.
	UsageEnd *int64
	// Tags must all be present (substring, case-sensitive).
	Tags []string
}

// ImageFilter compiles ImageCriteria. Immutable once built.
type ImageFilter struct {
	c    ImageCriteria
	tags []string
	op   query.Operator
}

// NewImageFilter validates criteria and creates a filter using AND.
func NewImageFilter(c ImageCriteria) (ImageFilter, error) {
	tags, err := cleanTags(c.Tags)
	if err != nil {
		return ImageFilter{}, err
	}
	c.Tags = nil
	return ImageFilter{c: c, tags: tags, op: query.And}, nil
}

// WithOperator returns a copy aggregating fragments under op.
func (f ImageFilter) WithOperator(op query.Operator) ImageFilter {
	f.op = op
	return f
}

// Operator returns the global operator.
func (f ImageFilter) Operator() query.Operator { return f.op }

// TextFragment matches the free-text criterion against the tags.
func (f ImageFilter) TextFragment() (query.Query, bool) {
	return substring(imageTagsPath, f.c.Text)
}

// TypeFragment matches the image type exactly.
func (f ImageFilter) TypeFragment() (query.Query, bool) {
	return exactString(imageTypePath, f.c.Type)
}

// ProductInFragment matches the product-in-frame flag.
func (f ImageFilter) ProductInFragment() (query.Query, bool) {
	return exactBool(imageProductInPath, f.c.ProductIn)
}

// HumanInFragment matches the human-in-frame flag.
func (f ImageFilter) HumanInFragment() (query.Query, bool) {
	return exactBool(imageHumanInPath, f.c.HumanIn)
}

// InstitutionalFragment matches the institutional flag.
func (f ImageFilter) InstitutionalFragment() (query.Query, bool) {
	return exactBool(imageInstitutionalPath, f.c.Institutional)
}

// FormatFragment matches the orientation flag.
func (f ImageFilter) FormatFragment() (query.Query, bool) {
	return exactBool(imageFormatPath, f.c.Vertical)
}

// CreditsFragment matches a credits substring, ignoring case.
func (f ImageFilter) CreditsFragment() (query.Query, bool) {
	return substring(imageCreditsPath, f.c.Credits)
}

// LimitedUsageFragment matches the limited-usage flag.
func (f ImageFilter) LimitedUsageFragment() (query.Query, bool) {
	return exactBool(imageLimitedUsagePath, f.c.LimitedUsage)
}

// CopyrightFragment matches the copyright flag.
func (f ImageFilter) CopyrightFragment() (query.Query, bool) {
	return exactBool(imageCopyrightPath, f.c.Copyright)
}

// UsageEndFragment keeps images still usable at the given time.
func (f ImageFilter) UsageEndFragment() (query.Query, bool) {
	if f.c.UsageEnd == nil {
		return query.Query{}, false
	}
	return query.Gte(imageUsageEndPath, *f.c.UsageEnd), true
}

// TagsFragment requires every tag: a single match for one tag, an AND of
// matches for several, nothing for none.
func (f ImageFilter) TagsFragment() (query.Query, bool) {
	return tagsQuery(imageTagsPath, f.tags)
}

func (f ImageFilter) facets() []namedFragment {
	return []namedFragment{
		{FacetText, f.TextFragment},
		{FacetType, f.TypeFragment},
		{FacetProductIn, f.ProductInFragment},
		{FacetHumanIn, f.HumanInFragment},
		{FacetInstitutional, f.InstitutionalFragment},
		{FacetFormat, f.FormatFragment},
		{FacetCredits, f.CreditsFragment},
		{FacetLimitedUsage, f.LimitedUsageFragment},
		{FacetCopyright, f.CopyrightFragment},
		{FacetUsageEnd, f.UsageEndFragment},
		{FacetTags, f.TagsFragment},
	}
}

// ForgeQuery compiles every active facet in fixed order and aggregates them.
// No active facet yields the empty query.
func (f ImageFilter) ForgeQuery() query.Query {
	q, _ := aggregate(f.op, f.facets())
	return q
}

// ActiveFacets lists the names of applied facets in compile order.
func (f ImageFilter) ActiveFacets() []string {
	_, active := aggregate(f.op, f.facets())
	return active
}
