package filter

import (
	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/domain/record"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
	"github.com/kailas-cloud/pfin/internal/domain/user"
)

// User facet names, in compile order.
const (
	FacetRole  = "role"
	FacetName  = "name"
	FacetEmail = "email"
)

// UserCriteria is the sparse set of user directory criteria.
type UserCriteria struct {
	Role  *string
	Name  *string
	Email *string
}

// UserFilter compiles UserCriteria. User documents are flat.
type UserFilter struct {
	c  UserCriteria
	op query.Operator
}

// NewUserFilter validates criteria and creates a filter using AND.
func NewUserFilter(c UserCriteria) (UserFilter, error) {
	if r, ok := text(c.Role); ok && !user.Role(r).Valid() {
		return UserFilter{}, domain.NewInvalidArgument("role", "unknown role "+r)
	}
	return UserFilter{c: c, op: query.And}, nil
}

// WithOperator returns a copy aggregating fragments under op.
func (f UserFilter) WithOperator(op query.Operator) UserFilter {
	f.op = op
	return f
}

// RoleFragment matches the group exactly.
func (f UserFilter) RoleFragment() (query.Query, bool) {
	return exactString(record.UserGroup, f.c.Role)
}

// NameFragment matches a display-name substring, ignoring case.
func (f UserFilter) NameFragment() (query.Query, bool) {
	return substring(record.UserName, f.c.Name)
}

// EmailFragment matches an email substring, ignoring case.
func (f UserFilter) EmailFragment() (query.Query, bool) {
	return substring(record.UserEmail, f.c.Email)
}

func (f UserFilter) facets() []namedFragment {
	return []namedFragment{
		{FacetRole, f.RoleFragment},
		{FacetName, f.NameFragment},
		{FacetEmail, f.EmailFragment},
	}
}

// ForgeQuery compiles every active facet in fixed order and aggregates them.
func (f UserFilter) ForgeQuery() query.Query {
	q, _ := aggregate(f.op, f.facets())
	return q
}

// ActiveFacets lists the names of applied facets in compile order.
func (f UserFilter) ActiveFacets() []string {
	_, active := aggregate(f.op, f.facets())
	return active
}
