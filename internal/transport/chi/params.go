package chi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/domain/search/filter"
)

// Query parameter names.
const (
	paramLimit         = "limit"
	paramText          = "text"
	paramType          = "type"
	paramProductIn     = "product_in"
	paramHumanIn       = "human_in"
	paramInstitutional = "institutional"
	paramVertical      = "vertical"
	paramCredits       = "credits"
	paramLimitedUsage  = "limited_usage"
	paramCopyright     = "copyright"
	paramUsageEnd      = "usage_end"
	paramTags          = "tags"
	paramRole          = "group"
	paramName          = "name"
	paramEmail         = "email"
)

func bindOptional(q url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return domain.NewInvalidArgument(name, err.Error())
	}
	return nil
}

// bindFlag reads a yes/no style boolean. Absent and blank leave dest nil.
func bindFlag(q url.Values, name string, dest **bool) error {
	var raw *string
	if err := bindOptional(q, name, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	v, err := parseFlag(*raw)
	if err != nil {
		return domain.NewInvalidArgument(name, err.Error())
	}
	*dest = &v
	return nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "on", "oui":
		return true, nil
	case "no", "n", "false", "0", "off", "non":
		return false, nil
	default:
		return false, fmt.Errorf("not a yes/no value: %q", s)
	}
}

func bindLimit(q url.Values) (int, error) {
	var n *int
	if err := bindOptional(q, paramLimit, &n); err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return *n, nil
}

// bindImageCriteria reads image criteria. Tags come comma separated.
func bindImageCriteria(q url.Values) (filter.ImageCriteria, error) {
	var c filter.ImageCriteria

	strs := []struct {
		name string
		dest **string
	}{
		{paramText, &c.Text},
		{paramType, &c.Type},
		{paramCredits, &c.Credits},
	}
	for _, s := range strs {
		if err := bindOptional(q, s.name, s.dest); err != nil {
			return filter.ImageCriteria{}, err
		}
	}

	flags := []struct {
		name string
		dest **bool
	}{
		{paramProductIn, &c.ProductIn},
		{paramHumanIn, &c.HumanIn},
		{paramInstitutional, &c.Institutional},
		{paramVertical, &c.Vertical},
		{paramLimitedUsage, &c.LimitedUsage},
		{paramCopyright, &c.Copyright},
	}
	for _, f := range flags {
		if err := bindFlag(q, f.name, f.dest); err != nil {
			return filter.ImageCriteria{}, err
		}
	}

	if err := bindOptional(q, paramUsageEnd, &c.UsageEnd); err != nil {
		return filter.ImageCriteria{}, err
	}

	// Present-only: the optional binding path wants **[]string.
	if _, ok := q[paramTags]; ok {
		if err := runtime.BindQueryParameter("form", false, true, paramTags, q, &c.Tags); err != nil {
			return filter.ImageCriteria{}, domain.NewInvalidArgument(paramTags, err.Error())
		}
	}
	return c, nil
}

func bindUserCriteria(q url.Values) (filter.UserCriteria, error) {
	var c filter.UserCriteria
	for name, dest := range map[string]**string{
		paramRole:  &c.Role,
		paramName:  &c.Name,
		paramEmail: &c.Email,
	} {
		if err := bindOptional(q, name, dest); err != nil {
			return filter.UserCriteria{}, err
		}
	}
	return c, nil
}
