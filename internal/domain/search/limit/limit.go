// Package limit resolves requested result caps against configured bounds.
package limit

import (
	"github.com/kailas-cloud/pfin/internal/domain"
)

// Built-in bounds used when a Policy leaves them unset.
const (
	DefaultLimit = 24
	MaxLimit     = 200
)

// Policy bounds result caps. The zero value uses the built-in bounds.
type Policy struct {
	Default int
	Max     int
	// AllowUnbounded lets a requested limit of 0 reach the store as "no cap".
	AllowUnbounded bool
}

// Resolve turns a requested limit into the cap handed to the executor.
// Negative limits are invalid. 0 is the default limit unless the policy
// allows unbounded results. Larger limits are clamped to Max.
func (p Policy) Resolve(requested int) (int, error) {
	if requested < 0 {
		return 0, domain.NewInvalidArgument("limit", "must not be negative")
	}

	def, maxLimit := p.Default, p.Max
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if def <= 0 {
		def = DefaultLimit
	}
	def = min(def, maxLimit)

	if requested == 0 {
		if p.AllowUnbounded {
			return 0, nil
		}
		return def, nil
	}
	return min(requested, maxLimit), nil
}
