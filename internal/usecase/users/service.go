// Package users serves the user directory.
package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/domain/search/filter"
	"github.com/kailas-cloud/pfin/internal/domain/search/limit"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/logger"
	"github.com/kailas-cloud/pfin/internal/metrics"
)

// KindUsers labels directory queries in metrics.
const KindUsers = "users"

// Service lists users.
type Service struct {
	repo   Repository
	limits limit.Policy
}

// New creates a users service.
func New(repo Repository, limits limit.Policy) *Service {
	return &Service{repo: repo, limits: limits}
}

// List returns users matching the criteria.
func (s *Service) List(ctx context.Context, c filter.UserCriteria, requested int) ([]domuser.User, error) {
	n, err := s.limits.Resolve(requested)
	if err != nil {
		return nil, err
	}
	f, err := filter.NewUserFilter(c)
	if err != nil {
		return nil, fmt.Errorf("user filter: %w", err)
	}

	q := f.ForgeQuery()
	logger.FromContext(ctx).Debug("users: list", zap.Stringer("query", q), zap.Int("limit", n))

	list, err := s.repo.List(ctx, q, n)
	metrics.ObserveSearch(KindUsers, len(f.ActiveFacets()), len(list), err)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}
