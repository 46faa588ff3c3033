// Package gallery serves image search and random browsing.
package gallery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domimage "github.com/kailas-cloud/pfin/internal/domain/image"
	"github.com/kailas-cloud/pfin/internal/domain/search/filter"
	"github.com/kailas-cloud/pfin/internal/domain/search/limit"
	"github.com/kailas-cloud/pfin/internal/logger"
	"github.com/kailas-cloud/pfin/internal/metrics"
)

// Metric kinds.
const (
	KindSearch = "search"
	KindRandom = "random"
)

// Page is one batch of images with the cap that was applied to it. Limit 0
// means the result was not capped.
type Page struct {
	Images []domimage.Image
	Limit  int
}

// Service compiles image criteria and runs them.
type Service struct {
	repo   Repository
	limits limit.Policy
}

// New creates a gallery service.
func New(repo Repository, limits limit.Policy) *Service {
	return &Service{repo: repo, limits: limits}
}

// Search returns images matching every applied criterion.
func (s *Service) Search(ctx context.Context, c filter.ImageCriteria, requested int) (Page, error) {
	f, n, err := s.prepare(c, requested)
	if err != nil {
		return Page{}, err
	}

	q := f.ForgeQuery()
	logger.FromContext(ctx).Debug("gallery: search",
		zap.Stringer("query", q), zap.Strings("facets", f.ActiveFacets()), zap.Int("limit", n))

	images, err := s.repo.Search(ctx, q, n)
	metrics.ObserveSearch(KindSearch, len(f.ActiveFacets()), len(images), err)
	if err != nil {
		return Page{}, fmt.Errorf("search images: %w", err)
	}
	return Page{Images: images, Limit: n}, nil
}

// Random returns a shuffled sample of images matching the criteria.
func (s *Service) Random(ctx context.Context, requested int, c filter.ImageCriteria) (Page, error) {
	f, n, err := s.prepare(c, requested)
	if err != nil {
		return Page{}, err
	}

	q := f.ForgeQuery()
	logger.FromContext(ctx).Debug("gallery: random sample", zap.Stringer("query", q), zap.Int("limit", n))

	images, err := s.repo.RandomSample(ctx, n, q)
	metrics.ObserveSearch(KindRandom, len(f.ActiveFacets()), len(images), err)
	if err != nil {
		return Page{}, fmt.Errorf("sample images: %w", err)
	}
	return Page{Images: images, Limit: n}, nil
}

func (s *Service) prepare(c filter.ImageCriteria, requested int) (filter.ImageFilter, int, error) {
	n, err := s.limits.Resolve(requested)
	if err != nil {
		return filter.ImageFilter{}, 0, err
	}
	f, err := filter.NewImageFilter(c)
	if err != nil {
		return filter.ImageFilter{}, 0, fmt.Errorf("image filter: %w", err)
	}
	return f, n, nil
}
