package gallery

import (
	"context"

	domimage "github.com/kailas-cloud/pfin/internal/domain/image"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// Repository executes image queries.
type Repository interface {
	Search(ctx context.Context, q query.Query, limit int) ([]domimage.Image, error)
	RandomSample(ctx context.Context, limit int, additional query.Query) ([]domimage.Image, error)
}
