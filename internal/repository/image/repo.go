// Package image executes compiled queries against the image collection and
// maps raw documents to typed images through the record normalizer.
package image

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/db"
	domimage "github.com/kailas-cloud/pfin/internal/domain/image"
	"github.com/kailas-cloud/pfin/internal/domain/record"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
	"github.com/kailas-cloud/pfin/internal/logger"
)

// OversampleFactor sizes the window RandomSample draws from.
const OversampleFactor = 5

// fieldsKey holds image metadata inside a stored document.
const fieldsKey = "fields"

// store is the consumer interface for images (ISP).
type store interface {
	Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error)
}

// Repo implements usecase/gallery.Repository.
type Repo struct {
	store   store
	shuffle func(n int, swap func(i, j int))
}

// New creates an image repository.
func New(s store) *Repo {
	return &Repo{store: s, shuffle: rand.Shuffle}
}

// WithShuffle replaces the shuffle used by RandomSample.
func (r *Repo) WithShuffle(fn func(n int, swap func(i, j int))) *Repo {
	r.shuffle = fn
	return r
}

// Search runs q and normalizes every hit. limit 0 means no cap.
func (r *Repo) Search(ctx context.Context, q query.Query, limit int) ([]domimage.Image, error) {
	raws, err := r.store.Find(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}
	return toImages(ctx, raws), nil
}

// RandomSample fetches OversampleFactor*limit matching documents, shuffles them
// and keeps limit. Results are drawn from that first window only, not from the
// whole matching set.
func (r *Repo) RandomSample(ctx context.Context, limit int, additional query.Query) ([]domimage.Image, error) {
	if limit <= 0 {
		return []domimage.Image{}, nil
	}

	raws, err := r.store.Find(ctx, additional, limit*OversampleFactor)
	if err != nil {
		return nil, fmt.Errorf("find image sample: %w", err)
	}

	r.shuffle(len(raws), func(i, j int) { raws[i], raws[j] = raws[j], raws[i] })
	if len(raws) > limit {
		raws = raws[:limit]
	}
	return toImages(ctx, raws), nil
}

func toImages(ctx context.Context, raws []db.Record) []domimage.Image {
	out := make([]domimage.Image, 0, len(raws))
	for _, raw := range raws {
		rec, err := record.Normalize(ctx, imageFields(raw), record.ImageSpec)
		if err != nil {
			logger.FromContext(ctx).Warn("image: skipping malformed document", zap.Error(err))
			continue
		}
		out = append(out, domimage.FromRecord(rec))
	}
	return out
}

// imageFields returns the metadata sub-document, carrying the top-level _id
// into it. Documents without a sub-document are used whole.
func imageFields(raw db.Record) db.Record {
	sub, ok := raw[fieldsKey].(map[string]any)
	if !ok {
		return raw
	}
	if _, has := sub[record.ImageMongoID]; has {
		return sub
	}
	id, has := raw[record.ImageMongoID]
	if !has {
		return sub
	}
	out := make(db.Record, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	out[record.ImageMongoID] = id
	return out
}
