package image

import (
	"context"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn func(ctx context.Context, q query.Query, limit int) ([]db.Record, error)
}

func (m *mockStore) Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q, limit)
	}
	return nil, nil
}

func imageDoc(id string, tags ...any) db.Record {
	return db.Record{
		"_id": "oid-" + id,
		"fields": map[string]any{
			"id":        id,
			"extension": "jpg",
			"type":      "Logo",
			"format":    true,
			"usage_end": 10.0,
			"tags":      tags,
		},
	}
}

// noShuffle keeps store order so samples are deterministic.
func noShuffle(int, func(i, j int)) {}
