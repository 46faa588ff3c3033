package user

import (
	"context"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn    func(ctx context.Context, q query.Query, limit int) ([]db.Record, error)
	findOneFn func(ctx context.Context, q query.Query) (db.Record, error)
}

func (m *mockStore) Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q, limit)
	}
	return nil, nil
}

func (m *mockStore) FindOne(ctx context.Context, q query.Query) (db.Record, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, q)
	}
	return nil, db.ErrNotFound
}
