package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// Record is a decoded document with plain Go values: strings, bools, int64,
// float64, []any and nested map[string]any. Backends convert their native
// types (ObjectIDs, BSON documents, JSON numbers) before returning.
type Record = map[string]any

// Store is the main database facade.
type Store interface {
	Pinger
	CollectionSelector
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionSelector resolves a named collection. Selecting a database or
// collection that does not exist fails with ErrUnknownDatabase or
// ErrUnknownCollection, both of which wrap domain.ErrInvalidArgument.
type CollectionSelector interface {
	Collection(ctx context.Context, database, name string) (Collection, error)
}

// Collection is read-only access to one collection of documents.
type Collection interface {
	// Find returns documents matching q in store order. limit 0 means no cap.
	Find(ctx context.Context, q query.Query, limit int) ([]Record, error)
	// FindOne returns the first document matching q or ErrNotFound.
	FindOne(ctx context.Context, q query.Query) (Record, error)
}

// Writer stores one document under an id, replacing any previous version and
// creating the database and collection on first use. Used for seeding only.
type Writer interface {
	Put(ctx context.Context, database, collection, id string, doc Record) error
}

// NormalizeLimit maps negative limits to 0 (no cap).
func NormalizeLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	return limit
}
