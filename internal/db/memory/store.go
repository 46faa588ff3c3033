// Package memory is an in-process document store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// Compile-time checks: Store implements db.Store and db.Writer.
var (
	_ db.Store  = (*Store)(nil)
	_ db.Writer = (*Store)(nil)
)

// Store keeps documents per database and collection in insertion order.
type Store struct {
	mu  sync.RWMutex
	dbs map[string]map[string][]db.Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{dbs: make(map[string]map[string][]db.Record)}
}

// CreateCollection registers an empty collection, creating the database if needed.
func (s *Store) CreateCollection(database, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionLocked(database, name)
}

// Insert appends copies of docs to a collection, creating it if needed.
func (s *Store) Insert(database, name string, docs ...db.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionLocked(database, name)
	for _, d := range docs {
		s.dbs[database][name] = append(s.dbs[database][name], copyRecord(d))
	}
}

// Put replaces the document whose _id equals id, or appends doc.
func (s *Store) Put(_ context.Context, database, collection, id string, doc db.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionLocked(database, collection)

	rec := copyRecord(doc)
	rec["_id"] = id
	docs := s.dbs[database][collection]
	for i, d := range docs {
		if d["_id"] == id {
			docs[i] = rec
			return nil
		}
	}
	s.dbs[database][collection] = append(docs, rec)
	return nil
}

func (s *Store) collectionLocked(database, name string) {
	colls, ok := s.dbs[database]
	if !ok {
		colls = make(map[string][]db.Record)
		s.dbs[database] = colls
	}
	if _, ok := colls[name]; !ok {
		colls[name] = nil
	}
}

// Ping reports the context state; the store itself is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Collection selects an existing collection.
func (s *Store) Collection(_ context.Context, database, name string) (db.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	colls, ok := s.dbs[database]
	if !ok {
		return nil, &db.UnknownNameError{Kind: db.ErrUnknownDatabase, Name: database, Available: sortedKeys(s.dbs)}
	}
	if _, ok := colls[name]; !ok {
		return nil, &db.UnknownNameError{Kind: db.ErrUnknownCollection, Name: name, Available: sortedKeys(colls)}
	}
	return &collection{store: s, database: database, name: name}, nil
}

type collection struct {
	store    *Store
	database string
	name     string
}

// Find scans the collection in insertion order.
func (c *collection) Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	limit = db.NormalizeLimit(limit)

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var out []db.Record
	for _, doc := range c.store.dbs[c.database][c.name] {
		if !q.Match(doc) {
			continue
		}
		out = append(out, copyRecord(doc))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// FindOne returns the first match.
func (c *collection) FindOne(ctx context.Context, q query.Query) (db.Record, error) {
	docs, err := c.Find(ctx, q, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, db.ErrNotFound
	}
	return docs[0], nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyRecord(r db.Record) db.Record {
	out := make(db.Record, len(r))
	for k, v := range r {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
