// Package mongo implements db.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// Compile-time checks: Store implements db.Store and db.Writer.
var (
	_ db.Store  = (*Store)(nil)
	_ db.Writer = (*Store)(nil)
)

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI            string
	AppName        string
	ConnectTimeout time.Duration
}

// Store implements db.Store via the official driver.
type Store struct {
	client *mongo.Client
}

// NewStore creates a client. The driver connects lazily; use WaitForReady.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// WaitForReady pings the primary with backoff until it answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitReady(ctx, timeout, s.Ping)
}

// Collection checks that both names exist before handing out the collection.
func (s *Store) Collection(ctx context.Context, database, name string) (db.Collection, error) {
	dbs, err := s.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, &db.Error{Op: db.OpListDatabases, Err: err}
	}
	if !slices.Contains(dbs, database) {
		sort.Strings(dbs)
		return nil, &db.UnknownNameError{Kind: db.ErrUnknownDatabase, Name: database, Available: dbs}
	}

	handle := s.client.Database(database)
	colls, err := handle.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, &db.Error{Op: db.OpListCollections, Err: err}
	}
	if !slices.Contains(colls, name) {
		sort.Strings(colls)
		return nil, &db.UnknownNameError{Kind: db.ErrUnknownCollection, Name: name, Available: colls}
	}

	return &collection{coll: handle.Collection(name)}, nil
}

type collection struct {
	coll *mongo.Collection
}

// Find runs the translated filter. limit 0 leaves the cursor uncapped.
func (c *collection) Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error) {
	opts := options.Find()
	if limit = db.NormalizeLimit(limit); limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := c.coll.Find(ctx, ToFilter(q), opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []db.Record
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: err}
		}
		out = append(out, FromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

// FindOne returns the first match or db.ErrNotFound.
func (c *collection) FindOne(ctx context.Context, q query.Query) (db.Record, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, ToFilter(q)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, db.ErrNotFound
		}
		return nil, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return FromBSON(raw), nil
}

// Put upserts doc by _id. Hex ids are stored as ObjectIDs.
func (s *Store) Put(ctx context.Context, database, collection, id string, doc db.Record) error {
	if database == "" || collection == "" || id == "" {
		return fmt.Errorf("database, collection and id are required")
	}

	var key any = id
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		key = oid
	}

	body := make(bson.M, len(doc)+1)
	for k, v := range doc {
		body[k] = v
	}
	body["_id"] = key

	opts := options.Replace().SetUpsert(true)
	_, err := s.client.Database(database).Collection(collection).
		ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, body, opts)
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: fmt.Errorf("%s.%s/%s: %w", database, collection, id, err)}
	}
	return nil
}
