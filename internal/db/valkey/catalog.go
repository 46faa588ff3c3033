package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/pfin/internal/db"
)

func (s *Store) databasesKey() string {
	return s.prefix + "databases"
}

func (s *Store) collectionsKey(database string) string {
	return s.prefix + database + ":collections"
}

func (s *Store) docPrefix(database, collection string) string {
	return s.prefix + database + ":" + collection + ":"
}

// Collection checks the catalog sets before handing out the collection.
func (s *Store) Collection(ctx context.Context, database, name string) (db.Collection, error) {
	ok, err := s.isMember(ctx, s.databasesKey(), database)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &db.UnknownNameError{
			Kind: db.ErrUnknownDatabase, Name: database, Available: s.members(ctx, s.databasesKey()),
		}
	}

	ok, err = s.isMember(ctx, s.collectionsKey(database), name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &db.UnknownNameError{
			Kind: db.ErrUnknownCollection, Name: name, Available: s.members(ctx, s.collectionsKey(database)),
		}
	}

	return &collection{store: s, prefix: s.docPrefix(database, name)}, nil
}

func (s *Store) isMember(ctx context.Context, key, member string) (bool, error) {
	cmd := s.b().Sismember().Key(key).Member(member).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpSIsMember, Err: err}
	}
	return n == 1, nil
}

// members lists a catalog set for error messages. Failures yield nil.
func (s *Store) members(ctx context.Context, key string) []string {
	cmd := s.b().Smembers().Key(key).Build()
	names, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil
	}
	sort.Strings(names)
	return names
}

// Put writes a document under id, stamping _id, and registers its database
// and collection.
// It serves seeding and admin tooling; the portal itself never writes.
func (s *Store) Put(ctx context.Context, database, collection, id string, doc db.Record) error {
	if database == "" || collection == "" || id == "" {
		return fmt.Errorf("database, collection and id are required")
	}
	if strings.ContainsAny(database+collection, ":") {
		return fmt.Errorf("database and collection names must not contain ':'")
	}

	body := make(db.Record, len(doc)+1)
	for k, v := range doc {
		body[k] = v
	}
	body["_id"] = id

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	key := s.docPrefix(database, collection) + id
	cmds := []rueidis.Completed{
		s.b().Arbitrary("JSON.SET").Keys(key).Args("$", string(data)).Build(),
		s.b().Sadd().Key(s.databasesKey()).Member(database).Build(),
		s.b().Sadd().Key(s.collectionsKey(database)).Member(collection).Build(),
	}
	ops := []string{db.OpJSONSet, db.OpSAdd, db.OpSAdd}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Err: fmt.Errorf("key %s: %w", key, err)}
		}
	}
	return nil
}
