// Package valkey implements db.Store on Valkey or Redis with JSON documents.
//
// Layout under the configured key prefix:
//
//	<prefix>databases               SET of database names
//	<prefix><db>:collections        SET of collection names
//	<prefix><db>:<coll>:<id>        JSON document
//
// The server has no query language for these documents, so Find scans the
// collection's keys and evaluates the query tree in process.
package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/pfin/internal/db"
)

// Compile-time checks: Store implements db.Store and db.Writer.
var (
	_ db.Store  = (*Store)(nil)
	_ db.Writer = (*Store)(nil)
)

// DefaultKeyPrefix namespaces every key written by the portal.
const DefaultKeyPrefix = "pfin:"

// Config holds connection parameters for a Valkey/Redis store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string // DefaultKeyPrefix when empty
	// ClientName is reported by CLIENT LIST.
	ClientName string
	// WriteTimeout bounds a stalled connection; rueidis default when zero.
	WriteTimeout time.Duration
}

func (c Config) options() rueidis.ClientOption {
	return rueidis.ClientOption{
		InitAddress:      c.Addrs,
		Username:         c.Username,
		Password:         c.Password,
		SelectDB:         c.DB,
		ClientName:       c.ClientName,
		ConnWriteTimeout: c.WriteTimeout,
		// Documents are read once per request; client-side caching would only
		// hold memory.
		DisableCache: true,
	}
}

// Store implements db.Store and db.Writer over a rueidis client. Keys live
// under prefix.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore dials the configured addresses.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(cfg.options())
	if err != nil {
		return nil, fmt.Errorf("connect %v: %w", cfg.Addrs, err)
	}
	return newStore(client, cfg.KeyPrefix), nil
}

func newStore(client rueidis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Ping sends PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the client's connections.
func (s *Store) Close() { s.client.Close() }

// WaitForReady pings with backoff until the server answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitReady(ctx, timeout, s.Ping)
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder { return s.client.B() }
