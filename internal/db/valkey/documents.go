package valkey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
	"github.com/kailas-cloud/pfin/internal/logger"
)

// scanCount is the SCAN page size hint; each page costs one JSON.GET pipeline.
const scanCount = 100

type collection struct {
	store  *Store
	prefix string
}

// Find scans the collection and keeps documents matching q, stopping at limit.
// Order follows SCAN and is not stable across calls. SCAN may repeat a key
// across pages; each key is loaded once.
func (c *collection) Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error) {
	limit = db.NormalizeLimit(limit)
	pattern := escapeGlob(c.prefix) + "*"

	var (
		out    []db.Record
		cursor uint64
		seen   = make(map[string]struct{})
	)
	for {
		cmd := c.store.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		page, err := c.store.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}

		docs, err := c.fetch(ctx, unseen(seen, page.Elements))
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if !q.Match(d) {
				continue
			}
			out = append(out, d)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		cursor = page.Cursor
		if cursor == 0 {
			return out, nil
		}
	}
}

// unseen drops keys already in seen and records the rest.
func unseen(seen map[string]struct{}, keys []string) []string {
	fresh := keys[:0:0]
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, k)
	}
	return fresh
}

// FindOne returns the first match or db.ErrNotFound.
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

// fetch loads documents in one DoMulti round-trip. Keys deleted since the
// SCAN are skipped, and so are values that do not decode to a JSON object:
// one bad document is logged and never fails the whole search.
func (c *collection) fetch(ctx context.Context, keys []string) ([]db.Record, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = c.store.b().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
	}

	out := make([]db.Record, 0, len(keys))
	for i, res := range c.store.client.DoMulti(ctx, cmds...) {
		raw, err := res.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			logger.FromContext(ctx).Warn("valkey: skipping malformed document",
				zap.String("key", keys[i]),
				zap.Error(&db.Error{Op: db.OpDecode, Err: err}),
			)
			continue
		}
		if doc != nil {
			out = append(out, doc)
		}
	}
	return out, nil
}

var errNotObject = errors.New("document is not a JSON object")

// decodeDocument unwraps the "$" path reply, a one-element JSON array.
func decodeDocument(raw string) (db.Record, error) {
	if raw == "" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var wrapped []any
	if err := dec.Decode(&wrapped); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(wrapped) == 0 {
		return nil, nil
	}
	obj, ok := fromJSON(wrapped[0]).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotObject, wrapped[0])
	}
	return obj, nil
}

// fromJSON turns json.Number into int64 when integral, float64 otherwise.
func fromJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromJSON(e)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes SCAN MATCH metacharacters in a literal key prefix.
func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
