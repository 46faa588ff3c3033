// Package seed loads YAML document fixtures into any db.Writer.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/pfin/internal/db"
)

// Seed is the fixture layout: database -> collection -> documents.
type Seed struct {
	Databases map[string]map[string][]map[string]any `yaml:"databases"`
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (Seed, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a fixture. Integers become int64, matching what backends return.
func Parse(data []byte) (Seed, error) {
	var sd Seed
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	for _, colls := range sd.Databases {
		for name, docs := range colls {
			for i, d := range docs {
				docs[i] = fromYAML(d).(map[string]any)
			}
			colls[name] = docs
		}
	}
	return sd, nil
}

// Count returns the number of documents in the fixture.
func (sd Seed) Count() int {
	n := 0
	for _, colls := range sd.Databases {
		for _, docs := range colls {
			n += len(docs)
		}
	}
	return n
}

// collectionCreator is implemented by writers that can hold empty collections.
type collectionCreator interface {
	CreateCollection(database, name string)
}

// Apply writes every document in database and collection name order.
// Documents without a string _id get a random one.
func Apply(ctx context.Context, w db.Writer, sd Seed) (int, error) {
	creator, _ := w.(collectionCreator)

	written := 0
	for _, dbName := range sortedKeys(sd.Databases) {
		colls := sd.Databases[dbName]
		for _, collName := range sortedKeys(colls) {
			if creator != nil {
				creator.CreateCollection(dbName, collName)
			}
			for _, doc := range colls[collName] {
				id, _ := doc["_id"].(string)
				if id == "" {
					id = uuid.NewString()
				}
				if err := w.Put(ctx, dbName, collName, id, doc); err != nil {
					return written, fmt.Errorf("put %s.%s/%s: %w", dbName, collName, id, err)
				}
				written++
			}
		}
	}
	return written, nil
}

func fromYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromYAML(e)
		}
		return out
	case int:
		return int64(t)
	default:
		return v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
