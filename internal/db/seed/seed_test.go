package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/db/memory"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

const fixture = `
databases:
  portal:
    users:
      - _id: u1
        email: a@pf.fr
        group: guest
    images:
      - _id: i1
        fields:
          usage_end: 1700000000
          tags: [a, b]
      - fields:
          id: noid
    archive: []
`

type put struct {
	database, collection, id string
}

type recordingWriter struct {
	puts []put
	err  error
}

func (w *recordingWriter) Put(_ context.Context, database, collection, id string, _ db.Record) error {
	if w.err != nil {
		return w.err
	}
	w.puts = append(w.puts, put{database, collection, id})
	return nil
}

func TestParse_NormalizesIntegers(t *testing.T) {
	sd, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sd.Count() != 3 {
		t.Errorf("Count() = %d, want 3", sd.Count())
	}
	fields := sd.Databases["portal"]["images"][0]["fields"].(map[string]any)
	if _, ok := fields["usage_end"].(int64); !ok {
		t.Errorf("usage_end decoded as %T, want int64", fields["usage_end"])
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("databases: [")); err == nil {
		t.Fatal("expected error")
	}
}

func TestApply_OrderAndIDs(t *testing.T) {
	sd, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatal(err)
	}
	w := &recordingWriter{}
	n, err := Apply(context.Background(), w, sd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || len(w.puts) != 3 {
		t.Fatalf("written = %d, puts = %d", n, len(w.puts))
	}

	// images sorts before users; generated ids are random.
	if diff := cmp.Diff(put{"portal", "images", "i1"}, w.puts[0], cmp.AllowUnexported(put{})); diff != "" {
		t.Errorf("first put mismatch (-want +got):\n%s", diff)
	}
	if w.puts[1].id == "" {
		t.Error("expected generated id")
	}
	if diff := cmp.Diff(put{"portal", "users", "u1"}, w.puts[2], cmp.AllowUnexported(put{})); diff != "" {
		t.Errorf("last put mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_WriterError(t *testing.T) {
	sd, _ := Parse([]byte(fixture))
	boom := errors.New("boom")
	n, err := Apply(context.Background(), &recordingWriter{err: boom}, sd)
	if !errors.Is(err, boom) || n != 0 {
		t.Fatalf("got n=%d err=%v", n, err)
	}
}

func TestApply_MemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatal(err)
	}
	sd, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	store := memory.NewStore()
	if _, err := Apply(context.Background(), store, sd); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Empty collections are created too.
	if _, err := store.Collection(context.Background(), "portal", "archive"); err != nil {
		t.Errorf("archive collection: %v", err)
	}

	users, err := store.Collection(context.Background(), "portal", "users")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := users.FindOne(context.Background(), query.Eq("email", "a@pf.fr"))
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if doc["_id"] != "u1" {
		t.Errorf("_id = %v", doc["_id"])
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
