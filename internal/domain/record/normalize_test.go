package record

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/logger"
)

var testSpec = MustSpec("test",
	Field{Name: "name", Kind: String},
	Field{Name: "count", Kind: Int},
	Field{Name: "on", Kind: Bool},
	Field{Name: "tags", Kind: List},
)

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return logger.ContextWithLogger(context.Background(), zap.New(core)), logs
}

func TestNormalize_FillsMissingKeys(t *testing.T) {
	got, err := Normalize(context.Background(), map[string]any{"name": "a"}, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Record{"name": "a", "count": int64(0), "on": false, "tags": []any{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_CoercesInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int", 7, 7},
		{"int32", int32(-3), -3},
		{"uint64", uint64(9), 9},
		{"uint64 overflow", uint64(math.MaxUint64), 0},
		{"float truncates", 3.9, 3},
		{"negative float", -2.5, -2},
		{"nan", math.NaN(), 0},
		{"json number", json.Number("42"), 42},
		{"json float number", json.Number("4.2"), 4},
		{"numeric string", " 12 ", 12},
		{"garbage string", "twelve", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(context.Background(), map[string]any{"count": tt.in}, testSpec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got["count"] != tt.want {
				t.Errorf("count = %#v, want %d", got["count"], tt.want)
			}
		})
	}
}

func TestNormalize_CoercionFailureIsLogged(t *testing.T) {
	ctx, logs := observedContext()

	if _, err := Normalize(ctx, map[string]any{
		"name": "", "count": "x", "on": true, "tags": []any{},
	}, testSpec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := logs.FilterMessage("record: integer coercion failed, using 0").Len(); n != 1 {
		t.Errorf("coercion warnings = %d, want 1", n)
	}
}

func TestNormalize_BoolCoercionIsSilent(t *testing.T) {
	ctx, logs := observedContext()

	got, err := Normalize(ctx, map[string]any{
		"name": "", "count": true, "on": true, "tags": []any{},
	}, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["count"] != int64(1) {
		t.Errorf("count = %#v, want 1", got["count"])
	}
	if n := logs.FilterMessage("record: integer coercion failed, using 0").Len(); n != 0 {
		t.Errorf("coercion warnings = %d, want 0", n)
	}
}

func TestNormalize_OtherKindsPassThrough(t *testing.T) {
	in := map[string]any{"name": 5, "count": 1, "on": "yes", "tags": "not a list"}
	got, err := Normalize(context.Background(), in, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["name"] != 5 || got["on"] != "yes" || got["tags"] != "not a list" {
		t.Errorf("unexpected rewrite: %v", got)
	}
}

func TestNormalize_OrphanedKeys(t *testing.T) {
	ctx, logs := observedContext()

	got, err := Normalize(ctx, map[string]any{"name": "a", "extra": 1}, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["extra"] != 1 {
		t.Error("undeclared key must be kept")
	}

	entries := logs.FilterMessage("record: orphaned keys").All()
	if len(entries) != 1 {
		t.Fatalf("orphan warnings = %d, want 1", len(entries))
	}
	keys, ok := entries[0].ContextMap()["keys"].([]any)
	if !ok {
		t.Fatalf("keys field = %#v", entries[0].ContextMap()["keys"])
	}
	want := []any{"count", "extra", "on", "tags"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("orphans mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_NoOrphansNoWarning(t *testing.T) {
	ctx, logs := observedContext()

	in := map[string]any{"name": "a", "count": int64(1), "on": true, "tags": []any{"x"}}
	if _, err := Normalize(ctx, in, testSpec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize(context.Background(), map[string]any{"count": "5", "junk": true}, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize(context.Background(), first, testSpec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass changed the record (-first +second):\n%s", diff)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"count": "5"}
	if _, err := Normalize(context.Background(), in, testSpec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"count": "5"}, in); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestNormalize_Nested(t *testing.T) {
	inner := MustSpec("inner", Field{Name: "n", Kind: Int})
	outer := MustSpec("outer", Field{Name: "fields", Kind: Nested, Nested: &inner})

	got, err := Normalize(context.Background(), map[string]any{"fields": map[string]any{"n": "3"}}, outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Record{"fields": Record{"n": int64(3)}}, got); diff != "" {
		t.Errorf("nested mismatch (-want +got):\n%s", diff)
	}

	got, err = Normalize(context.Background(), map[string]any{"fields": "oops"}, outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Record{"fields": Record{"n": int64(0)}}, got); diff != "" {
		t.Errorf("nested defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_InvalidArguments(t *testing.T) {
	t.Run("not a mapping", func(t *testing.T) {
		raw := []string{"a"}
		_, err := Normalize(context.Background(), raw, testSpec)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		var ire *InvalidRecordError
		if !errors.As(err, &ire) {
			t.Fatalf("expected InvalidRecordError, got %T", err)
		}
		if diff := cmp.Diff(raw, ire.Raw); diff != "" {
			t.Errorf("raw not handed back (-want +got):\n%s", diff)
		}
	})

	t.Run("nil map", func(t *testing.T) {
		var m map[string]any
		if _, err := Normalize(context.Background(), m, testSpec); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty spec", func(t *testing.T) {
		raw := map[string]any{"a": 1}
		got, err := Normalize(context.Background(), raw, Spec{})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if diff := cmp.Diff(Record{"a": 1}, got); diff != "" {
			t.Errorf("raw not handed back (-want +got):\n%s", diff)
		}
	})
}
