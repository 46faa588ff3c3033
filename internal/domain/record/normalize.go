package record

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/domain"
	"github.com/kailas-cloud/pfin/internal/logger"
)

// InvalidRecordError reports a raw value that is not a key-value mapping.
// Raw holds the value exactly as it was passed in.
type InvalidRecordError struct {
	Schema string
	Raw    any
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("%s: record for schema %q is %T, not a mapping",
		domain.ErrInvalidArgument.Error(), e.Schema, e.Raw)
}

func (e *InvalidRecordError) Unwrap() error { return domain.ErrInvalidArgument }

// Normalize forces raw to conform to spec.
//
// Every declared key ends up present: missing keys get their kind's zero value,
// Int fields are coerced (0 on failure), Nested fields are normalized recursively.
// Other kinds pass through unchecked. Undeclared keys are kept and reported
// through the context logger. The input map is never mutated.
//
// When raw is not a mapping, or spec declares nothing, the error wraps
// domain.ErrInvalidArgument and raw is handed back unchanged: as the returned
// Record when it is a mapping, inside *InvalidRecordError otherwise.
func Normalize(ctx context.Context, raw any, spec Spec) (Record, error) {
	log := logger.FromContext(ctx)

	src, ok := asRecord(raw)
	if !ok {
		return nil, &InvalidRecordError{Schema: spec.Name(), Raw: raw}
	}
	if spec.IsZero() {
		return src, domain.NewInvalidArgument("schema", "declares no fields")
	}

	out := make(Record, len(src)+len(spec.fields))
	for k, v := range src {
		out[k] = v
	}

	for _, f := range spec.fields {
		v, present := src[f.Name]
		if !present {
			out[f.Name] = Zero(f)
			continue
		}
		switch f.Kind {
		case Int:
			n, ok := coerceInt(v)
			if !ok {
				log.Warn("record: integer coercion failed, using 0",
					zap.String("schema", spec.Name()),
					zap.String("field", f.Name),
					zap.Any("value", v),
				)
			}
			out[f.Name] = n
		case Nested:
			sub, err := Normalize(ctx, v, *f.Nested)
			if err != nil {
				log.Warn("record: nested field is not a mapping, using defaults",
					zap.String("schema", spec.Name()),
					zap.String("field", f.Name),
					zap.Error(err),
				)
				sub = Defaults(*f.Nested)
			}
			out[f.Name] = sub
		}
	}

	if orphans := orphanedKeys(src, spec); len(orphans) > 0 {
		log.Warn("record: orphaned keys",
			zap.String("schema", spec.Name()),
			zap.Strings("keys", orphans),
		)
	}

	return out, nil
}

func asRecord(raw any) (Record, bool) {
	m, ok := raw.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// orphanedKeys is the sorted symmetric difference between the raw keys and the schema keys.
func orphanedKeys(src Record, spec Spec) []string {
	var keys []string
	for k := range src {
		if !spec.Has(k) {
			keys = append(keys, k)
		}
	}
	for _, f := range spec.fields {
		if _, ok := src[f.Name]; !ok {
			keys = append(keys, f.Name)
		}
	}
	sort.Strings(keys)
	return keys
}

// coerceInt converts integer-like values. Floats truncate toward zero, strings
// must hold a base-10 integer, and booleans count as 1 and 0.
func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0, false
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func uintToInt(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
