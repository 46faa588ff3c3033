package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
)

// ToFilter serializes a query tree to a MongoDB filter document.
// Values are placed as BSON values, never spliced into text.
func ToFilter(q query.Query) bson.D {
	switch q.Kind() {
	case query.KindEq:
		return bson.D{{Key: q.Field(), Value: q.Value()}}
	case query.KindContains:
		re := bson.D{{Key: "$regex", Value: q.Pattern()}}
		if q.CaseInsensitive() {
			re = append(re, bson.E{Key: "$options", Value: "i"})
		}
		return bson.D{{Key: q.Field(), Value: re}}
	case query.KindGte:
		return bson.D{{Key: q.Field(), Value: bson.D{{Key: "$gte", Value: q.Value()}}}}
	case query.KindAnd, query.KindOr:
		children := q.Children()
		arr := make(bson.A, len(children))
		for i, c := range children {
			arr[i] = ToFilter(c)
		}
		return bson.D{{Key: "$" + q.Kind().String(), Value: arr}}
	default:
		return bson.D{}
	}
}

// FromBSON converts a decoded document to plain Go values.
// ObjectIDs become hex strings, dates become unix seconds, int32 widens to int64.
func FromBSON(m bson.M) db.Record {
	out := make(db.Record, len(m))
	for k, v := range m {
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return FromBSON(t)
	case map[string]any:
		return FromBSON(t)
	case bson.D:
		out := make(db.Record, len(t))
		for _, e := range t {
			out[e.Key] = fromValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().Unix()
	case int32:
		return int64(t)
	default:
		return v
	}
}
