package query

import (
	"encoding/json"
	"strconv"
	"strings"
)

// String returns a debug rendering in MongoDB extended-JSON style.
// It is for logs and test failure output only; nothing parses it back.
func (q Query) String() string {
	var b strings.Builder
	q.write(&b)
	return b.String()
}

func (q Query) write(b *strings.Builder) {
	switch q.kind {
	case KindEmpty:
		b.WriteString("{}")
	case KindAnd, KindOr:
		b.WriteString(`{"$` + q.kind.String() + `": [`)
		for i, c := range q.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
		b.WriteString("]}")
	case KindEq:
		b.WriteString("{" + strconv.Quote(q.field) + ": " + jsonValue(q.value) + "}")
	case KindContains:
		b.WriteString("{" + strconv.Quote(q.field) + `: {"$regex": ` + strconv.Quote(q.pattern))
		if q.fold {
			b.WriteString(`, "$options": "i"`)
		}
		b.WriteString("}}")
	case KindGte:
		b.WriteString("{" + strconv.Quote(q.field) + `: {"$gte": ` + jsonValue(q.value) + "}}")
	}
}

func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote("<unencodable>")
	}
	return string(data)
}
