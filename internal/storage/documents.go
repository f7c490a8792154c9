package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/lifeos/internal/service"
)

// storedDoc is a document plus its insertion sequence, used for stable ordering.
type storedDoc struct {
	fields service.Fields
	id     string
	seq    int64
}

// normalizeFields resolves server timestamps and round-trips the map through
// JSON so that every store holds the same plain value types.
func normalizeFields(fields service.Fields, now time.Time) (service.Fields, error) {
	resolved := make(map[string]any, len(fields))
	for k, v := range fields {
		if service.IsServerTimestamp(v) {
			resolved[k] = now.UTC().Format(service.TimestampLayout)
			continue
		}
		resolved[k] = v
	}

	data, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	var out service.Fields
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	return out, nil
}

// mergeFields overwrites the fields of base that appear in patch.
func mergeFields(base, patch service.Fields) service.Fields {
	out := make(service.Fields, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// orderDocuments sorts by the query's field, ties by insertion order, and
// applies the limit.
func orderDocuments(docs []storedDoc, q service.Query) []service.Document {
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i].fields[q.OrderBy], docs[j].fields[q.OrderBy])
			if c == 0 {
				return docs[i].seq < docs[j].seq
			}
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	} else {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	out := make([]service.Document, len(docs))
	for i, d := range docs {
		out[i] = service.Document{ID: d.id, Fields: copyFields(d.fields)}
	}
	return out
}

// compareValues orders missing < numbers < strings.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

// copyFields returns a deep copy so callers cannot mutate stored state.
func copyFields(fields service.Fields) service.Fields {
	out := make(service.Fields, len(fields))
	for k, v := range fields {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = copyValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = copyValue(inner)
		}
		return s
	default:
		return val
	}
}
