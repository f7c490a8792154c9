package service

import (
	"encoding/json"
	"fmt"
)

// Decode unmarshals a document's fields into v. The document id is exposed to
// v under the "id" key.
func Decode(doc Document, v any) error {
	merged := make(map[string]any, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		merged[k] = val
	}
	merged["id"] = doc.ID

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
	}
	return nil
}

// DecodeAll decodes every document of a snapshot in order.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
