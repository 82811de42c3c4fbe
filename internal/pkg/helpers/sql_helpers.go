package helpers

import (
	"encoding/json"
	"fmt"
)

// JSONList encodes a list for a JSONB column. Empty lists are stored as NULL.
func JSONList(items []string) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return string(raw), nil
}

// DecodeJSONList decodes a JSONB list column. NULL decodes to a nil slice.
func DecodeJSONList(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}

// NullIfEmpty maps a missing or blank string to NULL
func NullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
