package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnwrapList decodes a list response that may arrive in one of three shapes:
// a bare array, {"data": [...]}, or {"<key>": [...]}. The first shape present
// wins; anything else yields an empty list.
func UnwrapList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []T{}, nil
	}

	if raw[0] == '[' {
		return decodeList[T](raw)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Scalars and null carry no list.
		return []T{}, nil
	}
	for _, k := range []string{"data", key} {
		if k == "" {
			continue
		}
		if v, ok := obj[k]; ok && isArray(v) {
			return decodeList[T](v)
		}
	}
	return []T{}, nil
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
