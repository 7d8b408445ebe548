// provider_json.go: JSON codec for file providers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"encoding/json"
	"fmt"
)

// decodeJSON parses a JSON document into a nested map.
func decodeJSON(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}
	doc := make(map[string]interface{})
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// encodeJSON serializes a nested map as indented JSON with a trailing
// newline, matching what editors expect from a config file.
func encodeJSON(doc map[string]interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("JSON serialization failed: %w", err)
	}
	return append(data, '\n'), nil
}
