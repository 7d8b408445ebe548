// provider_yaml.go: YAML codec for file providers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// decodeYAML parses a YAML document into a nested map.
func decodeYAML(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}
	doc := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return doc, nil
}

// encodeYAML serializes a nested map as YAML.
func encodeYAML(doc map[string]interface{}) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("YAML serialization failed: %w", err)
	}
	return data, nil
}
