// provider_text.go: Text-based codecs for file providers
//
// Line-oriented formats:
// - INI files ([section] headers become one level of hierarchy)
// - Java-style properties files (dotted keys become nested paths)
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// decodeINI parses an INI document. Keys inside a [section] nest one level
// under the section name; keys before any section stay at the top level.
// Both ';' and '#' start comments.
func decodeINI(data []byte) (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	var section map[string]interface{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(strings.Trim(line, "[]"))
			section = make(map[string]interface{})
			doc[name] = section
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := parseScalar(strings.TrimSpace(parts[1]))

		if section != nil {
			section[key] = value
		} else {
			doc[key] = value
		}
	}
	return doc, scanner.Err()
}

// encodeINI serializes a document as INI: scalar top-level keys first, then
// one [section] per nested map. Deeper nesting is flattened into dotted
// keys inside the section.
func encodeINI(doc map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer

	keys := sortedKeys(doc)
	for _, k := range keys {
		if _, nested := doc[k].(map[string]interface{}); !nested {
			fmt.Fprintf(&buf, "%s = %s\n", k, renderScalar(doc[k]))
		}
	}
	for _, k := range keys {
		section, nested := doc[k].(map[string]interface{})
		if !nested {
			continue
		}
		fmt.Fprintf(&buf, "\n[%s]\n", k)
		writeDotted(&buf, "", section, " = ")
	}
	return buf.Bytes(), nil
}

// decodeProperties parses Java-style properties. Dots in keys express
// hierarchy: "db.host = x" nests host under db. Both '#' and '!' start
// comments.
func decodeProperties(data []byte) (map[string]interface{}, error) {
	doc := make(map[string]interface{})

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := parseScalar(strings.TrimSpace(parts[1]))

		node := doc
		segments := strings.Split(key, ".")
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[seg] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = value
	}
	return doc, scanner.Err()
}

// encodeProperties serializes a document as dotted key=value lines.
func encodeProperties(doc map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writeDotted(&buf, "", doc, "=")
	return buf.Bytes(), nil
}

// writeDotted emits every scalar leaf of doc as "<dotted-key><sep><value>"
// lines in sorted key order.
func writeDotted(buf *bytes.Buffer, prefix string, doc map[string]interface{}, sep string) {
	for _, k := range sortedKeys(doc) {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := doc[k].(map[string]interface{}); ok {
			writeDotted(buf, key, nested, sep)
		} else {
			fmt.Fprintf(buf, "%s%s%s\n", key, sep, renderScalar(doc[k]))
		}
	}
}

func sortedKeys(doc map[string]interface{}) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
