// provider_file.go: File-backed provider for the Dryad tree
//
// A FileProvider bridges one configuration file to a subtree mount point:
// Load flattens the parsed document into slash paths below the mount and
// populates the tree through Set (ancestors materialize automatically);
// Save walks the subtree read-only, rebuilds the document and writes it
// atomically. Format codecs live in provider_json.go, provider_yaml.go and
// provider_text.go.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dryad

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// FileProvider loads and saves one configuration file below a mount prefix.
//
// Representation limits, by construction of the flat tree: a value on an
// interior node is not expressible in JSON/YAML and is dropped on Save, and
// sequences round-trip as mappings with numeric keys.
type FileProvider struct {
	filePath string
	mount    string
	format   ConfigFormat
}

// NewFileProvider creates a provider for filePath mounted at mount (for
// example "/files/etc/app"), detecting the format from the file extension.
func NewFileProvider(filePath, mount string) *FileProvider {
	return NewFileProviderWithFormat(filePath, mount, DetectFormat(filePath))
}

// NewFileProviderWithFormat creates a provider with an explicit format.
func NewFileProviderWithFormat(filePath, mount string, format ConfigFormat) *FileProvider {
	return &FileProvider{
		filePath: filePath,
		mount:    mount,
		format:   format,
	}
}

// Name returns a debugging name for the provider.
func (fp *FileProvider) Name() string {
	return fmt.Sprintf("file:%s(%s)", fp.filePath, fp.format)
}

// Init validates the backing path and mount point. A missing backing file
// is not an error: Load treats it as an empty document.
func (fp *FileProvider) Init() error {
	if err := validateFilePath(fp.filePath); err != nil {
		return err
	}
	if fp.mount == "" || fp.mount[0] != Separator {
		return errors.New(ErrCodeInvalidPath, "mount point must be an absolute tree path").
			WithContext("mount", fp.mount)
	}
	fp.mount = fp.mount[:pathLen(fp.mount)]
	if fp.format == FormatUnknown {
		return errors.New(ErrCodeParseError, "cannot determine configuration format").
			WithContext("path", fp.filePath)
	}
	return nil
}

// Load parses the backing file and populates the tree below the mount.
func (fp *FileProvider) Load(t *Tree) error {
	data, err := os.ReadFile(fp.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, ErrCodeIOError, "failed to read backing file").
			WithContext("path", fp.filePath)
	}

	doc, err := fp.decode(data)
	if err != nil {
		return errors.Wrap(err, ErrCodeParseError, "failed to parse backing file").
			WithContext("path", fp.filePath).
			WithContext("format", fp.format.String())
	}

	var loadErr error
	flatten(fp.mount, doc, func(path, value string) {
		if err := t.Set(path, value); err != nil && loadErr == nil {
			loadErr = err
		}
	})
	return loadErr
}

// Save rebuilds the document from the mounted subtree and writes it
// atomically (temporary file plus rename), so a failed write never corrupts
// the original.
func (fp *FileProvider) Save(t *Tree) error {
	doc := buildDoc(t, fp.mount)

	data, err := fp.encode(doc)
	if err != nil {
		return errors.Wrap(err, ErrCodeParseError, "failed to serialize subtree").
			WithContext("path", fp.filePath).
			WithContext("format", fp.format.String())
	}
	return writeFileAtomic(fp.filePath, data)
}

func (fp *FileProvider) decode(data []byte) (map[string]interface{}, error) {
	switch fp.format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatINI:
		return decodeINI(data)
	case FormatProperties:
		return decodeProperties(data)
	default:
		return nil, fmt.Errorf("unsupported format: %s", fp.format)
	}
}

func (fp *FileProvider) encode(doc map[string]interface{}) ([]byte, error) {
	switch fp.format {
	case FormatJSON:
		return encodeJSON(doc)
	case FormatYAML:
		return encodeYAML(doc)
	case FormatINI:
		return encodeINI(doc)
	case FormatProperties:
		return encodeProperties(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", fp.format)
	}
}

// flatten walks a decoded document and emits one (path, value) pair per
// scalar leaf. Map keys become path segments; sequence elements get their
// index as segment.
func flatten(prefix string, v interface{}, emit func(path, value string)) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			flatten(prefix+string(Separator)+k, child, emit)
		}
	case map[interface{}]interface{}:
		for k, child := range val {
			flatten(prefix+string(Separator)+fmt.Sprintf("%v", k), child, emit)
		}
	case []interface{}:
		for i, child := range val {
			flatten(prefix+string(Separator)+strconv.Itoa(i), child, emit)
		}
	default:
		emit(prefix, renderScalar(val))
	}
}

// buildDoc reconstructs a nested document from the subtree below mount.
// Children are visited in sorted order so Save output is deterministic
// regardless of list traversal order.
func buildDoc(t *Tree, mount string) map[string]interface{} {
	doc := make(map[string]interface{})
	children := t.Ls(mount)
	sort.Strings(children)

	for _, child := range children {
		key := child[pathLen(mount)+1:]
		if grandchildren := t.Ls(child); len(grandchildren) > 0 {
			doc[key] = buildDoc(t, child)
		} else if value, ok := t.Get(child); ok {
			doc[key] = parseScalar(value)
		} else {
			doc[key] = map[string]interface{}{}
		}
	}
	return doc
}

// parseScalar turns a stored string back into a typed scalar so documents
// round-trip naturally: booleans, integers and floats regain their type,
// everything else stays a string.
func parseScalar(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if intVal, err := strconv.Atoi(value); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		return floatVal
	}
	return value
}

// renderScalar is the inverse of parseScalar for tree storage, where every
// value is a string.
func renderScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		// Render whole floats without the trailing ".0" JSON decoding adds.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// writeFileAtomic writes data through a temporary file and rename so the
// destination is either fully replaced or untouched.
func writeFileAtomic(filePath string, data []byte) error {
	tempPath := fmt.Sprintf("%s.tmp.%d", filePath, time.Now().UnixNano())

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write temp file").
			WithContext("path", tempPath)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, ErrCodeIOError, "failed to rename temp file").
			WithContext("path", filePath)
	}
	return nil
}

// validateFilePath rejects plainly unsafe backing paths before any file
// operation: traversal sequences, null bytes, empty paths.
func validateFilePath(path string) error {
	if path == "" {
		return errors.New(ErrCodeInvalidPath, "backing file path cannot be empty")
	}
	if strings.Contains(path, "..") {
		return errors.New(ErrCodeInvalidPath, "backing file path contains traversal sequence").
			WithContext("path", path)
	}
	if strings.ContainsRune(path, 0) {
		return errors.New(ErrCodeInvalidPath, "backing file path contains null byte").
			WithContext("path", path)
	}
	return nil
}
