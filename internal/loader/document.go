// Package loader decodes case, api and suite documents from YAML and JSON
// files and enumerates document files below a root.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFileNotFound indicates a document path that does not exist or is
	// not a regular file.
	ErrFileNotFound = errors.New("file not found")

	// ErrFormat indicates a document whose decoded root is empty or has the
	// wrong shape, or a dependency file violating its structural contract.
	ErrFormat = errors.New("file format error")
)

// recognized extensions, lowercase.
var recognizedExts = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Recognized reports whether the path carries a decodable document extension.
func Recognized(path string) bool {
	return recognizedExts[strings.ToLower(filepath.Ext(path))]
}

// LoadDocument decodes one document, dispatching on the file extension
// (case-insensitive). Unrecognized extensions yield an empty result with a
// warning, not an error. The decoded root must be a non-empty list or
// mapping; anything else fails with ErrFormat naming the file.
func LoadDocument(path string, logger *logrus.Logger) (any, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONFile(path)
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	default:
		logger.WithField("file", path).Warn("unsupported file format, skipping")
		return []any{}, nil
	}
}

func loadJSONFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: JSON decode failed: %s", ErrFormat, path)
	}
	return content, checkFormat(path, content)
}

func loadYAMLFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var content any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: YAML decode failed: %s", ErrFormat, path)
	}
	return content, checkFormat(path, content)
}

// checkFormat validates the decoded document root: it must be a non-empty
// list or mapping.
func checkFormat(path string, content any) error {
	switch c := content.(type) {
	case []any:
		if len(c) > 0 {
			return nil
		}
	case map[string]any:
		if len(c) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: testcase file content is empty or invalid: %s", ErrFormat, path)
}
