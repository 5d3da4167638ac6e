package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cases.yaml", `
- project:
    module: demo
- case:
    id: ATP-1
`)

	content, err := LoadDocument(path, silentLogger())
	require.NoError(t, err)

	items, ok := content.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, first, "project")
}

func TestLoadDocument_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cases.json", `[{"case": {"id": "ATP-1"}}]`)

	content, err := LoadDocument(path, silentLogger())
	require.NoError(t, err)
	items, ok := content.([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestLoadDocument_ExtensionDispatch(t *testing.T) {
	dir := t.TempDir()

	t.Run("uppercase extension is recognized", func(t *testing.T) {
		path := writeFile(t, dir, "cases.YML", "- case:\n    id: a\n")
		content, err := LoadDocument(path, silentLogger())
		require.NoError(t, err)
		assert.Len(t, content, 1)
	})

	t.Run("unknown extension warns and yields empty", func(t *testing.T) {
		path := writeFile(t, dir, "notes.txt", "whatever")
		content, err := LoadDocument(path, silentLogger())
		require.NoError(t, err)
		assert.Equal(t, []any{}, content)
	})
}

func TestLoadDocument_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(dir, "absent.yaml"), silentLogger())
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty document", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yaml", "")
		_, err := LoadDocument(path, silentLogger())
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("scalar root", func(t *testing.T) {
		path := writeFile(t, dir, "scalar.yaml", "just a string")
		_, err := LoadDocument(path, silentLogger())
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", "{nope")
		_, err := LoadDocument(path, silentLogger())
		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "x")
	writeFile(t, dir, "b.json", "x")
	writeFile(t, dir, "skip.txt", "x")
	writeFile(t, dir, "sub/c.yml", "x")

	t.Run("recursive", func(t *testing.T) {
		files := CollectFiles([]string{dir}, true)
		require.Len(t, files, 3)
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = filepath.Base(f)
		}
		assert.ElementsMatch(t, []string{"a.yaml", "b.json", "c.yml"}, names)
	})

	t.Run("non-recursive stops at top level", func(t *testing.T) {
		files := CollectFiles([]string{dir}, false)
		require.Len(t, files, 2)
	})

	t.Run("duplicate roots visited once", func(t *testing.T) {
		files := CollectFiles([]string{dir, dir}, false)
		assert.Len(t, files, 2)
	})

	t.Run("missing root contributes nothing", func(t *testing.T) {
		assert.Empty(t, CollectFiles([]string{filepath.Join(dir, "nope")}, true))
	})
}
