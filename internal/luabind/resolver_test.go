package luabind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/casekit/pkg/eval"
)

const preferenceScript = `
host = "example.com"
retries = 3
ratio = 1.5

function add(a, b)
    return a + b
end

function greet(opts)
    return "hello " .. opts.name
end

print("preferences loaded")
`

func newTestResolver(t *testing.T) *ScriptResolver {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	path := filepath.Join(t.TempDir(), "prefs.lua")
	require.NoError(t, os.WriteFile(path, []byte(preferenceScript), 0o644))

	r, err := NewScriptResolver(path, logger)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestScriptResolver_Variables(t *testing.T) {
	r := newTestResolver(t)

	v, ok := r.Lookup(eval.KindVariable, "host")
	require.True(t, ok)
	assert.Equal(t, "example.com", v)

	v, ok = r.Lookup(eval.KindVariable, "retries")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = r.Lookup(eval.KindVariable, "ratio")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = r.Lookup(eval.KindVariable, "missing")
	assert.False(t, ok)

	// functions are not variables
	_, ok = r.Lookup(eval.KindVariable, "add")
	assert.False(t, ok)
}

func TestScriptResolver_Functions(t *testing.T) {
	r := newTestResolver(t)

	v, ok := r.Lookup(eval.KindFunction, "add")
	require.True(t, ok)
	fn, ok := v.(eval.Function)
	require.True(t, ok)

	result, err := fn([]any{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result)

	_, ok = r.Lookup(eval.KindFunction, "host")
	assert.False(t, ok)
}

func TestScriptResolver_KeywordArguments(t *testing.T) {
	r := newTestResolver(t)

	v, ok := r.Lookup(eval.KindFunction, "greet")
	require.True(t, ok)
	fn := v.(eval.Function)

	result, err := fn(nil, map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestScriptResolver_EvaluatorIntegration(t *testing.T) {
	r := newTestResolver(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	e := eval.New(logger, r)
	got, err := e.Evaluate("http://$host/${add(40,2)}")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/42", got)
}

func TestScriptResolver_PrintCapture(t *testing.T) {
	r := newTestResolver(t)

	select {
	case rec := <-r.Output():
		assert.Equal(t, "preferences loaded\n", rec.Content)
		assert.Equal(t, "stdout", rec.Source)
	default:
		t.Fatal("expected a captured print record")
	}
}
