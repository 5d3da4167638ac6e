package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name    string
		content any
		want    []string
	}{
		{
			name:    "no variables",
			content: "abc",
			want:    nil,
		},
		{
			name:    "whole string is a variable",
			content: "$variable",
			want:    []string{"variable"},
		},
		{
			name:    "variable embedded in url",
			content: "http://$url",
			want:    []string{"url"},
		},
		{
			name:    "multiple variables",
			content: "/$var1/$var2",
			want:    []string{"var1", "var2"},
		},
		{
			name:    "adjacent variables with separator",
			content: "$a/$b",
			want:    []string{"a", "b"},
		},
		{
			name:    "non-string content",
			content: 42,
			want:    nil,
		},
		{
			name:    "nil content",
			content: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVariables(tt.content))
		})
	}
}

func TestExtractFunctions(t *testing.T) {
	tests := []struct {
		name    string
		content any
		want    []string
	}{
		{
			name:    "single argument",
			content: "${func(5)}",
			want:    []string{"func(5)"},
		},
		{
			name:    "keyword arguments",
			content: "${func(a=1, b=2)}",
			want:    []string{"func(a=1, b=2)"},
		},
		{
			name:    "no arguments",
			content: "/api/1000?_t=${get_timestamp()}",
			want:    []string{"get_timestamp()"},
		},
		{
			name:    "two calls in one string",
			content: "/api/${add(1, 2)}?_t=${get_timestamp()}",
			want:    []string{"add(1, 2)", "get_timestamp()"},
		},
		{
			name:    "bare call without braces is not a token",
			content: "add(1, 2)",
			want:    nil,
		},
		{
			name:    "non-string content",
			content: []string{"${f()}"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFunctions(tt.content))
		})
	}
}

func TestParseCall(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantArgs   []any
		wantKwargs map[string]any
	}{
		{
			name:       "empty argument list",
			raw:        "func()",
			wantName:   "func",
			wantArgs:   []any{},
			wantKwargs: map[string]any{},
		},
		{
			name:       "single numeric argument",
			raw:        "func(5)",
			wantName:   "func",
			wantArgs:   []any{5},
			wantKwargs: map[string]any{},
		},
		{
			name:       "keyword arguments only",
			raw:        "func(a=1, b=2)",
			wantName:   "func",
			wantArgs:   []any{},
			wantKwargs: map[string]any{"a": 1, "b": 2},
		},
		{
			name:       "positional string arguments",
			raw:        "func(a,b,c)",
			wantName:   "func",
			wantArgs:   []any{"a", "b", "c"},
			wantKwargs: map[string]any{},
		},
		{
			name:       "mixed positional and keyword",
			raw:        "login($user, retries=3)",
			wantName:   "login",
			wantArgs:   []any{"$user"},
			wantKwargs: map[string]any{"retries": 3},
		},
		{
			name:       "variable token stays a raw string",
			raw:        "f($var)",
			wantName:   "f",
			wantArgs:   []any{"$var"},
			wantKwargs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := ParseCall(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, call.Name)
			assert.Equal(t, tt.wantArgs, call.Args)
			assert.Equal(t, tt.wantKwargs, call.Kwargs)
		})
	}
}

func TestParseCall_GrammarErrors(t *testing.T) {
	for _, raw := range []string{"", "func", "func(", "func)", "(a,b)", "fu nc(a)", "f(a))"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCall(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCallGrammar)
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"123", 123},
		{"12.2", 12.2},
		{"true", true},
		{"false", false},
		{"null", nil},
		{"abc", "abc"},
		{"$var", "$var"},
		{"", ""},
		{"12a", "12a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLiteral(tt.in))
		})
	}
}
