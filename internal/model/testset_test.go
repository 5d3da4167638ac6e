package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCaseID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"abc-def_1", true},
		{"ATP-1", true},
		{"0001", true},
		{"abc def", false},
		{"", false},
		{"a/b", false},
		{"case#1", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateCaseID(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrModelFormat)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "ATP-1[smoke login]", DisplayName("ATP-1", "smoke login"))
	assert.Equal(t, "ATP-2[a_b]", DisplayName("ATP-2", "a/b"))
}

func TestNewTestSet(t *testing.T) {
	ts := NewTestSet("cases/login.yaml")
	assert.Equal(t, "cases/login.yaml", ts.FilePath)
	assert.Equal(t, DefaultSetName, ts.Name)
	assert.Empty(t, ts.Cases)
	assert.Empty(t, ts.Diagnostics)

	ts.AddDiagnostic(assert.AnError)
	assert.Len(t, ts.Diagnostics, 1)
}
