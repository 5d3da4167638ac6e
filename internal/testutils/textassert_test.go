package testutils

import (
	"fmt"
	"strings"
	"testing"
)

func TestTextAsserter_DefaultOptions(t *testing.T) {
	ta := NewTextAsserter(t)

	opts := ta.GetOptions()
	if opts.IgnoreLeadingWhitespace {
		t.Error("Expected IgnoreLeadingWhitespace to be false by default")
	}
	if opts.IgnoreTrailingWhitespace {
		t.Error("Expected IgnoreTrailingWhitespace to be false by default")
	}
	if opts.IgnoreEmptyLines {
		t.Error("Expected IgnoreEmptyLines to be false by default")
	}
	if opts.TrimSpace {
		t.Error("Expected TrimSpace to be false by default")
	}
}

func TestTextAsserter_FunctionalOptions(t *testing.T) {
	ta := NewTextAsserter(t).WithOptions(
		WithIgnoreLeadingWhitespace(true),
		WithIgnoreEmptyLines(true),
	)

	opts := ta.GetOptions()
	if !opts.IgnoreLeadingWhitespace {
		t.Error("Expected IgnoreLeadingWhitespace to be true")
	}
	if !opts.IgnoreEmptyLines {
		t.Error("Expected IgnoreEmptyLines to be true")
	}
	if opts.IgnoreTrailingWhitespace {
		t.Error("Expected IgnoreTrailingWhitespace to remain false")
	}
}

func TestTextAsserter_BasicComparison(t *testing.T) {
	t.Run("IdenticalStrings", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{})
		diff := ta.diff("request: login", "request: login")
		if diff != "" {
			t.Errorf("Expected no diff for identical strings, got: %s", diff)
		}
	})

	t.Run("DifferentStrings", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{})
		diff := ta.diff("request: login", "request: logout")
		if diff == "" {
			t.Error("Expected diff for different strings")
		}
	})
}

func TestTextAsserter_WhitespaceOptions(t *testing.T) {
	t.Run("IgnoreLeadingWhitespace", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithIgnoreLeadingWhitespace(true),
		)

		diff := ta.diff("  hello\n    world", "hello\nworld")
		if diff != "" {
			t.Errorf("Expected no diff when ignoring leading whitespace, got: %s", diff)
		}
	})

	t.Run("LeadingWhitespaceDetectedByDefault", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{})

		diff := ta.diff("  hello\n    world", "hello\nworld")
		if diff == "" {
			t.Error("Expected diff when not ignoring leading whitespace")
		}
	})

	t.Run("IgnoreTrailingWhitespace", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithIgnoreTrailingWhitespace(true),
		)

		diff := ta.diff("hello  \nworld    ", "hello\nworld")
		if diff != "" {
			t.Errorf("Expected no diff when ignoring trailing whitespace, got: %s", diff)
		}
	})

	t.Run("IgnoreEmptyLines", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithIgnoreEmptyLines(true),
		)

		diff := ta.diff("hello\n\nworld\n\n", "hello\nworld")
		if diff != "" {
			t.Errorf("Expected no diff when ignoring empty lines, got: %s", diff)
		}
	})

	t.Run("TrimSpace", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithTrimSpace(true),
		)

		diff := ta.diff("  hello\nworld  ", "hello\nworld")
		if diff != "" {
			t.Errorf("Expected no diff when trimming space, got: %s", diff)
		}
	})
}

func TestTextAsserter_ComplexScenarios(t *testing.T) {
	t.Run("AllOptionsEnabled", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithIgnoreLeadingWhitespace(true),
			WithIgnoreTrailingWhitespace(true),
			WithIgnoreEmptyLines(true),
			WithTrimSpace(true),
		)

		actual := `
		  api_v1_login
		  get_user

		`

		expected := `api_v1_login
get_user`

		diff := ta.diff(actual, expected)
		if diff != "" {
			t.Errorf("Expected no diff with all normalization options, got: %s", diff)
		}
	})

	t.Run("MultilineWithDifferences", func(t *testing.T) {
		ta := NewTextAsserter(&testing.T{}).WithOptions(
			WithIgnoreLeadingWhitespace(true),
			WithIgnoreTrailingWhitespace(true),
		)

		actual := `  line1
  line2
  line3_different  `

		expected := `line1
line2
line3_expected`

		diff := ta.diff(actual, expected)
		if diff == "" {
			t.Error("Expected diff for different content")
		}

		if !strings.Contains(diff, "line3") {
			t.Errorf("Expected diff to mention the differing line, got: %s", diff)
		}
	})
}

func TestTextAsserter_Assert_Failure(t *testing.T) {
	// Use a mock testing.T to capture error messages
	mockT := &mockTestingT{}
	ta := NewTextAsserterWithInterface(mockT)

	ta.Assert("hello", "world")

	if !mockT.errorCalled {
		t.Error("Expected Errorf to be called for failed assertion")
	}

	if !strings.Contains(mockT.errorMessage, "Text assertion failed") {
		t.Errorf("Expected error message to contain 'Text assertion failed', got: %s", mockT.errorMessage)
	}
}

func TestTextAsserter_Assert_Success(t *testing.T) {
	mockT := &mockTestingT{}
	ta := NewTextAsserterWithInterface(mockT)

	ta.Assert("hello", "hello")

	if mockT.errorCalled {
		t.Errorf("Expected no error for successful assertion, got: %s", mockT.errorMessage)
	}
}

type mockTestingT struct {
	errorCalled  bool
	errorMessage string
}

func (m *mockTestingT) Errorf(format string, args ...interface{}) {
	m.errorCalled = true
	m.errorMessage = fmt.Sprintf(format, args...)
}
