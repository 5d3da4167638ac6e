// Package model holds the resolved test-document types shared by the loader
// and assembler.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrModelFormat indicates a case block that violates the case model, such as
// a missing or invalid case id.
var ErrModelFormat = errors.New("case model format error")

// DefaultSetName names a test set whose project block carries no module.
const DefaultSetName = "Default Test Set"

var caseIDRe = regexp.MustCompile(`^[\w-]+$`)

// CaseBlock is one concrete test case: its own fields plus anything merged in
// from a referenced definition.
type CaseBlock map[string]any

// TestSet is one resolved test document: project metadata plus the ordered,
// suite-expanded case list. Diagnostics carries every error swallowed at the
// file boundary so callers can introspect partial loads.
type TestSet struct {
	FilePath    string
	Name        string
	Project     map[string]any
	Cases       []CaseBlock
	Diagnostics []error
}

// NewTestSet creates an empty TestSet for the given source file.
func NewTestSet(path string) *TestSet {
	return &TestSet{
		FilePath: path,
		Name:     DefaultSetName,
		Project:  map[string]any{},
		Cases:    []CaseBlock{},
	}
}

// AddDiagnostic records an error swallowed while assembling this set.
func (ts *TestSet) AddDiagnostic(err error) {
	ts.Diagnostics = append(ts.Diagnostics, err)
}

// ValidCaseID reports whether id matches the required ^[\w-]+$ pattern.
func ValidCaseID(id string) bool {
	return caseIDRe.MatchString(id)
}

// ValidateCaseID checks a case id extracted from a case block. A missing or
// malformed id is a model format error.
func ValidateCaseID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: case is missing an id", ErrModelFormat)
	}
	if !ValidCaseID(id) {
		return fmt.Errorf("%w: invalid case id %q", ErrModelFormat, id)
	}
	return nil
}

// DisplayName builds the case display name "id[desc]", sanitized for use as
// a file name.
func DisplayName(id, desc string) string {
	return legalFilename(fmt.Sprintf("%s[%s]", id, desc))
}

var illegalFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_",
	"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
)

func legalFilename(name string) string {
	return illegalFilenameChars.Replace(name)
}
