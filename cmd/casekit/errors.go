package main

import (
	"errors"
	"fmt"

	"github.com/srg/casekit/internal/loader"
	"github.com/srg/casekit/internal/registry"
	"github.com/srg/casekit/pkg/token"
)

// FormatUserError turns an internal error into a message suitable for stderr.
// Known failure kinds get a short hint appended; everything else passes
// through unchanged.
func FormatUserError(err error) string {
	switch {
	case errors.Is(err, loader.ErrFileNotFound):
		return fmt.Sprintf("%s (check the path and file extension)", err)
	case errors.Is(err, loader.ErrFormat):
		return fmt.Sprintf("%s (case files must hold a non-empty YAML/JSON list or mapping)", err)
	case errors.Is(err, token.ErrCallGrammar):
		return fmt.Sprintf("%s (expected name(arg, arg, key=value))", err)
	case errors.Is(err, registry.ErrAPINotFound), errors.Is(err, registry.ErrSuiteNotFound):
		return fmt.Sprintf("%s (is it declared under the dependencies folder?)", err)
	default:
		return err.Error()
	}
}
