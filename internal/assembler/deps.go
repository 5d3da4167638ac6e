package assembler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/srg/casekit/internal/loader"
	"github.com/srg/casekit/internal/registry"
	"github.com/srg/casekit/pkg/token"
)

// LoadDependencies populates the definition store from the dependency
// folders belonging to root, which is either a case folder or a single case
// file: <root>/dependencies/api and <root>/dependencies/suite (or siblings
// of the file). Api definitions load before suites so that suite cases can
// reference them. Unlike case-file loading, any structural violation here is
// a hard failure.
func (l *Loader) LoadDependencies(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	depPath := filepath.Join(abs, l.cfg.DependenciesDir)
	if !isDir(abs) {
		depPath = filepath.Join(filepath.Dir(abs), l.cfg.DependenciesDir)
	}

	for _, file := range loader.CollectFiles([]string{filepath.Join(depPath, "api")}, true) {
		if err := l.loadAPIFile(file); err != nil {
			return err
		}
	}
	for _, file := range loader.CollectFiles([]string{filepath.Join(depPath, "suite")}, true) {
		if err := l.loadSuiteFile(file); err != nil {
			return err
		}
	}

	l.logger.WithFields(logrus.Fields{
		"apis":   l.store.Len(registry.KindAPI),
		"suites": l.store.Len(registry.KindSuite),
	}).Debug("dependencies loaded")
	return nil
}

// loadAPIFile stores every api definition in one dependency file. The
// document must be an ordered list of single-key "api" mappings, each value
// carrying a "def" key in call syntax.
func (l *Loader) loadAPIFile(path string) error {
	content, err := loader.LoadDocument(path, l.logger)
	if err != nil {
		return err
	}

	items, ok := content.([]any)
	if !ok {
		return fmt.Errorf("%w: api document root must be a list: %s", loader.ErrFormat, path)
	}

	for _, item := range items {
		key, block, err := singleKeyBlock(item, path)
		if err != nil {
			return err
		}
		if key != "api" {
			return fmt.Errorf("%w: unexpected key %q in api file: %s", loader.ErrFormat, key, path)
		}

		def, err := definitionFromBlock(block, path)
		if err != nil {
			return err
		}
		l.store.Put(registry.KindAPI, def)
	}
	return nil
}

// loadSuiteFile assembles one suite document (a full case document) and
// stores its flattened case list under the name declared by the project's
// "def" call. Api references inside the suite resolve now, and a suite can
// reference earlier suites, so suite-of-suites composes at store time.
func (l *Loader) loadSuiteFile(path string) error {
	ts := l.LoadFile(path)
	if len(ts.Diagnostics) > 0 {
		return fmt.Errorf("suite file %s is malformed: %w", path, ts.Diagnostics[0])
	}

	rawDef, ok := ts.Project["def"].(string)
	if !ok {
		return fmt.Errorf("%w: def missed in suite file: %s", loader.ErrFormat, path)
	}

	call, err := token.ParseCall(rawDef)
	if err != nil {
		return err
	}

	l.store.Put(registry.KindSuite, &registry.Definition{
		Name:    call.Name,
		Params:  paramNames(call),
		Project: ts.Project,
		Cases:   ts.Cases,
	})
	return nil
}

// definitionFromBlock builds an api Definition from its dependency block:
// the "def" call supplies name and parameters, the remaining fields form the
// body.
func definitionFromBlock(block map[string]any, path string) (*registry.Definition, error) {
	rawDef, ok := block["def"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: api definition missing 'def': %s", loader.ErrFormat, path)
	}

	call, err := token.ParseCall(rawDef)
	if err != nil {
		return nil, err
	}

	body := make(map[string]any, len(block)-1)
	for k, v := range block {
		if k != "def" {
			body[k] = v
		}
	}

	return &registry.Definition{
		Name:   call.Name,
		Params: paramNames(call),
		Body:   body,
	}, nil
}

// paramNames renders a definition call's positional arguments as declared
// parameter names.
func paramNames(call *token.Call) []string {
	params := make([]string, len(call.Args))
	for i, arg := range call.Args {
		params[i] = argString(arg)
	}
	return params
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
