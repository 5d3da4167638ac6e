// Package assembler resolves case documents against the definition store:
// it remaps reference-call arguments onto declared parameters, merges api
// bodies into case blocks, expands suites and produces flattened TestSets.
package assembler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"

	"github.com/srg/casekit/internal/loader"
	"github.com/srg/casekit/internal/model"
	"github.com/srg/casekit/internal/registry"
	"github.com/srg/casekit/pkg/config"
)

// Loader is the explicit loading context: the definition store, the
// path-keyed resolution cache and configuration. Construct one per process
// (or per test) instead of sharing globals; populate on a single goroutine,
// then read freely. Cached results are never invalidated, even if source
// files change afterwards.
type Loader struct {
	store  *registry.Store
	cache  *hashmap.Map[string, []*model.TestSet]
	cfg    *config.Config
	logger *logrus.Logger
}

// New creates a Loader around the given definition store.
func New(store *registry.Store, cfg *config.Config, logger *logrus.Logger) *Loader {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = cfg.NewLogger()
	}
	return &Loader{
		store:  store,
		cache:  hashmap.New[string, []*model.TestSet](),
		cfg:    cfg,
		logger: logger,
	}
}

// Store exposes the underlying definition store.
func (l *Loader) Store() *registry.Store {
	return l.store
}

// Reset drops the resolution cache and every stored definition. Intended for
// test isolation.
func (l *Loader) Reset() {
	l.cache = hashmap.New[string, []*model.TestSet]()
	l.store.Reset()
}

// LoadFile assembles one case document into a TestSet. It never fails:
// errors hit while parsing are recorded as diagnostics on the returned set,
// which then carries whatever was assembled before the failure. Callers
// inspect the (possibly incomplete) result.
func (l *Loader) LoadFile(path string) *model.TestSet {
	ts := model.NewTestSet(path)

	content, err := loader.LoadDocument(path, l.logger)
	if err != nil {
		l.degrade(ts, err)
		return ts
	}

	items, ok := content.([]any)
	if !ok {
		l.degrade(ts, fmt.Errorf("%w: case document root must be a list: %s", loader.ErrFormat, path))
		return ts
	}

	for _, item := range items {
		key, block, err := singleKeyBlock(item, path)
		if err != nil {
			l.degrade(ts, err)
			return ts
		}

		switch key {
		case "project":
			l.mergeProject(ts, block)

		case "case":
			if err := l.appendCase(ts, block); err != nil {
				l.degrade(ts, err)
				return ts
			}

		default:
			l.logger.WithFields(logrus.Fields{
				"file": path,
				"key":  key,
			}).Warn("unexpected block key, block key should only be 'project' or 'case'")
		}
	}
	return ts
}

// LoadFiles loads case documents from one or more paths: files, folders
// (recursed per configuration, anything under a dependencies folder
// excluded), or both. Results are memoized by absolute path for the process
// lifetime; a cache hit returns the prior result without touching the
// filesystem. Files whose resolved case list ends up empty are dropped,
// unless they carry diagnostics: a degraded set stays in the result so
// callers can report it.
func (l *Loader) LoadFiles(paths ...string) []*model.TestSet {
	if len(paths) == 1 {
		return l.loadMemoized(paths[0])
	}
	return l.loadCollection(paths)
}

// loadCollection handles a set of paths: duplicates collapse, anything under
// a dependencies folder is excluded, results are unioned in input order.
func (l *Loader) loadCollection(paths []string) []*model.TestSet {
	sets := []*model.TestSet{}
	seen := map[string]bool{}
	for _, path := range paths {
		if seen[path] || strings.Contains(path, l.cfg.DependenciesDir) {
			continue
		}
		seen[path] = true
		sets = append(sets, l.loadMemoized(path)...)
	}
	return sets
}

func (l *Loader) loadMemoized(path string) []*model.TestSet {
	abs, err := filepath.Abs(path)
	if err != nil {
		l.logger.WithError(err).Error("cannot resolve path")
		return []*model.TestSet{}
	}

	if cached, ok := l.cache.Get(abs); ok {
		return cached
	}

	sets := l.loadPath(abs)
	l.cache.Set(abs, sets)
	return sets
}

func (l *Loader) loadPath(path string) []*model.TestSet {
	if isDir(path) {
		return l.loadCollection(loader.CollectFiles([]string{path}, l.cfg.Recursive))
	}
	if !isFile(path) {
		l.logger.WithField("path", path).Error("file not found")
		return []*model.TestSet{}
	}

	ts := l.LoadFile(path)
	if len(ts.Cases) == 0 && len(ts.Diagnostics) == 0 {
		// nothing resolved and nothing went wrong: not a case file
		return []*model.TestSet{}
	}
	return []*model.TestSet{ts}
}

// mergeProject folds a project block into the set's metadata.
func (l *Loader) mergeProject(ts *model.TestSet, block map[string]any) {
	for k, v := range block {
		ts.Project[k] = v
	}
	if module, ok := block["module"].(string); ok && module != "" {
		ts.Name = module
	} else {
		ts.Name = model.DefaultSetName
	}
}

// appendCase validates one case block, resolves its api or suite reference
// and appends the result to the set.
func (l *Loader) appendCase(ts *model.TestSet, block map[string]any) error {
	cb := model.CaseBlock{}
	for k, v := range block {
		cb[k] = v
	}

	id, _ := cb["id"].(string)
	desc, _ := cb["desc"].(string)
	delete(cb, "id")
	delete(cb, "desc")

	if err := model.ValidateCaseID(id); err != nil {
		return err
	}
	cb["name"] = model.DisplayName(id, desc)

	switch {
	case cb["api"] != nil:
		refCall, ok := cb["api"].(string)
		if !ok {
			return fmt.Errorf("%w: api reference must be a call string", loader.ErrFormat)
		}
		merged, err := l.resolveAPI(refCall, cb)
		if err != nil {
			return err
		}
		ts.Cases = append(ts.Cases, merged)
		l.logger.WithField("case", cb["name"]).Debug("merged api block")

	case cb["suite"] != nil:
		refCall, ok := cb["suite"].(string)
		if !ok {
			return fmt.Errorf("%w: suite reference must be a call string", loader.ErrFormat)
		}
		cases, err := l.resolveSuite(refCall)
		if err != nil {
			return err
		}
		ts.Cases = append(ts.Cases, cases...)
		l.logger.WithField("case", cb["name"]).Debug("extended suite block")

	default:
		ts.Cases = append(ts.Cases, cb)
	}
	return nil
}

func (l *Loader) degrade(ts *model.TestSet, err error) {
	ts.AddDiagnostic(err)
	l.logger.WithFields(logrus.Fields{
		"file":  ts.FilePath,
		"error": err,
	}).Error("case file degraded to partial test set")
}

// singleKeyBlock unwraps one document item, which must be a mapping with
// exactly one key whose value is itself a mapping.
func singleKeyBlock(item any, path string) (string, map[string]any, error) {
	m, ok := item.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, fmt.Errorf("%w: testcase entries must be single-key mappings: %s", loader.ErrFormat, path)
	}
	for key, value := range m {
		block, ok := value.(map[string]any)
		if !ok {
			return "", nil, fmt.Errorf("%w: block %q must be a mapping: %s", loader.ErrFormat, key, path)
		}
		return key, block, nil
	}
	panic("unreachable")
}
