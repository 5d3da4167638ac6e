// Package registry holds the process-lifetime store of named api and suite
// definitions. The store is populated once by the dependency-loading pass and
// read-only afterwards; writes are mutex-guarded so a misbehaving caller
// races safely, but single-threaded initialization remains the caller's
// responsibility.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/casekit/internal/model"
)

// Kind distinguishes the two definition namespaces.
type Kind string

const (
	KindAPI   Kind = "api"
	KindSuite Kind = "suite"
)

var (
	// ErrAPINotFound indicates a referenced api name absent from the store.
	ErrAPINotFound = errors.New("api not found")

	// ErrSuiteNotFound indicates a referenced suite name absent from the store.
	ErrSuiteNotFound = errors.New("suite not found")

	// ErrKind indicates a lookup with a kind other than api or suite.
	ErrKind = errors.New("definition kind should only be api or suite")
)

// Definition is one reusable api or suite body with its declared formal
// parameters. Body carries an api definition's fields; Project and Cases
// carry a suite definition's already-expanded document. Immutable once
// stored.
type Definition struct {
	Name   string
	Params []string

	Body map[string]any // api kind

	Project map[string]any    // suite kind
	Cases   []model.CaseBlock // suite kind, merged and expanded at store time
}

// Store is the kind-keyed definition registry. Insertion order is preserved
// per kind; a duplicate name overwrites the previous entry with a warning.
type Store struct {
	mu     sync.RWMutex
	apis   *orderedmap.OrderedMap[string, *Definition]
	suites *orderedmap.OrderedMap[string, *Definition]
	logger *logrus.Logger
}

// NewStore creates an empty definition store.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		apis:   orderedmap.New[string, *Definition](),
		suites: orderedmap.New[string, *Definition](),
		logger: logger,
	}
}

// Put registers a definition under the given kind. Last write wins. An
// unknown kind is logged and the definition is discarded.
func (s *Store) Put(kind Kind, def *Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byKind(kind)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"kind": string(kind),
			"name": def.Name,
		}).Error("definition kind should only be api or suite")
		return
	}
	if _, exists := m.Get(def.Name); exists {
		s.logger.WithFields(logrus.Fields{
			"kind": string(kind),
			"name": def.Name,
		}).Warn("definition duplicated, overwriting")
	}
	m.Set(def.Name, def)
}

// Lookup returns the definition stored under kind/name, or the kind's
// not-found error. An unknown kind is an ErrKind.
func (s *Store) Lookup(kind Kind, name string) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKind, kind)
	}
	if def, ok := m.Get(name); ok {
		return def, nil
	}
	if kind == KindAPI {
		return nil, fmt.Errorf("%w: %s", ErrAPINotFound, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrSuiteNotFound, name)
}

// Names returns the stored names for a kind in insertion order.
func (s *Store) Names(kind Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byKind(kind)
	if !ok {
		return nil
	}
	names := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of definitions stored under a kind.
func (s *Store) Len(kind Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byKind(kind)
	if !ok {
		return 0
	}
	return m.Len()
}

// Reset drops every stored definition. Intended for test isolation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apis = orderedmap.New[string, *Definition]()
	s.suites = orderedmap.New[string, *Definition]()
}

func (s *Store) byKind(kind Kind) (*orderedmap.OrderedMap[string, *Definition], bool) {
	switch kind {
	case KindAPI:
		return s.apis, true
	case KindSuite:
		return s.suites, true
	}
	return nil, false
}
