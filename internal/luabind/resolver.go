package luabind

import (
	"github.com/sirupsen/logrus"

	"github.com/srg/casekit/pkg/eval"
)

// ScriptResolver adapts an Engine to the evaluation engine's resolver
// contract: variables read scalar globals, functions wrap callable globals.
type ScriptResolver struct {
	engine *Engine
	logger *logrus.Logger
}

// NewScriptResolver loads the preference script at path and returns a
// resolver over its globals.
func NewScriptResolver(path string, logger *logrus.Logger) (*ScriptResolver, error) {
	if logger == nil {
		logger = logrus.New()
	}
	engine := NewEngine(logger)
	if err := engine.LoadFile(path); err != nil {
		engine.Close()
		return nil, err
	}
	return &ScriptResolver{engine: engine, logger: logger}, nil
}

// Lookup implements eval.Resolver.
func (r *ScriptResolver) Lookup(kind eval.Kind, name string) (any, bool) {
	switch kind {
	case eval.KindVariable:
		v, ok := r.engine.Global(name)
		if ok {
			r.logger.WithField("variable", name).Debug("resolved from preference script")
		}
		return v, ok

	case eval.KindFunction:
		if !r.engine.HasFunction(name) {
			return nil, false
		}
		fn := eval.Function(func(args []any, kwargs map[string]any) (any, error) {
			return r.engine.CallFunction(name, args, kwargs)
		})
		return fn, true
	}
	return nil, false
}

// Output returns the script's captured print records.
func (r *ScriptResolver) Output() <-chan OutputRecord {
	return r.engine.Output()
}

// Close releases the underlying Lua state.
func (r *ScriptResolver) Close() {
	r.engine.Close()
}
