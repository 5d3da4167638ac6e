package assembler

import (
	"errors"
	"fmt"

	"github.com/srg/casekit/internal/model"
	"github.com/srg/casekit/internal/registry"
	"github.com/srg/casekit/pkg/eval"
	"github.com/srg/casekit/pkg/token"
)

// ErrParams indicates a reference call whose arguments cannot be bound to
// the referenced definition's declared parameters.
var ErrParams = errors.New("params error")

// resolveAPI looks up the api definition named by refCall, remaps call-site
// arguments onto declared parameters and merges the renamed body onto the
// case block.
func (l *Loader) resolveAPI(refCall string, cb model.CaseBlock) (model.CaseBlock, error) {
	def, mapping, err := l.resolveReference(registry.KindAPI, refCall)
	if err != nil {
		return nil, err
	}

	body := eval.Substitute(def.Body, mapping).(map[string]any)
	return override(body, cb), nil
}

// resolveSuite looks up the suite definition named by refCall and returns
// its already-expanded case list with call-site arguments substituted in.
// Suites are merged and flattened when stored, so suite-of-suites composes
// without re-entrant resolution here.
func (l *Loader) resolveSuite(refCall string) ([]model.CaseBlock, error) {
	def, mapping, err := l.resolveReference(registry.KindSuite, refCall)
	if err != nil {
		return nil, err
	}

	cases := make([]model.CaseBlock, len(def.Cases))
	for i, c := range def.Cases {
		cases[i] = model.CaseBlock(eval.Substitute(map[string]any(c), mapping).(map[string]any))
	}
	return cases, nil
}

// resolveReference parses a reference call, finds its definition and builds
// the declared-parameter to call-site-value rename mapping. The positional
// argument count must equal the declared parameter count; a call argument
// equal to its parameter name produces no mapping entry.
func (l *Loader) resolveReference(kind registry.Kind, refCall string) (*registry.Definition, map[string]any, error) {
	call, err := token.ParseCall(refCall)
	if err != nil {
		return nil, nil, err
	}

	def, err := l.store.Lookup(kind, call.Name)
	if err != nil {
		return nil, nil, err
	}

	if len(call.Args) != len(def.Params) {
		return nil, nil, fmt.Errorf("%w: call %q passes %d positional args, %s %q declares %d",
			ErrParams, refCall, len(call.Args), kind, def.Name, len(def.Params))
	}

	mapping := map[string]any{}
	for i, param := range def.Params {
		if argString(call.Args[i]) == param {
			continue
		}
		mapping[param] = call.Args[i]
	}
	return def, mapping, nil
}

// argString renders a call argument for identity comparison against a
// declared parameter name.
func argString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
