// Package eval substitutes $variable and ${function(args)} tokens through
// arbitrarily nested content against a bound bindings table, falling back to
// a pluggable resolver chain for names the table does not carry.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/srg/casekit/pkg/token"
)

// Kind selects the binding namespace a lookup runs against.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Function is a callable bound by name and invoked from ${name(args)} tokens.
type Function func(args []any, kwargs map[string]any) (any, error)

// Resolver supplies bindings not present in the explicit tables. Lookup
// reports whether it can produce a value for the name; for KindFunction the
// value must be a Function.
type Resolver interface {
	Lookup(kind Kind, name string) (any, bool)
}

// NotDefinedError reports a variable or function that is neither bound
// explicitly nor resolvable through the fallback chain.
type NotDefinedError struct {
	Kind Kind
	Name string
}

func (e *NotDefinedError) Error() string {
	return fmt.Sprintf("%s is not defined in bind %ss", e.Name, e.Kind)
}

// ErrLookupKind indicates an internal lookup with a kind other than variable
// or function.
var ErrLookupKind = errors.New("bind item should only be function or variable")

// traceCapacity bounds the trace ring; older records are overwritten once a
// slow observer falls behind.
const traceCapacity = 256

// Evaluator holds the binding tables and resolver chain for one evaluation
// context. Not safe for concurrent use; bind everything before evaluating.
type Evaluator struct {
	variables map[string]any
	functions map[string]Function
	resolvers []Resolver
	trace     *RingChannel[TraceRecord]
	logger    *logrus.Logger
}

// New creates an Evaluator with empty binding tables. Resolvers are consulted
// in order after the explicit tables miss.
func New(logger *logrus.Logger, resolvers ...Resolver) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{
		variables: map[string]any{},
		functions: map[string]Function{},
		resolvers: resolvers,
		trace:     NewRingChannel[TraceRecord](traceCapacity),
		logger:    logger,
	}
}

// BindVariables replaces the variable binding table.
func (e *Evaluator) BindVariables(variables map[string]any) {
	if variables == nil {
		variables = map[string]any{}
	}
	e.variables = variables
}

// BindFunctions replaces the function binding table.
func (e *Evaluator) BindFunctions(functions map[string]Function) {
	if functions == nil {
		functions = map[string]Function{}
	}
	e.functions = functions
}

// Trace returns the channel of per-token resolution records. Observability
// only; evaluation never blocks on it.
func (e *Evaluator) Trace() <-chan TraceRecord {
	return e.trace.C()
}

// TraceMetrics returns counters for the trace ring.
func (e *Evaluator) TraceMetrics() Metrics {
	return e.trace.GetMetrics()
}

// Evaluate walks content recursively and returns it with every string leaf
// resolved: function tokens first, then variable tokens. Sequences and
// mappings recurse into every element, key and value; non-string scalars pass
// through untouched. The result has the same shape as the input, except that
// a leaf consisting of exactly one token takes the type of its resolved value.
func (e *Evaluator) Evaluate(content any) (any, error) {
	switch c := content.(type) {
	case nil:
		return nil, nil

	case []any:
		out := make([]any, len(c))
		for i, item := range c {
			v, err := e.Evaluate(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case map[string]any:
		out := make(map[string]any, len(c))
		for key, value := range c {
			ek, err := e.Evaluate(key)
			if err != nil {
				return nil, err
			}
			ev, err := e.Evaluate(value)
			if err != nil {
				return nil, err
			}
			out[stringify(ek)] = ev
		}
		return out, nil

	case string:
		return e.evalString(strings.TrimSpace(c))

	default:
		// booleans, numbers and anything else pass through unchanged
		return content, nil
	}
}

// evalString resolves one string leaf. Function substitution must run before
// variable substitution so that $vars produced by calls are not re-resolved
// and vars inside call arguments are handled by the argument walk instead.
func (e *Evaluator) evalString(content string) (any, error) {
	v, err := e.evalFunctions(content)
	if err != nil {
		return nil, err
	}
	return e.evalVariables(v)
}

func (e *Evaluator) evalFunctions(content string) (any, error) {
	cur := any(content)

	for _, tok := range token.ExtractFunctions(content) {
		call, err := token.ParseCall(tok)
		if err != nil {
			return nil, err
		}

		args, err := e.Evaluate(call.Args)
		if err != nil {
			return nil, err
		}
		kwargs, err := e.Evaluate(call.Kwargs)
		if err != nil {
			return nil, err
		}

		fn, err := e.function(call.Name)
		if err != nil {
			return nil, err
		}
		result, err := fn(args.([]any), kwargs.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("call %s failed: %w", tok, err)
		}

		full := "${" + tok + "}"
		s, ok := cur.(string)
		if !ok {
			// A prior whole-leaf replacement already changed the type;
			// nothing textual is left to splice into.
			break
		}
		if s == full {
			cur = result
		} else {
			cur = strings.Replace(s, full, stringify(result), 1)
		}
		e.emitTrace(KindFunction, full, result)
	}
	return cur, nil
}

func (e *Evaluator) evalVariables(content any) (any, error) {
	s, ok := content.(string)
	if !ok {
		return content, nil
	}

	cur := any(s)
	for _, name := range token.ExtractVariables(s) {
		value, err := e.variable(name)
		if err != nil {
			return nil, err
		}

		cs, ok := cur.(string)
		if !ok {
			break
		}
		tok := "$" + name
		if cs == tok {
			cur = value
		} else {
			cur = strings.Replace(cs, tok, stringify(value), 1)
		}
		e.emitTrace(KindVariable, tok, value)
	}
	return cur, nil
}

func (e *Evaluator) variable(name string) (any, error) {
	return e.lookup(KindVariable, name)
}

func (e *Evaluator) function(name string) (Function, error) {
	v, err := e.lookup(KindFunction, name)
	if err != nil {
		return nil, err
	}
	fn, ok := v.(Function)
	if !ok {
		return nil, fmt.Errorf("%s is bound but is not callable", name)
	}
	return fn, nil
}

// lookup consults the explicit binding table first, then each resolver in
// order.
func (e *Evaluator) lookup(kind Kind, name string) (any, error) {
	switch kind {
	case KindVariable:
		if v, ok := e.variables[name]; ok {
			return v, nil
		}
	case KindFunction:
		if fn, ok := e.functions[name]; ok {
			return fn, nil
		}
	default:
		return nil, ErrLookupKind
	}

	for _, r := range e.resolvers {
		if v, ok := r.Lookup(kind, name); ok {
			return v, nil
		}
	}
	return nil, &NotDefinedError{Kind: kind, Name: name}
}

func (e *Evaluator) emitTrace(kind Kind, tok string, value any) {
	e.trace.ForceSend(TraceRecord{Kind: kind, Token: tok, Value: value})
	e.logger.WithFields(logrus.Fields{
		"kind":  kind.String(),
		"token": tok,
		"value": value,
	}).Debug("resolved token")
}

// stringify renders a resolved value for splicing into surrounding text.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
