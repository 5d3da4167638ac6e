package token

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrCallGrammar indicates a string that does not match the name(args) call
// grammar.
var ErrCallGrammar = errors.New("invalid call syntax")

var callRe = regexp.MustCompile(`^([\w_]+)\(([\$\w\.\-_ =,]*)\)$`)

// Call is one parsed name(args) invocation. Arguments carrying '=' land in
// Kwargs, the rest in Args, both in call-site order.
type Call struct {
	Name   string
	Args   []any
	Kwargs map[string]any
}

// ParseCall parses a single name(arg1,arg2,key=value) string. Whitespace
// inside the argument list is insignificant. Literal values are coerced via
// ParseLiteral. A string that does not match the top-level grammar fails
// with ErrCallGrammar.
func ParseCall(raw string) (*Call, error) {
	m := callRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrCallGrammar, raw)
	}

	call := &Call{
		Name:   m[1],
		Args:   []any{},
		Kwargs: map[string]any{},
	}

	argsStr := strings.ReplaceAll(m[2], " ", "")
	if argsStr == "" {
		return call, nil
	}

	for _, arg := range strings.Split(argsStr, ",") {
		if key, value, found := strings.Cut(arg, "="); found {
			call.Kwargs[key] = ParseLiteral(value)
		} else {
			call.Args = append(call.Args, ParseLiteral(arg))
		}
	}
	return call, nil
}

// ParseLiteral coerces a raw argument string into its natural value: numbers,
// booleans, null, flow lists and mappings decode natively; anything that is
// not a valid scalar, including $var tokens, stays a raw string.
//
//	ParseLiteral("123")  // => 123
//	ParseLiteral("12.2") // => 12.2
//	ParseLiteral("abc")  // => "abc"
//	ParseLiteral("$var") // => "$var"
func ParseLiteral(s string) any {
	if s == "" {
		return s
	}

	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	// A document like "a: b\nc" may decode to nil without erroring; never
	// turn non-empty input into nil.
	if v == nil && s != "null" && s != "~" {
		return s
	}
	return v
}
