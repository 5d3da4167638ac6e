// Package token extracts and parses $variable and ${function(args)} tokens
// embedded in test-case content.
package token

import "regexp"

var (
	variableRe = regexp.MustCompile(`\$([\w_]+)`)
	functionRe = regexp.MustCompile(`\$\{([\w_]+\([\$\w\.\-_ =,]*\))\}`)
)

// ExtractVariables returns every variable name referenced in content, in
// order of appearance. Content that is not a string yields nil.
//
//	ExtractVariables("http://$host/$path") // => ["host", "path"]
func ExtractVariables(content any) []string {
	s, ok := content.(string)
	if !ok {
		return nil
	}

	var names []string
	for _, m := range variableRe.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

// ExtractFunctions returns every function-call token in content, in order of
// appearance, without the surrounding ${...}. Content that is not a string
// yields nil. Arguments are limited to a flat character class; nested
// parentheses and comma-bearing literals are not supported.
//
//	ExtractFunctions("/api/${add(1, 2)}?_t=${ts()}") // => ["add(1, 2)", "ts()"]
func ExtractFunctions(content any) []string {
	s, ok := content.(string)
	if !ok {
		return nil
	}

	var calls []string
	for _, m := range functionRe.FindAllStringSubmatch(s, -1) {
		calls = append(calls, m[1])
	}
	return calls
}
