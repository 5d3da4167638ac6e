// Package luabind resolves variables and functions from a user preference
// script written in Lua. It backs the evaluation engine's fallback resolver
// chain: names missing from the explicit binding tables are looked up as
// globals of the loaded script.
package luabind

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aarzilli/golua/lua"
	"github.com/sirupsen/logrus"

	"github.com/srg/casekit/pkg/eval"
)

// OutputRecord is one line printed by the script.
type OutputRecord struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// outputCapacity bounds the captured print output.
const outputCapacity = 100

// Engine wraps one Lua state. All state access is mutex-guarded; script
// print output is captured to a ring channel instead of stdout.
type Engine struct {
	state  *lua.State
	mu     sync.Mutex
	logger *logrus.Logger
	output *eval.RingChannel[OutputRecord]
}

// NewEngine creates a Lua engine with print capture installed.
func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	e := &Engine{
		logger: logger,
		output: eval.NewRingChannel[OutputRecord](outputCapacity),
	}
	e.state = lua.NewState()
	e.state.OpenLibs()
	e.registerPrintCapture()
	return e
}

// LoadFile reads and executes a script file, defining its globals.
func (e *Engine) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return e.LoadScript(string(content), path)
}

// LoadScript executes a script string, defining its globals.
func (e *Engine) LoadScript(script, name string) error {
	if script == "" {
		return fmt.Errorf("empty script: %s", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.state.DoString(script); err != nil {
		e.state.SetTop(0)
		return fmt.Errorf("lua execution failed in %s: %w", name, err)
	}
	return nil
}

// Output returns the channel of captured print records.
func (e *Engine) Output() <-chan OutputRecord {
	return e.output.C()
}

// Close releases the Lua state. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != nil {
		e.state.Close()
		e.state = nil
	}
}

// Global reads a scalar global. The ok result is false when the global is
// absent or not representable as a Go scalar (functions and tables are not
// variables).
func (e *Engine) Global(name string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, false
	}

	L := e.state
	L.GetGlobal(name)
	defer L.Pop(1)

	switch {
	case L.IsBoolean(-1):
		return L.ToBoolean(-1), true
	case L.IsNumber(-1):
		return numberValue(L.ToNumber(-1)), true
	case L.IsString(-1):
		return L.ToString(-1), true
	default:
		return nil, false
	}
}

// HasFunction reports whether a global with the given name is a function.
func (e *Engine) HasFunction(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return false
	}
	e.state.GetGlobal(name)
	defer e.state.Pop(1)
	return e.state.IsFunction(-1)
}

// CallFunction invokes a global function with the given positional and
// keyword arguments. Keyword arguments, when present, are passed as a
// trailing table. The single return value is converted back to a Go scalar.
func (e *Engine) CallFunction(name string, args []any, kwargs map[string]any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, fmt.Errorf("lua state not initialized")
	}

	L := e.state
	L.GetGlobal(name)
	if !L.IsFunction(-1) {
		L.Pop(1)
		return nil, fmt.Errorf("function %s not found or not a function", name)
	}

	nargs := len(args)
	for _, arg := range args {
		pushValue(L, arg)
	}
	if len(kwargs) > 0 {
		pushTable(L, kwargs)
		nargs++
	}

	if err := L.Call(nargs, 1); err != nil {
		L.SetTop(0)
		return nil, fmt.Errorf("failed to call function %s: %w", name, err)
	}
	defer L.Pop(1)

	switch {
	case L.IsNil(-1):
		return nil, nil
	case L.IsBoolean(-1):
		return L.ToBoolean(-1), nil
	case L.IsNumber(-1):
		return numberValue(L.ToNumber(-1)), nil
	case L.IsString(-1):
		return L.ToString(-1), nil
	default:
		return nil, fmt.Errorf("function %s returned an unsupported type", name)
	}
}

// registerPrintCapture overrides the script's print so output lands in the
// ring channel instead of the process stdout.
func (e *Engine) registerPrintCapture() {
	L := e.state
	L.PushGoFunction(func(L *lua.State) int {
		top := L.GetTop()
		parts := make([]string, 0, top)

		for i := 1; i <= top; i++ {
			switch {
			case L.IsNil(i):
				parts = append(parts, "nil")
			case L.IsBoolean(i):
				parts = append(parts, fmt.Sprintf("%t", L.ToBoolean(i)))
			case L.IsNumber(i):
				parts = append(parts, fmt.Sprintf("%v", L.ToNumber(i)))
			case L.IsString(i):
				parts = append(parts, L.ToString(i))
			default:
				// tables, functions, userdata: let Lua render them
				L.GetGlobal("tostring")
				L.PushValue(i)
				L.Call(1, 1)
				parts = append(parts, L.ToString(-1))
				L.Pop(1)
			}
		}

		e.output.ForceSend(OutputRecord{
			Content:   strings.Join(parts, "\t") + "\n",
			Timestamp: time.Now(),
			Source:    "stdout",
		})
		return 0
	})
	L.SetGlobal("print")
}

func pushValue(L *lua.State, v any) {
	switch v := v.(type) {
	case nil:
		L.PushNil()
	case string:
		L.PushString(v)
	case bool:
		L.PushBoolean(v)
	case int:
		L.PushInteger(int64(v))
	case int64:
		L.PushInteger(v)
	case float64:
		L.PushNumber(v)
	default:
		L.PushString(fmt.Sprintf("%v", v))
	}
}

func pushTable(L *lua.State, m map[string]any) {
	L.NewTable()
	for k, v := range m {
		L.PushString(k)
		pushValue(L, v)
		L.SetTable(-3)
	}
}

// numberValue narrows an integral Lua number to int so whole-leaf
// substitution keeps natural types.
func numberValue(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return f
}
