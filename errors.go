package quill

import (
	"fmt"
	"strings"
)

// outcomeCode is the tag of a control outcome: every
// evaluation step returns one of these instead of using Go panic/recover
// for script-level control flow. Panics are reserved for host programming
// mistakes (e.g. RegisterCommand wrapping failed because of a bad
// signature), never for `break`/`return`/`error`.
type outcomeCode int

const (
	outOK outcomeCode = iota
	outReturn
	outBreak
	outContinue
	outError
)

// outcome is the tagged result of one evaluation step.
type outcome struct {
	code  outcomeCode
	value *Obj
	err   *ScriptError
}

func ok(v *Obj) outcome                 { return outcome{code: outOK, value: v} }
func ret(v *Obj) outcome                { return outcome{code: outReturn, value: v} }
func brk() outcome                      { return outcome{code: outBreak, value: emptyObj} }
func cont() outcome                     { return outcome{code: outContinue, value: emptyObj} }
func errOutcome(e *ScriptError) outcome { return outcome{code: outError, value: emptyObj, err: e} }

func errorf(format string, args ...any) outcome {
	return errOutcome(newScriptError(fmt.Sprintf(format, args...)))
}

var emptyObj = NewStringObj("")

// ScriptError is a script-level error: a human-readable
// message, a machine-readable error code (a list Value, default "NONE"),
// and — when the error-stack-trace feature is active — a trace of the
// commands being executed when the error was produced.
type ScriptError struct {
	Message string
	Code    *Obj
	Trace   []StackEntry
}

// StackEntry describes one frame of a stack trace: the command text being
// evaluated and which procedure (if any) it was running in.
type StackEntry struct {
	Cmd  string
	Proc string
	Line int
}

func newScriptError(msg string) *ScriptError {
	return &ScriptError{Message: msg, Code: NewStringObj("NONE")}
}

func newScriptErrorCode(msg, code string) *ScriptError {
	return &ScriptError{Message: msg, Code: NewStringObj(code)}
}

// withTrace returns a copy of e with one more stack entry appended. Used by
// the evaluator as an Error outcome propagates up through nested eval
// calls.
func (e *ScriptError) withTrace(entry StackEntry) *ScriptError {
	ne := *e
	ne.Trace = append(append([]StackEntry{}, e.Trace...), entry)
	return &ne
}

// resetTrace clears accumulated trace entries — applied by `return -code
// error -errorcode ...` when it re-raises, so the re-raised error reports
// only its own context.
func (e *ScriptError) resetTrace() *ScriptError {
	ne := *e
	ne.Trace = nil
	return &ne
}

func (e *ScriptError) formattedTrace() string {
	var b strings.Builder
	for i := len(e.Trace) - 1; i >= 0; i-- {
		t := e.Trace[i]
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("    while executing\n\"" + t.Cmd + "\"")
		if t.Proc != "" {
			b.WriteString(" (procedure \"" + t.Proc + "\" line " + itoa(t.Line) + ")")
		}
	}
	return b.String()
}

// EvalError is the error returned by Interp.Eval for any script error that
// escapes uncaught trace").
type EvalError struct {
	Message string
	Code    string
	Trace   []StackEntry
}

func (e *EvalError) Error() string { return e.Message }

func evalErrorFrom(se *ScriptError) *EvalError {
	return &EvalError{Message: se.Message, Code: se.Code.String(), Trace: se.Trace}
}

// RecursionError describes exceeding the configured recursion limit. The
// evaluator raises its message as an ordinary script error, so Eval returns
// it as an *EvalError and catch/try intercept it at any depth, including the
// frame where the limit is hit; the interpreter remains usable once the
// call stack unwinds back under the limit.
type RecursionError struct {
	Limit int
}

func (e *RecursionError) Error() string {
	return "too many nested evaluations (infinite loop?)"
}

// CancelledError describes the host's cooperative cancellation flag being
// observed set between commands. The evaluator raises its message as an
// ordinary script error, which Eval returns as an *EvalError.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "evaluation cancelled by host" }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

