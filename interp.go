package quill

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Features toggles optional language surface. All default to enabled except the ones noted; an embedder
// that wants the smallest possible surface (e.g. a sandboxed config
// language) can turn pieces off.
type Features struct {
	Dict             bool // dict command and dict values
	Float            bool // floating point literals in expr (a parse error when off); values already holding floats still compute as floats
	Int64            bool // 64-bit integer overflow semantics instead of trapping
	ErrorStackTrace  bool // collect StackEntry traces on ScriptError
	Expr             bool // expr command / expression substitution
	StringCommand    bool // string command and its subcommands
	UnicodeCase      bool // string toupper/tolower follow Unicode casing, not ASCII
	UnicodeWhitespace bool // Interp.ParseList treats Unicode whitespace as a list separator; script word splitting and AsList/AsDict use ASCII whitespace only
	UnicodeAlphanum  bool // identifier scanning accepts Unicode letters/digits, not just ASCII
}

// DefaultFeatures returns every toggle enabled, the configuration a fresh
// New() interpreter starts with.
func DefaultFeatures() Features {
	return Features{
		Dict: true, Float: true, Int64: true, ErrorStackTrace: true,
		Expr: true, StringCommand: true,
		UnicodeCase: true, UnicodeWhitespace: true, UnicodeAlphanum: true,
	}
}

// Limits bounds runaway scripts.
type Limits struct {
	// MaxRecursion caps nested eval/proc-call depth. Zero means use the
	// package default (1000).
	MaxRecursion int
}

// Config configures a new Interp. The zero value is valid and equivalent
// to DefaultFeatures with default Limits.
type Config struct {
	Features Features
	Limits   Limits
}

func (c Config) withDefaults() Config {
	if c.Limits.MaxRecursion == 0 {
		c.Limits.MaxRecursion = 1000
	}
	// The zero Features value is indistinguishable from "not set" (an
	// embedder wanting every toggle off has no way to spell that), so a
	// bare Config{} gets the full default surface as documented on Config.
	if c.Features == (Features{}) {
		c.Features = DefaultFeatures()
	}
	return c
}

// LoadConfig decodes YAML into a Config, for embedders that keep
// interpreter feature toggles in a config file alongside the rest of their
// application configuration.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding quill config")
	}
	return cfg, nil
}

// UnknownHandler is invoked when a command name doesn't resolve. name is
// the command as written; args is its full argument list (name is not
// repeated in args). Returning a *ScriptError via Error/Errorf reports the
// original "invalid command name" style failure if the handler can't cope.
type UnknownHandler func(in *Interp, name string, args []*Obj) Result

// Interp is one interpreter instance. The zero value is not
// usable; construct with New.
type Interp struct {
	cfg    Config
	policy *unicodePolicy

	cmds   *commandTable
	global *Namespace
	cache  *parseCache

	frames []*CallFrame

	exprFuncs map[string]exprFunc

	foreignTypes map[string]*foreignTypeInfo

	unknown UnknownHandler

	depth int

	cancelled atomic.Bool
	ctx       context.Context

	lastErr *EvalError
}

// New creates a ready-to-use interpreter with the global namespace, every
// builtin command registered, and cfg's features applied.
func New(cfg Config) *Interp {
	cfg = cfg.withDefaults()
	global := newGlobalNamespace()
	in := &Interp{
		cfg:          cfg,
		cmds:         newCommandTable(),
		global:       global,
		cache:        newParseCache(),
		exprFuncs:    map[string]exprFunc{},
		foreignTypes: map[string]*foreignTypeInfo{},
		ctx:          context.Background(),
	}
	in.policy = newUnicodePolicy(cfg)
	in.frames = []*CallFrame{newCallFrame(0, global)}
	registerCoreBuiltins(in)
	registerExprFuncs(in)
	return in
}

// WithContext returns in (for chaining); future Eval calls observe ctx's
// cancellation in addition to the Cancel method.
func (in *Interp) WithContext(ctx context.Context) *Interp {
	in.ctx = ctx
	return in
}

// Cancel requests that any in-progress or future Eval stop at the next
// command boundary with an *EvalError carrying CancelledError's message. Safe to call from another
// goroutine.
func (in *Interp) Cancel() {
	in.cancelled.Store(true)
}

// ResetCancel clears a prior Cancel, allowing the interpreter to run
// again.
func (in *Interp) ResetCancel() {
	in.cancelled.Store(false)
}

func (in *Interp) curFrame() *CallFrame {
	return in.frames[len(in.frames)-1]
}

func (in *Interp) curFrameIndex() int {
	return len(in.frames) - 1
}

// Eval parses and runs script in the global frame, returning its result
// Value or an *EvalError. Recursion-limit and cancellation failures also
// arrive as *EvalError, carrying RecursionError's or CancelledError's message.
func (in *Interp) Eval(script string) (*Obj, error) {
	o := in.evalTop(script)
	if o.code == outError {
		ee := evalErrorFrom(o.err)
		in.lastErr = ee
		return nil, ee
	}
	in.lastErr = nil
	return o.value, nil
}

// LastError returns the most recent uncaught error surfaced by Eval/EvalObj
// (nil if none yet, or if the most recent Eval succeeded). Host code that
// wants to retain error detail across a call boundary without threading
// the return value through can consult this instead.
func (in *Interp) LastError() *EvalError {
	return in.lastErr
}

// EvalObj is Eval taking a *Obj so a caller holding a cached list/dict
// image doesn't pay a needless round-trip through String().
func (in *Interp) EvalObj(script *Obj) (*Obj, error) {
	return in.Eval(script.String())
}

// Subst performs `subst`-style substitution (backslash/$/[ ], no command
// splitting) on text and returns the resulting Value.
func (in *Interp) Subst(text string) (*Obj, error) {
	o := in.subst(text)
	if o.code == outError {
		return nil, evalErrorFrom(o.err)
	}
	return o.value, nil
}

// Call invokes the named command directly with already-evaluated
// arguments, bypassing script parsing entirely — the path host code should
// use to call into script-defined procs.
func (in *Interp) Call(name string, args ...*Obj) (*Obj, error) {
	o := in.invoke(name, args)
	if o.code == outError {
		return nil, evalErrorFrom(o.err)
	}
	return o.value, nil
}

// RegisterCommand installs a raw CommandFunc under name, overwriting any
// existing command of that name. Most host code should
// prefer Register, which wraps an arbitrary Go function via reflection;
// RegisterCommand is the escape hatch for commands that need direct
// outcome control (their own Break/Continue/Return semantics, or
// participation in `catch`).
func (in *Interp) RegisterCommand(name string, fn CommandFunc) {
	in.cmds.register(name, fn)
}

// SetUnknownHandler installs the fallback invoked when a command name
// can't be resolved. Pass nil to restore the default "invalid command
// name" error.
func (in *Interp) SetUnknownHandler(h UnknownHandler) {
	in.unknown = h
}

// Var reads a global scalar variable.
func (in *Interp) Var(name string) (*Obj, error) {
	return getScalar(in.frames, 0, name)
}

// SetVar sets a global scalar variable, creating it if necessary.
func (in *Interp) SetVar(name string, value *Obj) error {
	return setScalar(in.frames, 0, name, value)
}

// SetVars sets multiple global scalar variables from a map, a convenience
// for seeding an interpreter with host state before Eval.
func (in *Interp) SetVars(vars map[string]*Obj) error {
	for name, v := range vars {
		if err := in.SetVar(name, v); err != nil {
			return err
		}
	}
	return nil
}

// GetVars snapshots every global scalar variable into a map, for hosts
// that want to inspect interpreter state after a run without walking
// frames themselves.
func (in *Interp) GetVars() map[string]*Obj {
	out := map[string]*Obj{}
	for name, v := range in.frames[0].vars {
		if v.kind == varScalar {
			out[name] = v.cell
		}
	}
	return out
}

// ParseList parses s as a Quill list.
func (in *Interp) ParseList(s string) ([]*Obj, error) {
	return parseListStringPolicy(s, in.policy)
}

// ParseDict parses s as a Quill dict.
func (in *Interp) ParseDict(s string) (*DictType, error) {
	return AsDict(NewStringObj(s))
}

// DictKV builds a dict Value from alternating key/value pairs, a
// convenience for host code assembling data to pass into a script.
func (in *Interp) DictKV(kv ...string) *Obj {
	d := NewDictObj()
	for i := 0; i+1 < len(kv); i += 2 {
		ObjDictSet(d, kv[i], NewStringObj(kv[i+1]))
	}
	return d
}

// Result is what a CommandFunc or UnknownHandler returns: either a success
// Value or a script-level error, built with OK/Error/Errorf.
type Result struct {
	value *Obj
	err   *ScriptError
}

// OK builds a successful Result from v.
func OK(v *Obj) Result { return Result{value: v} }

// Error builds a failing Result carrying msg as the error message and the
// default "NONE" error code.
func Error(msg string) Result { return Result{value: emptyObj, err: newScriptError(msg)} }

// Errorf is Error with fmt.Sprintf-style formatting.
func Errorf(format string, args ...any) Result {
	return Result{value: emptyObj, err: newScriptError(fmt.Sprintf(format, args...))}
}

// ErrorCode builds a failing Result with an explicit machine-readable
// error code, for host commands that want `catch {...} err opts` callers
// to branch on `dict get $opts -errorcode` rather than parsing message
// text.
func ErrorCode(code, msg string) Result {
	return Result{value: emptyObj, err: newScriptErrorCode(msg, code)}
}

func (r Result) toOutcome() outcome {
	if r.err != nil {
		return errOutcome(r.err)
	}
	return ok(r.value)
}
