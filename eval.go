package quill

import "strings"

// evalTop is the entry point for Interp.Eval: parse+run script at the
// current frame (the global frame for top-level calls), resetting the
// recursion depth bookkeeping since this is a fresh top-level call.
func (in *Interp) evalTop(script string) outcome {
	in.depth = 0
	return in.evalScript(script)
}

// evalScript parses script (via the LRU cache) and runs its commands in
// sequence at the current frame.
func (in *Interp) evalScript(script string) outcome {
	cmds, err := in.cache.parseScript(script, in.policy)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return in.evalCommands(cmds)
}

// evalCommands runs cmds in order. The result of the last command
// executed is the result of the sequence; an outBreak/outContinue/
// outReturn/outError from any command short-circuits the remaining
// commands and propagates up unchanged (the caller — a loop body, a proc
// body, catch — decides what to do with it).
func (in *Interp) evalCommands(cmds []parsedCommand) outcome {
	result := ok(emptyObj)
	for _, cmd := range cmds {
		if in.cancelled.Load() {
			return errOutcome(newScriptError((&CancelledError{}).Error()))
		}
		select {
		case <-in.ctx.Done():
			return errOutcome(newScriptError((&CancelledError{}).Error()))
		default:
		}
		result = in.evalCommand(cmd)
		if result.code != outOK {
			return in.annotateError(result, cmd)
		}
	}
	return result
}

// annotateError appends a stack trace entry to an error outcome when the
// error-stack-trace feature is enabled; every other outcome passes
// through unchanged.
func (in *Interp) annotateError(o outcome, cmd parsedCommand) outcome {
	if o.code != outError || !in.cfg.Features.ErrorStackTrace {
		return o
	}
	f := in.curFrame()
	entry := StackEntry{Cmd: cmd.src, Proc: f.proc, Line: cmd.line}
	return outcome{code: outError, value: o.value, err: o.err.withTrace(entry)}
}

// evalCommand materializes one command's words (applying {*} expansion)
// and dispatches it.
func (in *Interp) evalCommand(cmd parsedCommand) outcome {
	args, err := in.materializeWords(cmd.words)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	if len(args) == 0 {
		return ok(emptyObj)
	}
	return in.invoke(args[0].String(), args[1:])
}

func (in *Interp) materializeWords(words []word) ([]*Obj, error) {
	var out []*Obj
	for _, w := range words {
		v, err := in.materializeWord(w)
		if err != nil {
			return nil, err
		}
		if w.expand {
			items, err := AsList(v)
			if err != nil {
				return nil, parseErrorf("can't expand non-list word: %v", err)
			}
			out = append(out, items...)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// materializeWord evaluates a word's fragments into a single Value. A word
// with exactly one fragment returns that fragment's Value directly
// (preserving its cached internal rep — the "$x alone in a word" case that
// keeps shimmering cheap); multiple fragments concatenate to a fresh
// string Value.
func (in *Interp) materializeWord(w word) (*Obj, error) {
	if len(w.frags) == 0 {
		return emptyObj, nil
	}
	if len(w.frags) == 1 {
		return in.evalFragment(w.frags[0])
	}
	var b strings.Builder
	for _, f := range w.frags {
		v, err := in.evalFragment(f)
		if err != nil {
			return nil, err
		}
		b.WriteString(v.String())
	}
	return NewStringObj(b.String()), nil
}

func (in *Interp) evalFragment(f fragment) (*Obj, error) {
	switch f.kind {
	case fragLiteral:
		return NewStringObj(f.lit), nil
	case fragVarRef:
		if f.varHasIndex {
			idx, err := in.Subst(f.varIndexRaw)
			if err != nil {
				return nil, err
			}
			return getArrayElement(in.frames, in.curFrameIndex(), f.varName, idx.String())
		}
		return getScalar(in.frames, in.curFrameIndex(), f.varName)
	case fragCmdSubst:
		o := in.evalScriptNested(f.script)
		if o.code == outError {
			return nil, evalErrorFrom(o.err)
		}
		return o.value, nil
	default:
		return emptyObj, nil
	}
}

// evalScriptNested runs a nested script (a [command substitution] body, or
// a catch/try/if body) one recursion level deeper, enforcing the
// configured recursion limit.
func (in *Interp) evalScriptNested(script string) outcome {
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.cfg.Limits.MaxRecursion {
		return errOutcome(newScriptError((&RecursionError{Limit: in.cfg.Limits.MaxRecursion}).Error()))
	}
	return in.evalScript(script)
}

// subst implements the flat (non-command-splitting) substitution pass
// used by the `subst` command and by array-index materialization.
func (in *Interp) subst(text string) outcome {
	c := newCursor(text)
	frags, err := scanSubstFragments(c, in.policy, func(byte) bool { return false })
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	v, err := in.materializeWord(word{frags: frags})
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(v)
}

// invoke resolves name to a Command and runs it with args already
// evaluated.
func (in *Interp) invoke(name string, args []*Obj) outcome {
	cmd, resolved, found := in.lookupCommand(name)
	if !found {
		if in.unknown != nil {
			r := in.unknown(in, name, args)
			return r.toOutcome()
		}
		return errorf("invalid command name %q", name)
	}
	switch cmd.kind {
	case CmdProc:
		return in.callProc(resolved, cmd.proc, args)
	default:
		return cmd.fn(in, resolved, args)
	}
}

// lookupCommand resolves name against the current namespace, then the
// global namespace, matching Tcl's usual unqualified-name resolution
//.
func (in *Interp) lookupCommand(name string) (*Command, string, bool) {
	if strings.HasPrefix(name, "::") {
		qualified := strings.TrimPrefix(name, "::")
		if cmd, ok := in.cmds.lookup(qualified); ok {
			return cmd, qualified, true
		}
		return nil, qualified, false
	}
	ns := in.curFrame().ns
	if ns != nil && ns.fullPath != "::" {
		qualified := strings.TrimPrefix(ns.fullPath, "::") + "::" + name
		if cmd, ok := in.cmds.lookup(qualified); ok {
			return cmd, qualified, true
		}
	}
	if cmd, ok := in.cmds.lookup(name); ok {
		return cmd, name, true
	}
	return nil, name, false
}

// callProc pushes a new call frame, binds params, and runs the proc body.
// A `return` outcome from the body becomes the call's ok() result; `break`
// and `continue` escaping a proc body are errors.
func (in *Interp) callProc(name string, proc *Procedure, args []*Obj) outcome {
	params, err := AsList(proc.params)
	if err != nil {
		return errorf("bad parameter list for proc %q: %v", name, err)
	}
	frame := newCallFrame(len(in.frames), in.curFrame().ns)
	frame.proc = name
	frame.lambda = proc.lambda
	cmdWord := NewStringObj(name)
	if proc.lambda != nil {
		cmdWord = proc.lambda
	}
	frame.callCmd = NewListObj(append([]*Obj{cmdWord}, args...)...)
	if err := bindParams(frame, params, args); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	in.frames = append(in.frames, frame)
	in.depth++
	defer func() {
		in.depth--
		in.frames = in.frames[:len(in.frames)-1]
	}()
	if in.depth > in.cfg.Limits.MaxRecursion {
		return errOutcome(newScriptError((&RecursionError{Limit: in.cfg.Limits.MaxRecursion}).Error()))
	}
	o := in.evalScript(proc.body.String())
	switch o.code {
	case outReturn:
		return ok(o.value)
	case outBreak:
		return errorf("invoked \"break\" outside of a loop")
	case outContinue:
		return errorf("invoked \"continue\" outside of a loop")
	default:
		return o
	}
}

// bindParams binds positional/default/"args"-style parameters: each param is either a bare name, or a {name default} pair
// for an optional parameter, and a trailing param literally named "args"
// slurps all remaining arguments as a list.
func bindParams(frame *CallFrame, params []*Obj, args []*Obj) error {
	ai := 0
	for pi, p := range params {
		parts, err := AsList(p)
		if err != nil {
			return err
		}
		var pname string
		var hasDefault bool
		var def *Obj
		if len(parts) == 1 {
			pname = parts[0].String()
		} else if len(parts) >= 2 {
			pname = parts[0].String()
			hasDefault = true
			def = parts[1]
		} else {
			continue
		}
		if pname == "args" && pi == len(params)-1 {
			rest := args[ai:]
			frame.vars["args"] = &Variable{kind: varScalar, cell: NewListObj(rest...)}
			ai = len(args)
			return nil
		}
		if ai < len(args) {
			frame.vars[pname] = &Variable{kind: varScalar, cell: args[ai]}
			ai++
		} else if hasDefault {
			frame.vars[pname] = &Variable{kind: varScalar, cell: def}
		} else {
			return parseErrorf("no value given for parameter %q", pname)
		}
	}
	if ai < len(args) {
		return parseErrorf("called with too many arguments")
	}
	return nil
}
