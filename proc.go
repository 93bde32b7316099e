package quill

func registerProcBuiltins(in *Interp) {
	in.cmds.register("proc", cmdProc)
	in.cmds.register("apply", cmdApply)
	in.cmds.register("uplevel", cmdUplevel)
	in.cmds.register("upvar", cmdUpvar)
	in.cmds.register("global", cmdGlobal)
	in.cmds.register("variable", cmdVariable)
	in.cmds.register("rename", cmdRename)
	in.cmds.register("namespace", cmdNamespace)
}

func cmdProc(in *Interp, name string, args []*Obj) outcome {
	if len(args) != 3 {
		return errorf("wrong # args: should be \"proc name params body\"")
	}
	procName := args[0].String()
	qualified := procName
	if !hasNamespacePrefix(procName) {
		ns := in.curFrame().ns
		if ns != nil && ns.fullPath != "::" {
			qualified = stripGlobalPrefix(ns.fullPath) + "::" + procName
		}
	} else {
		qualified = stripGlobalPrefix(procName)
	}
	in.cmds.registerProc(qualified, &Procedure{name: qualified, params: args[1], body: args[2]})
	return ok(emptyObj)
}

func hasNamespacePrefix(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			return true
		}
	}
	return false
}

func stripGlobalPrefix(s string) string {
	for len(s) >= 2 && s[0] == ':' && s[1] == ':' {
		s = s[2:]
	}
	return s
}

// cmdApply implements `apply {params body} args...` — a proc call against
// an unnamed lambda Value instead of a registered command name.
func cmdApply(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"apply lambda ?arg ...?\"")
	}
	spec, err := AsList(args[0])
	if err != nil || len(spec) < 2 {
		return errorf("can't interpret %q as a lambda expression", args[0].String())
	}
	proc := &Procedure{name: "apply lambda", params: spec[0], body: spec[1], lambda: args[0]}
	return in.callProc("apply lambda", proc, args[1:])
}

func cmdUplevel(in *Interp, name string, args []*Obj) outcome {
	if len(args) == 0 {
		return errorf("wrong # args: should be \"uplevel ?level? arg ?arg ...?\"")
	}
	levelSpec := ""
	rest := args
	if lvl := args[0].String(); len(lvl) > 0 && (lvl[0] == '#' || isDigitByte(lvl[0])) {
		levelSpec = lvl
		rest = args[1:]
	}
	if len(rest) == 0 {
		return errorf("wrong # args: should be \"uplevel ?level? arg ?arg ...?\"")
	}
	target, err := resolveLevel(in.curFrameIndex(), levelSpec)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	parts := make([]string, len(rest))
	for i, a := range rest {
		parts[i] = a.String()
	}
	script := joinWithSpace(parts)

	saved := in.frames
	in.frames = in.frames[:target+1]
	o := in.evalScriptNested(script)
	in.frames = saved
	return o
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func cmdUpvar(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 2 {
		return errorf("wrong # args: should be \"upvar ?level? otherVar localVar ?otherVar localVar ...?\"")
	}
	levelSpec := ""
	rest := args
	if lvl := args[0].String(); len(args)%2 == 1 || (len(lvl) > 0 && (lvl[0] == '#' || isDigitByte(lvl[0]))) {
		levelSpec = lvl
		rest = args[1:]
	}
	if len(rest) < 2 || len(rest)%2 != 0 {
		return errorf("wrong # args: should be \"upvar ?level? otherVar localVar ?otherVar localVar ...?\"")
	}
	target, err := resolveLevel(in.curFrameIndex(), levelSpec)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	for i := 0; i+1 < len(rest); i += 2 {
		other := rest[i].String()
		local := rest[i+1].String()
		if err := createLink(in.frames, in.curFrameIndex(), local, target, other); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	return ok(emptyObj)
}

func cmdGlobal(in *Interp, name string, args []*Obj) outcome {
	for _, a := range args {
		n := a.String()
		if err := createLink(in.frames, in.curFrameIndex(), n, 0, n); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	return ok(emptyObj)
}

// cmdVariable implements namespace-scoped variable declaration: `variable
// name ?value?` links the current frame's local name to a cell owned by
// the current namespace's backing frame (the global frame stands in for
// every namespace here, keyed by qualified name, since command storage is
// already flat).
func cmdVariable(in *Interp, name string, args []*Obj) outcome {
	for i := 0; i < len(args); i += 2 {
		n := args[i].String()
		ns := in.curFrame().ns
		qualified := n
		if ns != nil && ns.fullPath != "::" {
			qualified = stripGlobalPrefix(ns.fullPath) + "::" + n
		}
		if i+1 < len(args) {
			if err := setScalar(in.frames, 0, qualified, args[i+1]); err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
		}
		if err := createLink(in.frames, in.curFrameIndex(), n, 0, qualified); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	return ok(emptyObj)
}

func cmdRename(in *Interp, name string, args []*Obj) outcome {
	if len(args) != 2 {
		return errorf("wrong # args: should be \"rename oldName newName\"")
	}
	if err := in.cmds.rename(args[0].String(), args[1].String()); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(emptyObj)
}

// cmdNamespace implements the `namespace eval`/`children`/`current`
// subset.
func cmdNamespace(in *Interp, name string, args []*Obj) outcome {
	if len(args) == 0 {
		return errorf("wrong # args: should be \"namespace subcommand ?arg ...?\"")
	}
	switch args[0].String() {
	case "eval":
		if len(args) != 3 {
			return errorf("wrong # args: should be \"namespace eval name body\"")
		}
		ns := resolveNamespace(in.global, in.curFrame().ns, args[1].String())
		frame := newCallFrame(len(in.frames), ns)
		in.frames = append(in.frames, frame)
		o := in.evalScriptNested(args[2].String())
		in.frames = in.frames[:len(in.frames)-1]
		return o
	case "current":
		ns := in.curFrame().ns
		if ns == nil {
			ns = in.global
		}
		return ok(NewStringObj(ns.fullPath))
	case "children":
		target := in.curFrame().ns
		if len(args) > 1 {
			found, ok2 := findNamespace(in.global, in.curFrame().ns, args[1].String())
			if !ok2 {
				return errorf("namespace %q not found", args[1].String())
			}
			target = found
		}
		var names []*Obj
		walkNamespaces(target, func(c *Namespace) {
			if c != target {
				names = append(names, NewStringObj(c.fullPath))
			}
		})
		return ok(NewListObj(names...))
	default:
		return errorf("unknown namespace subcommand %q", args[0].String())
	}
}
