package quill

func registerErrorBuiltins(in *Interp) {
	in.cmds.register("catch", cmdCatch)
	in.cmds.register("try", cmdTry)
	in.cmds.register("error", cmdError)
	in.cmds.register("throw", cmdThrow)
}

// cmdCatch implements `catch body ?resultVar? ?optionsVar?`: runs body, always returns ok() with a numeric status (0 normal, 1
// error, 2 return, 3 break, 4 continue), binding resultVar/optionsVar if
// given. A caught error's stack trace is reset, matching real Tcl: a
// re-raised error reported later should not carry the caught frame's
// trace as if it were still live.
func cmdCatch(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 || len(args) > 3 {
		return errorf("wrong # args: should be \"catch body ?resultVarName? ?optionsVarName?\"")
	}
	o := in.runBody(args[0])
	var status int64
	var resultVal *Obj
	switch o.code {
	case outOK:
		status, resultVal = 0, o.value
	case outError:
		status, resultVal = 1, NewStringObj(o.err.Message)
	case outReturn:
		status, resultVal = 2, o.value
	case outBreak:
		status, resultVal = 3, emptyObj
	case outContinue:
		status, resultVal = 4, emptyObj
	}
	if len(args) >= 2 {
		if err := setScalar(in.frames, in.curFrameIndex(), args[1].String(), resultVal); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	if len(args) == 3 {
		opts := NewDictObj()
		if o.code == outError {
			ObjDictSet(opts, "-code", NewIntObj(1))
			ObjDictSet(opts, "-errorcode", o.err.Code)
			ObjDictSet(opts, "-errorinfo", NewStringObj(o.err.formattedTrace()))
		} else {
			ObjDictSet(opts, "-code", NewIntObj(0))
		}
		if err := setScalar(in.frames, in.curFrameIndex(), args[2].String(), opts); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	return ok(NewIntObj(status))
}

// cmdTry implements `try body ?on code varList script? ... ?finally script?`
//. Only the "on error" / "trap" / "finally" shapes
// reachable from a single body are supported; code is one of ok, error,
// break, continue, return, or a bare integer.
func cmdTry(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"try body ?handler ...? ?finally script?\"")
	}
	body := args[0]
	rest := args[1:]

	var finallyScript *Obj
	if len(rest) >= 2 && rest[len(rest)-2].String() == "finally" {
		finallyScript = rest[len(rest)-1]
		rest = rest[:len(rest)-2]
	}

	result := in.runBody(body)
	handled := result

	i := 0
	for i < len(rest) {
		kind := rest[i].String()
		switch kind {
		case "on":
			if i+4 > len(rest) {
				return errorf("wrong # args to \"on\" handler")
			}
			codeSpec := rest[i+1].String()
			varList := rest[i+2]
			script := rest[i+3]
			i += 4
			if tryCodeMatches(codeSpec, result.code) {
				handled = in.runTryHandler(result, varList, script)
				goto finish
			}
		case "trap":
			if i+4 > len(rest) {
				return errorf("wrong # args to \"trap\" handler")
			}
			pattern, err := AsList(rest[i+1])
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			varList := rest[i+2]
			script := rest[i+3]
			i += 4
			if result.code == outError && trapMatches(pattern, result.err.Code) {
				handled = in.runTryHandler(result, varList, script)
				goto finish
			}
		default:
			return errorf("invalid try handler %q", kind)
		}
	}
finish:
	if finallyScript != nil {
		fo := in.runBody(finallyScript)
		if fo.code != outOK {
			return fo
		}
	}
	return handled
}

func tryCodeMatches(spec string, code outcomeCode) bool {
	switch spec {
	case "ok":
		return code == outOK
	case "error":
		return code == outError
	case "return":
		return code == outReturn
	case "break":
		return code == outBreak
	case "continue":
		return code == outContinue
	}
	if n, err := parseIntLiteral(spec); err == nil {
		switch n {
		case 0:
			return code == outOK
		case 1:
			return code == outError
		case 2:
			return code == outReturn
		case 3:
			return code == outBreak
		case 4:
			return code == outContinue
		}
	}
	return false
}

func trapMatches(pattern []*Obj, code *Obj) bool {
	actual, _ := AsList(code)
	if len(pattern) > len(actual) {
		return false
	}
	for i, p := range pattern {
		if p.String() != actual[i].String() {
			return false
		}
	}
	return true
}

func (in *Interp) runTryHandler(result outcome, varList *Obj, script *Obj) outcome {
	vars, _ := AsList(varList)
	if len(vars) >= 1 {
		msg := result.value
		if result.code == outError {
			msg = NewStringObj(result.err.Message)
		}
		setScalar(in.frames, in.curFrameIndex(), vars[0].String(), msg)
	}
	if len(vars) >= 2 {
		opts := NewDictObj()
		if result.code == outError {
			ObjDictSet(opts, "-errorcode", result.err.Code)
		}
		setScalar(in.frames, in.curFrameIndex(), vars[1].String(), opts)
	}
	return in.runBody(script)
}

func cmdError(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 || len(args) > 3 {
		return errorf("wrong # args: should be \"error message ?errorInfo? ?errorCode?\"")
	}
	msg := args[0].String()
	se := newScriptError(msg)
	if len(args) == 3 {
		se = newScriptErrorCode(msg, args[2].String())
	}
	return errOutcome(se)
}

func cmdThrow(in *Interp, name string, args []*Obj) outcome {
	if len(args) != 2 {
		return errorf("wrong # args: should be \"throw code message\"")
	}
	return errOutcome(newScriptErrorCode(args[1].String(), args[0].String()))
}
