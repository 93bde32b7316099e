package quill

import (
	"sort"
	"strconv"
)

func registerInfoBuiltins(in *Interp) {
	in.cmds.register("info", cmdInfo)
}

func cmdInfo(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"info subcommand ?arg ...?\"")
	}
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "commands":
		pattern := ""
		if len(rest) == 1 {
			pattern = rest[0].String()
		}
		return ok(NewListObj(matchNames(in.cmds.names(), pattern)...))
	case "procs":
		var names []string
		for n, c := range in.cmds.cmds {
			if c.kind == CmdProc {
				names = append(names, n)
			}
		}
		pattern := ""
		if len(rest) == 1 {
			pattern = rest[0].String()
		}
		return ok(NewListObj(matchNames(names, pattern)...))
	case "vars":
		f := in.curFrame()
		var names []string
		for n := range f.vars {
			names = append(names, n)
		}
		pattern := ""
		if len(rest) == 1 {
			pattern = rest[0].String()
		}
		return ok(NewListObj(matchNames(names, pattern)...))
	case "exists":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"info exists varName\"")
		}
		_, err := getScalar(in.frames, in.curFrameIndex(), rest[0].String())
		return ok(NewIntObj(boolToInt(err == nil)))
	case "level":
		if len(rest) == 0 {
			return ok(NewIntObj(int64(in.curFrameIndex())))
		}
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"info level ?number?\"")
		}
		n, convErr := strconv.Atoi(rest[0].String())
		if convErr != nil {
			return errorf("bad level %q", rest[0].String())
		}
		target := n
		if n <= 0 {
			target = in.curFrameIndex() + n
		}
		if target <= 0 || target >= len(in.frames) || in.frames[target].callCmd == nil {
			return errorf("bad level %q", rest[0].String())
		}
		return ok(in.frames[target].callCmd)
	case "args":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"info args procname\"")
		}
		cmd, ok2 := in.cmds.lookup(stripGlobalPrefix(rest[0].String()))
		if !ok2 || cmd.kind != CmdProc {
			return errorf("%q isn't a procedure", rest[0].String())
		}
		params, err := AsList(cmd.proc.params)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		var names []*Obj
		for _, p := range params {
			parts, _ := AsList(p)
			if len(parts) > 0 {
				names = append(names, NewStringObj(parts[0].String()))
			}
		}
		return ok(NewListObj(names...))
	case "body":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"info body procname\"")
		}
		cmd, ok2 := in.cmds.lookup(stripGlobalPrefix(rest[0].String()))
		if !ok2 || cmd.kind != CmdProc {
			return errorf("%q isn't a procedure", rest[0].String())
		}
		return ok(cmd.proc.body)
	case "tclversion", "patchlevel":
		return ok(NewStringObj("1.0"))
	default:
		return errorf("unknown or ambiguous subcommand %q", sub)
	}
}

func matchNames(names []string, pattern string) []*Obj {
	sort.Strings(names)
	var out []*Obj
	for _, n := range names {
		if pattern == "" {
			out = append(out, NewStringObj(n))
			continue
		}
		m, err := switchMatches("glob", pattern, n)
		if err == nil && m {
			out = append(out, NewStringObj(n))
		}
	}
	return out
}
