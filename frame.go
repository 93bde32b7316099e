package quill

import "strconv"

// CallFrame is one entry on the call stack. The global
// frame is frame 0. uplevel/upvar address frames by level: "N" means N
// frames up from the current one, "#N" means the absolute frame index.
type CallFrame struct {
	vars    map[string]*Variable
	level   int    // absolute index in the frame stack
	proc    string // name of the procedure executing in this frame, "" for the global frame
	line    int    // source line of the command that pushed this frame, 0 = unknown
	ns      *Namespace
	lambda  *Obj // non-nil for `apply` frames
	callCmd *Obj // the full command line that created this frame (for traces / info level 0)
}

func newCallFrame(level int, ns *Namespace) *CallFrame {
	return &CallFrame{vars: map[string]*Variable{}, level: level, ns: ns}
}

// resolveLevel resolves a level specifier ("1", "2", "#0", ...) relative to
// the current frame index, for uplevel/upvar. An empty spec means one
// level up, the default for both.
func resolveLevel(current int, spec string) (int, error) {
	if spec == "" {
		spec = "1"
	}
	if spec[0] == '#' {
		n, err := strconv.Atoi(spec[1:])
		if err != nil || n < 0 {
			return 0, parseErrorf("bad level %q", spec)
		}
		return n, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil || n < 0 {
		return 0, parseErrorf("bad level %q", spec)
	}
	target := current - n
	if target < 0 {
		return 0, parseErrorf("bad level %q: not that many call frames", spec)
	}
	return target, nil
}
