package quill

// CommandFunc is a handler registered against a command name. It receives the owning Interp, the command name as invoked, and
// the argument Values, returning a control outcome. Builtins, user procs,
// and host-registered Go functions are all stored as a CommandFunc in the
// same table — "procs are just another handler".
type CommandFunc func(in *Interp, name string, args []*Obj) outcome

// CommandKind reports what kind of entry a Command is, for introspection
// (`info commands`, `info procs`).
type CommandKind int

const (
	// CmdBuiltin is a command implemented in Go (core or a registered builtin).
	CmdBuiltin CommandKind = iota
	// CmdProc is a user-defined `proc`.
	CmdProc
	// CmdForeign is a method dispatcher installed by RegisterType.
	CmdForeign
)

// Command is one entry in the command table.
type Command struct {
	kind CommandKind
	fn   CommandFunc
	proc *Procedure // non-nil only when kind == CmdProc
}

// Procedure is a user-defined proc's parameter list and body, kept as Obj
// so they shimmer to parsed-list/word-token form exactly once no matter
// how many times the proc is called.
type Procedure struct {
	name   string
	params *Obj
	body   *Obj
	lambda *Obj // non-nil when this Procedure was built by `apply` from a {params body} lambda, the lambda spec itself
}

// commandTable is a flat name -> Command registry. Names are stored without
// the leading "::" ("foo::bar", or just "set" for a global command);
// Namespace nodes (namespace.go) only track the
// tree shape for enumeration, not storage.
type commandTable struct {
	cmds map[string]*Command
}

func newCommandTable() *commandTable {
	return &commandTable{cmds: map[string]*Command{}}
}

func (t *commandTable) register(name string, fn CommandFunc) {
	t.cmds[name] = &Command{kind: CmdBuiltin, fn: fn}
}

func (t *commandTable) registerProc(name string, proc *Procedure) {
	t.cmds[name] = &Command{kind: CmdProc, proc: proc}
}

func (t *commandTable) registerForeign(name string, fn CommandFunc) {
	t.cmds[name] = &Command{kind: CmdForeign, fn: fn}
}

func (t *commandTable) lookup(name string) (*Command, bool) {
	c, ok := t.cmds[name]
	return c, ok
}

func (t *commandTable) delete(name string) bool {
	if _, ok := t.cmds[name]; !ok {
		return false
	}
	delete(t.cmds, name)
	return true
}

// rename is atomic: either both the delete of oldName and the insert of
// newName happen, or neither does. This is what lets scripts monkey-patch
// a builtin by renaming it aside (`rename set _set`) without a window
// where neither name resolves.
func (t *commandTable) rename(oldName, newName string) error {
	c, ok := t.cmds[oldName]
	if !ok {
		return parseErrorf("can't rename %q: command doesn't exist", oldName)
	}
	if newName == "" {
		delete(t.cmds, oldName)
		return nil
	}
	t.cmds[newName] = c
	if newName != oldName {
		delete(t.cmds, oldName)
	}
	return nil
}

func (t *commandTable) names() []string {
	names := make([]string, 0, len(t.cmds))
	for n := range t.cmds {
		names = append(names, n)
	}
	return names
}
