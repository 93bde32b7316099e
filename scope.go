package quill

// varKind distinguishes the three forms a Variable can take.
type varKind int

const (
	varScalar varKind = iota
	varArray
	varLink
)

// Variable is one named slot in a Scope: a scalar cell, an array of named
// element cells, or a link (alias) to a variable in another frame. Arrays
// and scalars share a namespace — once a name is bound as one kind it
// cannot be used as the other.
type Variable struct {
	kind  varKind
	cell  *Obj
	array map[string]*Obj

	linkLevel int // absolute frame index the link resolves to
	linkName  string
}

// maxLinkDepth bounds upvar chain-following; link cycles are rejected at
// link-creation time or detected as lookup depth limits — Quill does
// both: createLink refuses an immediate self-link,
// and resolution here is the backstop for any chain that still manages to
// cycle indirectly.
const maxLinkDepth = 64

// resolveVariable follows link chains starting at (frame, name) until it
// reaches a non-link Variable (or nil if unset), returning the owning
// frame and variable.
func resolveVariable(frames []*CallFrame, frame int, name string) (int, *Variable, error) {
	for depth := 0; ; depth++ {
		if depth > maxLinkDepth {
			return 0, nil, parseErrorf("too many nested variable links for %q", name)
		}
		if frame < 0 || frame >= len(frames) {
			return 0, nil, nil
		}
		v := frames[frame].vars[name]
		if v == nil {
			return frame, nil, nil
		}
		if v.kind != varLink {
			return frame, v, nil
		}
		frame, name = v.linkLevel, v.linkName
	}
}

// getScalar reads a scalar variable, following links. Returns an
// "undefined variable" error if unset or if name resolves to an array
// (without an element index).
func getScalar(frames []*CallFrame, frame int, name string) (*Obj, error) {
	_, v, err := resolveVariable(frames, frame, name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &UndefinedError{Name: name}
	}
	if v.kind == varArray {
		return nil, parseErrorf("can't read %q: variable is array", name)
	}
	return v.cell, nil
}

// getArrayElement reads array element name(index), following links.
func getArrayElement(frames []*CallFrame, frame int, name, index string) (*Obj, error) {
	_, v, err := resolveVariable(frames, frame, name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &UndefinedError{Name: name + "(" + index + ")"}
	}
	if v.kind != varArray {
		return nil, parseErrorf("can't read %q: variable isn't array", name)
	}
	val, ok := v.array[index]
	if !ok {
		return nil, &UndefinedError{Name: name + "(" + index + ")"}
	}
	return val, nil
}

// setScalar creates or replaces a scalar variable, following links to find
// the owning frame first.
func setScalar(frames []*CallFrame, frame int, name string, value *Obj) error {
	ownerFrame, v, err := resolveVariable(frames, frame, name)
	if err != nil {
		return err
	}
	if v != nil && v.kind == varArray {
		return parseErrorf("can't set %q: variable is array", name)
	}
	frames[ownerFrame].vars[name] = &Variable{kind: varScalar, cell: value}
	return nil
}

// setArrayElement creates or replaces array element name(index).
func setArrayElement(frames []*CallFrame, frame int, name, index string, value *Obj) error {
	ownerFrame, v, err := resolveVariable(frames, frame, name)
	if err != nil {
		return err
	}
	if v == nil {
		v = &Variable{kind: varArray, array: map[string]*Obj{}}
		frames[ownerFrame].vars[name] = v
	} else if v.kind != varArray {
		return parseErrorf("can't set %q: variable isn't array", name)
	}
	v.array[index] = value
	return nil
}

// unsetVariable removes name (scalar, array, or link) from frame. Links
// are removed without following them: unset never reaches through to the
// target of a link.
func unsetVariable(frames []*CallFrame, frame int, name string) bool {
	if _, ok := frames[frame].vars[name]; !ok {
		return false
	}
	delete(frames[frame].vars, name)
	return true
}

// createLink installs a link Variable in frames[frame] named local,
// resolving to (targetFrame, targetName). Refuses an immediate self-link
//.
func createLink(frames []*CallFrame, frame int, local string, targetFrame int, targetName string) error {
	if targetFrame == frame && targetName == local {
		return parseErrorf("can't upvar from variable to itself")
	}
	frames[frame].vars[local] = &Variable{kind: varLink, linkLevel: targetFrame, linkName: targetName}
	return nil
}

// UndefinedError reports a read of a variable that was never set
//.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return "can't read \"" + e.Name + "\": no such variable"
}
