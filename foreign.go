package quill

// foreignTypeInfo tracks one RegisterType[T] registration: the type name
// scripts see and the method dispatcher installed for it.
type foreignTypeInfo struct {
	name string
}

// RegisterType installs scripts-visible methods for a host Go type T via a
// generics-based foreign-type registration over an arbitrary host value.
// methods maps a script-facing method name to a Go function taking the
// receiver and the call's remaining arguments.
func RegisterType[T any](in *Interp, typeName string, methods map[string]func(in *Interp, recv *T, args []*Obj) Result) {
	in.foreignTypes[typeName] = &foreignTypeInfo{name: typeName}
	for methodName, fn := range methods {
		cmdName := typeName + "." + methodName
		localFn := fn
		in.cmds.registerForeign(cmdName, func(in *Interp, name string, args []*Obj) outcome {
			if len(args) < 1 {
				return errorf("wrong # args: should be \"%s recv ?arg ...?\"", cmdName)
			}
			ft, ok := args[0].InternalRep().(*ForeignType)
			if !ok || ft.TypeName != typeName {
				return errorf("expected value of type %q", typeName)
			}
			recv, ok := ft.Value.(*T)
			if !ok {
				return errorf("internal type mismatch for %q", typeName)
			}
			return localFn(in, recv, args[1:]).toOutcome()
		})
	}
}

// NewForeignObj wraps a host value as a Value of the given type name, for
// returning host objects (file handles, DB connections, ...) into script
// space.
func NewForeignObj(typeName string, value any) *Obj {
	return &Obj{rep: &ForeignType{TypeName: typeName, Value: value}}
}

// ForeignValue extracts the host value wrapped by NewForeignObj/RegisterType,
// type-asserting to T. ok is false if o doesn't wrap a T.
func ForeignValue[T any](o *Obj) (*T, bool) {
	ft, isForeign := o.InternalRep().(*ForeignType)
	if !isForeign {
		return nil, false
	}
	v, ok := ft.Value.(*T)
	return v, ok
}
