package quill

import "fmt"

// ForeignType is the internal representation for a foreign (host Go) value
// exposed to scripts via RegisterType. The string image is a handle name
// like "<Counter>" (the type name only); the live Go value is reached
// through Value.
type ForeignType struct {
	TypeName string
	Value    any
}

func (t *ForeignType) Name() string { return t.TypeName }
func (t *ForeignType) Dup() ObjType { return t }

func (t *ForeignType) UpdateString() string {
	return fmt.Sprintf("<%s>", t.TypeName)
}
