package quill

import "fmt"

// Obj is a Quill value: a reference-shared datum with a canonical string
// image and an optional cached typed form ("shimmering"). At most one typed
// form is cached at a time, and whenever one is present it must agree with
// the string image (re-parsing the string yields an equal typed form).
//
// Obj is never mutated in a way visible to a second holder: operations that
// look like mutation (lappend, dict set, ...) build a new *Obj instead.
// Lifetime is managed by Go's garbage collector, not manual reference
// counting — see DESIGN.md, Open Question OQ-1.
type Obj struct {
	bytes string  // canonical string image; computed lazily from rep if empty and rep != nil
	rep   ObjType // cached typed form, nil for a pure string
}

// ObjType is a cached internal representation of an Obj.
type ObjType interface {
	// Name returns the type name reported by Obj.Type (e.g. "int", "list").
	Name() string

	// UpdateString regenerates the canonical string image from this rep.
	UpdateString() string

	// Dup returns a copy of this rep, safe to embed in a new Obj that may
	// be mutated independently of the original.
	Dup() ObjType
}

// IntoInt is implemented by ObjTypes with a direct integer reading.
type IntoInt interface {
	IntoInt() (int64, bool)
}

// IntoDouble is implemented by ObjTypes with a direct float reading.
type IntoDouble interface {
	IntoDouble() (float64, bool)
}

// IntoList is implemented by ObjTypes with a direct list reading.
type IntoList interface {
	IntoList() ([]*Obj, bool)
}

// IntoDict is implemented by ObjTypes with a direct dict reading.
type IntoDict interface {
	IntoDict() (map[string]*Obj, []string, bool)
}

// IntoBool is implemented by ObjTypes with a direct boolean reading.
type IntoBool interface {
	IntoBool() (bool, bool)
}

// NewStringObj creates a pure string value with no cached typed form.
func NewStringObj(s string) *Obj {
	return &Obj{bytes: s}
}

// NewIntObj creates an integer value with the integer form pre-cached.
func NewIntObj(v int64) *Obj {
	return &Obj{rep: IntType(v)}
}

// NewDoubleObj creates a floating-point value with the float form pre-cached.
func NewDoubleObj(v float64) *Obj {
	return &Obj{rep: DoubleType(v)}
}

// NewListObj creates a list value from the given items, with the list form
// pre-cached.
func NewListObj(items ...*Obj) *Obj {
	l := make(ListType, len(items))
	copy(l, items)
	return &Obj{rep: &l}
}

// NewDictObj creates an empty dict value with the dict form pre-cached.
func NewDictObj() *Obj {
	return &Obj{rep: &DictType{Items: map[string]*Obj{}}}
}

// String returns the canonical string image, computing and caching it from
// the typed form if necessary. String never fails: every ObjType must be
// able to regenerate a string image.
func (o *Obj) String() string {
	if o == nil {
		return ""
	}
	if o.bytes == "" && o.rep != nil {
		o.bytes = o.rep.UpdateString()
	}
	return o.bytes
}

// Type reports the object's native type name: "string" for a pure string,
// or the cached ObjType's Name() otherwise.
func (o *Obj) Type() string {
	if o == nil || o.rep == nil {
		return "string"
	}
	return o.rep.Name()
}

// InternalRep returns the cached typed form, or nil for a pure string.
// Type-assert to access a specific ObjType implementation, including a
// custom one registered via RegisterType.
func (o *Obj) InternalRep() ObjType {
	if o == nil {
		return nil
	}
	return o.rep
}

// invalidate drops the cached string image after rep has been mutated
// in place (only safe on a rep this Obj exclusively owns — see Copy).
func (o *Obj) invalidate() {
	if o != nil {
		o.bytes = ""
	}
}

// Copy returns a shallow copy of o. If o carries a cached typed form, the
// form is duplicated via Dup so the copy can be mutated independently.
func (o *Obj) Copy() *Obj {
	if o == nil {
		return nil
	}
	if o.rep == nil {
		return &Obj{bytes: o.bytes}
	}
	return &Obj{bytes: o.bytes, rep: o.rep.Dup()}
}

// Int returns the integer value of o, shimmering from the string image if
// no integer form is cached yet.
func (o *Obj) Int() (int64, error) { return AsInt(o) }

// Double returns the float64 value of o, shimmering if needed.
func (o *Obj) Double() (float64, error) { return AsDouble(o) }

// Bool returns the boolean value of o using TCL boolean rules.
func (o *Obj) Bool() (bool, error) { return AsBool(o) }

// List returns the list elements of o, shimmering from the string image
// (parsed as a Quill list) if no list form is cached yet.
func (o *Obj) List() ([]*Obj, error) { return AsList(o) }

// Dict returns the dict representation of o, shimmering from the string
// image (parsed as a Quill dict) if no dict form is cached yet.
func (o *Obj) Dict() (*DictType, error) { return AsDict(o) }

// ObjEqual reports whether a and b have the same canonical string image,
// which is how Quill values compare for equality.
func ObjEqual(a, b *Obj) bool {
	return a.String() == b.String()
}

// Object is satisfied by anything with a canonical string image; *Obj is
// the only implementation shipped, kept as an interface so host code can
// accept either a live *Obj or a value that merely stringifies like one.
type Object interface {
	String() string
}

var _ fmt.Stringer = (*Obj)(nil)
