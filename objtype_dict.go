package quill

import "strings"

// DictType is the internal representation for dict values: an insertion-
// ordered mapping from string keys to Obj values.
// Equality on keys is by canonical string image, matching Obj equality.
type DictType struct {
	Items map[string]*Obj
	Order []string
}

func (t *DictType) Name() string { return "dict" }

func (t *DictType) Dup() ObjType {
	newItems := make(map[string]*Obj, len(t.Items))
	for k, v := range t.Items {
		newItems[k] = v
	}
	newOrder := make([]string, len(t.Order))
	copy(newOrder, t.Order)
	return &DictType{Items: newItems, Order: newOrder}
}

// UpdateString renders the flat even-length list form `{k1 v1 k2 v2 ...}`
// (without the outer braces, which are only added when a dict is embedded
// as an element of something else).
func (t *DictType) UpdateString() string {
	var b strings.Builder
	for i, key := range t.Order {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatListElement(key))
		b.WriteByte(' ')
		b.WriteString(formatListElement(t.Items[key].String()))
	}
	return b.String()
}

func (t *DictType) IntoDict() (map[string]*Obj, []string, bool) {
	return t.Items, t.Order, true
}

func (t *DictType) IntoList() ([]*Obj, bool) {
	list := make([]*Obj, 0, len(t.Order)*2)
	for _, k := range t.Order {
		list = append(list, NewStringObj(k), t.Items[k])
	}
	return list, true
}

// Get returns the value for key and whether it was present.
func (t *DictType) Get(key string) (*Obj, bool) {
	v, ok := t.Items[key]
	return v, ok
}

// Set returns a new *DictType with key bound to value, preserving
// insertion order (an existing key keeps its original position).
func (t *DictType) Set(key string, value *Obj) *DictType {
	nt := t.Dup().(*DictType)
	if _, exists := nt.Items[key]; !exists {
		nt.Order = append(nt.Order, key)
	}
	nt.Items[key] = value
	return nt
}

// Unset returns a new *DictType with key removed, if present.
func (t *DictType) Unset(key string) *DictType {
	if _, exists := t.Items[key]; !exists {
		return t
	}
	nt := t.Dup().(*DictType)
	delete(nt.Items, key)
	for i, k := range nt.Order {
		if k == key {
			nt.Order = append(nt.Order[:i], nt.Order[i+1:]...)
			break
		}
	}
	return nt
}

// ObjDictSet mutates d in place to bind key to value, creating the dict's
// internal map if needed. This is the one place a DictType is mutated
// rather than copied: d is an Obj freshly created for this purpose by the
// host or a builtin (see Interp.DictKV), not yet shared with script code.
func ObjDictSet(d *Obj, key string, value *Obj) {
	dt, ok := d.rep.(*DictType)
	if !ok {
		dt = &DictType{Items: map[string]*Obj{}}
		d.rep = dt
	}
	if _, exists := dt.Items[key]; !exists {
		dt.Order = append(dt.Order, key)
	}
	dt.Items[key] = value
	d.invalidate()
}
