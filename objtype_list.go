package quill

// ListType is the internal representation for list values: an ordered
// sequence of Obj elements. Obj.rep holds a *ListType
// so that appends (which build a new slice header, never mutate a shared
// one) still invalidate the *Obj's cached string via a fresh Dup.
type ListType []*Obj

func (t *ListType) Name() string { return "list" }

func (t *ListType) UpdateString() string {
	return formatList(*t)
}

func (t *ListType) Dup() ObjType {
	cp := make(ListType, len(*t))
	copy(cp, *t)
	return &cp
}

func (t *ListType) IntoList() ([]*Obj, bool) {
	return []*Obj(*t), true
}

func (t *ListType) IntoDict() (map[string]*Obj, []string, bool) {
	items := []*Obj(*t)
	if len(items)%2 != 0 {
		return nil, nil, false
	}
	order := make([]string, 0, len(items)/2)
	m := make(map[string]*Obj, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		k := items[i].String()
		if _, seen := m[k]; !seen {
			order = append(order, k)
		}
		m[k] = items[i+1]
	}
	return m, order, true
}
