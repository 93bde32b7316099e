package quill

func registerDictBuiltins(in *Interp) {
	if !in.cfg.Features.Dict {
		return
	}
	in.cmds.register("dict", cmdDict)
}

func cmdDict(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"dict subcommand ?arg ...?\"")
	}
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "create":
		d := NewDictObj()
		for i := 0; i+1 < len(rest); i += 2 {
			ObjDictSet(d, rest[i].String(), rest[i+1])
		}
		return ok(d)
	case "get":
		if len(rest) < 1 {
			return errorf("wrong # args: should be \"dict get dictionary ?key ...?\"")
		}
		d, err := AsDict(rest[0])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		cur := d
		var v *Obj
		for i, k := range rest[1:] {
			got, found := cur.Get(k.String())
			if !found {
				return errorf("key %q not known in dictionary", k.String())
			}
			v = got
			if i < len(rest[1:])-1 {
				cur, err = AsDict(got)
				if err != nil {
					return errOutcome(newScriptError(err.Error()))
				}
			}
		}
		if v == nil {
			return ok(dictToObj(d))
		}
		return ok(v)
	case "exists":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"dict exists dictionary key ?key ...?\"")
		}
		d, err := AsDict(rest[0])
		if err != nil {
			return ok(NewIntObj(0))
		}
		cur := d
		for i, k := range rest[1:] {
			got, found := cur.Get(k.String())
			if !found {
				return ok(NewIntObj(0))
			}
			if i < len(rest[1:])-1 {
				cur, err = AsDict(got)
				if err != nil {
					return ok(NewIntObj(0))
				}
			}
		}
		return ok(NewIntObj(1))
	case "set":
		if len(rest) < 3 {
			return errorf("wrong # args: should be \"dict set varName key ?key ...? value\"")
		}
		varName := rest[0].String()
		cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
		var d *DictType
		if err == nil {
			d, err = AsDict(cur)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
		} else {
			d = &DictType{Items: map[string]*Obj{}}
		}
		keys := rest[1 : len(rest)-1]
		value := rest[len(rest)-1]
		nd := dictSetPath(d, keys, value)
		v := dictToObj(nd)
		if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(v)
	case "unset":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"dict unset varName key ?key ...?\"")
		}
		varName := rest[0].String()
		cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		d, err := AsDict(cur)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		nd := d.Unset(rest[1].String())
		v := dictToObj(nd)
		if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(v)
	case "keys":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"dict keys dictionary\"")
		}
		d, err := AsDict(rest[0])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		out := make([]*Obj, 0, len(d.Order))
		for _, k := range d.Order {
			out = append(out, NewStringObj(k))
		}
		return ok(NewListObj(out...))
	case "values":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"dict values dictionary\"")
		}
		d, err := AsDict(rest[0])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		out := make([]*Obj, 0, len(d.Order))
		for _, k := range d.Order {
			out = append(out, d.Items[k])
		}
		return ok(NewListObj(out...))
	case "size":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"dict size dictionary\"")
		}
		d, err := AsDict(rest[0])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(NewIntObj(int64(len(d.Order))))
	case "for":
		if len(rest) != 3 {
			return errorf("wrong # args: should be \"dict for {keyVar valueVar} dictionary body\"")
		}
		kv, err := AsList(rest[0])
		if err != nil || len(kv) != 2 {
			return errorf("must have exactly two variable names")
		}
		d, err := AsDict(rest[1])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		body := rest[2]
		for _, k := range d.Order {
			setScalar(in.frames, in.curFrameIndex(), kv[0].String(), NewStringObj(k))
			setScalar(in.frames, in.curFrameIndex(), kv[1].String(), d.Items[k])
			o := in.runBody(body)
			switch o.code {
			case outBreak:
				return ok(emptyObj)
			case outContinue, outOK:
			default:
				return o
			}
		}
		return ok(emptyObj)
	case "merge":
		out := &DictType{Items: map[string]*Obj{}}
		for _, a := range rest {
			d, err := AsDict(a)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			for _, k := range d.Order {
				out = out.Set(k, d.Items[k])
			}
		}
		return ok(dictToObj(out))
	case "append":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"dict append varName key ?value ...?\"")
		}
		varName := rest[0].String()
		cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
		var d *DictType
		if err == nil {
			d, err = AsDict(cur)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
		} else {
			d = &DictType{Items: map[string]*Obj{}}
		}
		key := rest[1].String()
		existing, _ := d.Get(key)
		text := ""
		if existing != nil {
			text = existing.String()
		}
		for _, v := range rest[2:] {
			text += v.String()
		}
		nd := d.Set(key, NewStringObj(text))
		v := dictToObj(nd)
		if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(v)
	default:
		return errorf("unknown or ambiguous subcommand %q: must be append, create, exists, for, get, keys, merge, set, size, unset, or values", sub)
	}
}

func dictSetPath(d *DictType, keys []*Obj, value *Obj) *DictType {
	if len(keys) == 0 {
		return d
	}
	k := keys[0].String()
	if len(keys) == 1 {
		return d.Set(k, value)
	}
	inner, found := d.Get(k)
	var innerDict *DictType
	if found {
		innerDict, _ = AsDict(inner)
	}
	if innerDict == nil {
		innerDict = &DictType{Items: map[string]*Obj{}}
	}
	return d.Set(k, dictToObj(dictSetPath(innerDict, keys[1:], value)))
}

func dictToObj(d *DictType) *Obj {
	return &Obj{rep: d}
}
