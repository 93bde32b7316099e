package quill

import "sort"

func registerListBuiltins(in *Interp) {
	in.cmds.register("list", cmdList)
	in.cmds.register("lappend", cmdLappend)
	in.cmds.register("lindex", cmdLindex)
	in.cmds.register("llength", cmdLlength)
	in.cmds.register("lrange", cmdLrange)
	in.cmds.register("lset", cmdLset)
	in.cmds.register("lsort", cmdLsort)
	in.cmds.register("linsert", cmdLinsert)
	in.cmds.register("lreplace", cmdLreplace)
	in.cmds.register("lsearch", cmdLsearch)
	in.cmds.register("concat", cmdConcat)
	in.cmds.register("split", cmdSplit)
	in.cmds.register("join", cmdJoin)
}

func cmdList(in *Interp, name string, args []*Obj) outcome {
	return ok(NewListObj(args...))
}

func cmdLappend(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"lappend varName ?value ...?\"")
	}
	varName := args[0].String()
	cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
	var items []*Obj
	if err == nil {
		items, err = AsList(cur)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	items = append(items, args[1:]...)
	v := NewListObj(items...)
	if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(v)
}

func cmdLindex(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"lindex list ?index ...?\"")
	}
	cur := args[0]
	for _, ia := range args[1:] {
		items, err := AsList(cur)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		idx, ok2 := listIndex(ia.String(), len(items))
		if !ok2 || idx < 0 || idx >= len(items) {
			return ok(emptyObj)
		}
		cur = items[idx]
	}
	return ok(cur)
}

// listIndex parses "N", "end", "end-N", "end+N" index forms.
func listIndex(s string, length int) (int, bool) {
	if s == "end" {
		return length - 1, true
	}
	if len(s) > 4 && s[:4] == "end-" {
		n, err := parseIntLiteral(s[4:])
		if err != nil {
			return 0, false
		}
		return length - 1 - int(n), true
	}
	if len(s) > 4 && s[:4] == "end+" {
		n, err := parseIntLiteral(s[4:])
		if err != nil {
			return 0, false
		}
		return length - 1 + int(n), true
	}
	n, err := parseIntLiteral(s)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func cmdLlength(in *Interp, name string, args []*Obj) outcome {
	if len(args) != 1 {
		return errorf("wrong # args: should be \"llength list\"")
	}
	items, err := AsList(args[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(NewIntObj(int64(len(items))))
}

func cmdLrange(in *Interp, name string, args []*Obj) outcome {
	if len(args) != 3 {
		return errorf("wrong # args: should be \"lrange list first last\"")
	}
	items, err := AsList(args[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	first, ok1 := listIndex(args[1].String(), len(items))
	last, ok2 := listIndex(args[2].String(), len(items))
	if !ok1 || !ok2 {
		return errorf("bad index in lrange")
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > last {
		return ok(NewListObj())
	}
	return ok(NewListObj(items[first : last+1]...))
}

func cmdLset(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 2 {
		return errorf("wrong # args: should be \"lset varName index newValue\"")
	}
	varName := args[0].String()
	cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	items, err := AsList(cur)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	idx, ok2 := listIndex(args[1].String(), len(items))
	if !ok2 || idx < 0 || idx >= len(items) {
		return errorf("list index out of range")
	}
	items = append([]*Obj{}, items...)
	items[idx] = args[len(args)-1]
	v := NewListObj(items...)
	if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(v)
}

func cmdLsort(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"lsort ?options? list\"")
	}
	mode := "ascii"
	decreasing := false
	unique := false
	for i := 0; i < len(args)-1; i++ {
		switch args[i].String() {
		case "-ascii":
			mode = "ascii"
		case "-integer":
			mode = "integer"
		case "-real":
			mode = "real"
		case "-decreasing":
			decreasing = true
		case "-increasing":
			decreasing = false
		case "-unique":
			unique = true
		}
	}
	items, err := AsList(args[len(args)-1])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	sorted := append([]*Obj{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		less := compareObjLess(mode, sorted[i], sorted[j])
		if decreasing {
			return !less && sorted[i].String() != sorted[j].String()
		}
		return less
	})
	if unique {
		var out []*Obj
		for i, it := range sorted {
			if i == 0 || it.String() != sorted[i-1].String() {
				out = append(out, it)
			}
		}
		sorted = out
	}
	return ok(NewListObj(sorted...))
}

func compareObjLess(mode string, a, b *Obj) bool {
	switch mode {
	case "integer":
		ai, errA := AsInt(a)
		bi, errB := AsInt(b)
		if errA == nil && errB == nil {
			return ai < bi
		}
	case "real":
		af, errA := AsDouble(a)
		bf, errB := AsDouble(b)
		if errA == nil && errB == nil {
			return af < bf
		}
	}
	return a.String() < b.String()
}

func cmdLinsert(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 2 {
		return errorf("wrong # args: should be \"linsert list index ?element ...?\"")
	}
	items, err := AsList(args[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	idx, ok2 := listIndex(args[1].String(), len(items))
	if !ok2 {
		return errorf("bad index in linsert")
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(items) {
		idx = len(items)
	}
	out := append([]*Obj{}, items[:idx]...)
	out = append(out, args[2:]...)
	out = append(out, items[idx:]...)
	return ok(NewListObj(out...))
}

func cmdLreplace(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 3 {
		return errorf("wrong # args: should be \"lreplace list first last ?element ...?\"")
	}
	items, err := AsList(args[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	first, ok1 := listIndex(args[1].String(), len(items))
	last, ok2 := listIndex(args[2].String(), len(items))
	if !ok1 || !ok2 {
		return errorf("bad index in lreplace")
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > len(items) {
		first = len(items)
	}
	out := append([]*Obj{}, items[:first]...)
	out = append(out, args[3:]...)
	if last+1 <= len(items) && last >= first {
		out = append(out, items[last+1:]...)
	} else if last < first {
		out = append(out, items[first:]...)
	}
	return ok(NewListObj(out...))
}

func cmdLsearch(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 2 {
		return errorf("wrong # args: should be \"lsearch ?options? list pattern\"")
	}
	mode := "glob"
	all := false
	i := 0
	for i < len(args)-2 {
		switch args[i].String() {
		case "-exact":
			mode = "exact"
		case "-glob":
			mode = "glob"
		case "-regexp":
			mode = "regexp"
		case "-all":
			all = true
		}
		i++
	}
	items, err := AsList(args[len(args)-2])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	pattern := args[len(args)-1].String()
	var matches []*Obj
	for idx, it := range items {
		m, err := switchMatches(mode, pattern, it.String())
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		if m {
			if all {
				matches = append(matches, NewIntObj(int64(idx)))
				continue
			}
			return ok(NewIntObj(int64(idx)))
		}
	}
	if all {
		return ok(NewListObj(matches...))
	}
	return ok(NewIntObj(-1))
}

func cmdConcat(in *Interp, name string, args []*Obj) outcome {
	var out []*Obj
	for _, a := range args {
		items, err := AsList(a)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		out = append(out, items...)
	}
	return ok(NewListObj(out...))
}

func cmdSplit(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 || len(args) > 2 {
		return errorf("wrong # args: should be \"split string ?splitChars?\"")
	}
	s := args[0].String()
	splitChars := " \t\n\r"
	if len(args) == 2 {
		splitChars = args[1].String()
	}
	if splitChars == "" {
		out := make([]*Obj, 0, len(s))
		for _, r := range s {
			out = append(out, NewStringObj(string(r)))
		}
		return ok(NewListObj(out...))
	}
	var out []*Obj
	start := 0
	for i, r := range s {
		for _, sc := range splitChars {
			if r == sc {
				out = append(out, NewStringObj(s[start:i]))
				start = i + len(string(r))
				break
			}
		}
	}
	out = append(out, NewStringObj(s[start:]))
	return ok(NewListObj(out...))
}

func cmdJoin(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 || len(args) > 2 {
		return errorf("wrong # args: should be \"join list ?joinString?\"")
	}
	items, err := AsList(args[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	sep := " "
	if len(args) == 2 {
		sep = args[1].String()
	}
	var b []byte
	for i, it := range items {
		if i > 0 {
			b = append(b, sep...)
		}
		b = append(b, it.String()...)
	}
	return ok(NewStringObj(string(b)))
}
