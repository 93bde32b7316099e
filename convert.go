package quill

import (
	"fmt"
	"reflect"
)

// Register wraps an arbitrary Go function as a command via reflection.
// fn's signature is free-form: each parameter is converted from a *Obj
// using AsInt/AsDouble/AsBool/AsList/string as appropriate, and fn may
// optionally take *Interp as its first parameter to reach the calling
// interpreter. Return values become the command's result (a trailing error
// return ends the call as a ScriptError instead).
func (in *Interp) Register(name string, fn any) {
	in.cmds.register(name, wrapFunc(fn))
}

func wrapFunc(fn any) CommandFunc {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("quill.Register: %v is not a function", t))
	}
	wantsInterp := t.NumIn() > 0 && t.In(0) == reflect.TypeOf((*Interp)(nil))
	return func(in *Interp, name string, args []*Obj) outcome {
		nargs := t.NumIn()
		fixed := nargs
		if wantsInterp {
			fixed--
		}
		variadic := t.IsVariadic()
		if variadic {
			fixed--
		}
		if (!variadic && len(args) != fixed) || (variadic && len(args) < fixed) {
			return errorf("wrong # args calling %q: expected %d, got %d", name, fixed, len(args))
		}
		callArgs := make([]reflect.Value, 0, nargs)
		if wantsInterp {
			callArgs = append(callArgs, reflect.ValueOf(in))
		}
		start := 0
		if wantsInterp {
			start = 1
		}
		ai := 0
		for i := start; i < nargs; i++ {
			if variadic && i == nargs-1 {
				elemType := t.In(i).Elem()
				for ; ai < len(args); ai++ {
					cv, err := convertArg(args[ai], elemType)
					if err != nil {
						return errOutcome(newScriptError(err.Error()))
					}
					callArgs = append(callArgs, cv)
				}
				continue
			}
			cv, err := convertArg(args[ai], t.In(i))
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			callArgs = append(callArgs, cv)
			ai++
		}
		results := v.Call(callArgs)
		return processResults(results)
	}
}

// convertArg converts a script Obj to the Go type a registered function
// parameter expects.
func convertArg(o *Obj, pt reflect.Type) (reflect.Value, error) {
	if pt == reflect.TypeOf((*Obj)(nil)) {
		return reflect.ValueOf(o), nil
	}
	switch pt.Kind() {
	case reflect.String:
		return reflect.ValueOf(o.String()).Convert(pt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := AsInt(o)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(pt), nil
	case reflect.Float32, reflect.Float64:
		f, err := AsDouble(o)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(pt), nil
	case reflect.Bool:
		b, err := AsBool(o)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	case reflect.Slice:
		if pt.Elem().Kind() == reflect.String {
			items, err := AsList(o)
			if err != nil {
				return reflect.Value{}, err
			}
			out := make([]string, len(items))
			for i, it := range items {
				out[i] = it.String()
			}
			return reflect.ValueOf(out), nil
		}
		items, err := AsList(o)
		if err != nil {
			return reflect.Value{}, err
		}
		slice := reflect.MakeSlice(pt, len(items), len(items))
		for i, it := range items {
			cv, err := convertArg(it, pt.Elem())
			if err != nil {
				return reflect.Value{}, parseErrorf("element %d: %v", i, err)
			}
			slice.Index(i).Set(cv)
		}
		return slice, nil
	case reflect.Interface:
		if pt.NumMethod() == 0 {
			return reflect.ValueOf(any(o.String())), nil
		}
	}
	return reflect.Value{}, parseErrorf("can't convert value %q to %s", o.String(), pt)
}

// processResults converts a Go function's return values into a command
// outcome. A trailing error return ends the call with a ScriptError; a
// single non-error return converts to an Obj via toObj; multiple values
// (minus a trailing error) become a list.
func processResults(results []reflect.Value) outcome {
	if len(results) == 0 {
		return ok(emptyObj)
	}
	last := results[len(results)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		if !last.IsNil() {
			return errOutcome(newScriptError(last.Interface().(error).Error()))
		}
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return ok(emptyObj)
	}
	if len(results) == 1 {
		return ok(toObj(results[0]))
	}
	items := make([]*Obj, len(results))
	for i, r := range results {
		items[i] = toObj(r)
	}
	return ok(NewListObj(items...))
}

func toObj(v reflect.Value) *Obj {
	if v.Type() == reflect.TypeOf((*Obj)(nil)) {
		o, _ := v.Interface().(*Obj)
		if o == nil {
			return emptyObj
		}
		return o
	}
	switch v.Kind() {
	case reflect.String:
		return NewStringObj(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewIntObj(v.Int())
	case reflect.Float32, reflect.Float64:
		return NewDoubleObj(v.Float())
	case reflect.Bool:
		return NewIntObj(boolToInt(v.Bool()))
	case reflect.Slice:
		items := make([]*Obj, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = toObj(v.Index(i))
		}
		return NewListObj(items...)
	case reflect.Map:
		d := NewDictObj()
		iter := v.MapRange()
		for iter.Next() {
			ObjDictSet(d, fmt.Sprintf("%v", iter.Key().Interface()), toObj(iter.Value()))
		}
		return d
	}
	if !v.IsValid() {
		return emptyObj
	}
	return NewStringObj(fmt.Sprintf("%v", v.Interface()))
}
