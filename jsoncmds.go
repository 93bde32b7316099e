package quill

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// registerJSONBuiltins installs the `json` command, used for interchange
// with host systems that speak JSON rather than Quill's native list/dict
// forms. Reading uses github.com/tidwall/gjson; writing uses its sibling
// github.com/tidwall/sjson, so round-tripping stays within one library
// pair.
func registerJSONBuiltins(in *Interp) {
	in.cmds.register("json", cmdJSON)
}

func cmdJSON(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"json subcommand ?arg ...?\"")
	}
	switch args[0].String() {
	case "decode":
		if len(args) != 2 {
			return errorf("wrong # args: should be \"json decode jsonText\"")
		}
		text := args[1].String()
		if !gjson.Valid(text) {
			return errorf("invalid JSON text")
		}
		return ok(jsonToObj(gjson.Parse(text)))
	case "get":
		if len(args) != 3 {
			return errorf("wrong # args: should be \"json get jsonText path\"")
		}
		res := gjson.Get(args[1].String(), args[2].String())
		if !res.Exists() {
			return errorf("path %q not found in JSON text", args[2].String())
		}
		return ok(jsonToObj(res))
	case "set":
		if len(args) != 4 {
			return errorf("wrong # args: should be \"json set jsonText path value\"")
		}
		out, err := sjson.Set(args[1].String(), args[2].String(), args[3].String())
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(NewStringObj(out))
	case "encode":
		if len(args) != 2 {
			return errorf("wrong # args: should be \"json encode value\"")
		}
		return ok(NewStringObj(objToJSON(args[1])))
	default:
		return errorf("unknown json subcommand %q", args[0].String())
	}
}

func jsonToObj(r gjson.Result) *Obj {
	switch {
	case r.IsArray():
		items := r.Array()
		out := make([]*Obj, len(items))
		for i, it := range items {
			out[i] = jsonToObj(it)
		}
		return NewListObj(out...)
	case r.IsObject():
		d := NewDictObj()
		r.ForEach(func(key, value gjson.Result) bool {
			ObjDictSet(d, key.String(), jsonToObj(value))
			return true
		})
		return d
	case r.Type == gjson.Null:
		return NewStringObj("")
	default:
		return NewStringObj(r.String())
	}
}

// objToJSON renders a Value as JSON text, treating it as a dict if it has
// a cached dict form, a list if it has a cached list form, otherwise as a
// JSON string.
func objToJSON(o *Obj) string {
	if d, ok := o.rep.(*DictType); ok {
		out := "{}"
		var err error
		for _, k := range d.Order {
			out, err = sjson.Set(out, k, jsonLeaf(d.Items[k]))
			if err != nil {
				return "{}"
			}
		}
		return out
	}
	if items, ok := o.rep.(IntoList); ok {
		if list, isList := items.IntoList(); isList {
			out := "[]"
			for i, it := range list {
				var err error
				out, err = sjson.Set(out, itoa(i), jsonLeaf(it))
				if err != nil {
					return "[]"
				}
			}
			return out
		}
	}
	return jsonQuote(o.String())
}

func jsonLeaf(o *Obj) any {
	if n, err := AsInt(o); err == nil {
		return n
	}
	if f, err := AsDouble(o); err == nil {
		return f
	}
	return o.String()
}

func jsonQuote(s string) string {
	out, _ := sjson.Set("{}", "v", s)
	res := gjson.Get(out, "v")
	return res.Raw
}
