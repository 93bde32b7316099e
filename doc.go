// Package quill implements an embeddable, Tcl-flavored scripting language
// for Go applications: a command interpreter with lists, dicts, procs,
// namespaces and an expression evaluator, built as a pure Go engine rather
// than a cgo binding.
//
// # Quick Start
//
//	in := quill.New(quill.Config{})
//
//	result, err := in.Eval("expr {2 + 2}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.String()) // "4"
//
//	in.Register("env", os.Getenv)
//	result, _ = in.Eval(`env HOME`)
//	fmt.Println(result.String())
//
// # Thread Safety
//
// An [*Interp] is NOT safe for concurrent use from multiple goroutines.
// Each goroutine that needs to evaluate scripts must have its own
// interpreter:
//
//	go func() {
//	    in := quill.New(quill.Config{})
//	    in.Eval("...")
//	}()
//
// An [*Obj] caches typed forms on access (AsInt, AsList, String and the
// other accessors write to it), so sharing one [*Obj] between goroutines
// needs external synchronisation, like the [*Interp] itself.
//
// # Supported Commands
//
// quill implements a substantial, feature-gated subset of Tcl 8.6. Control
// flow: if, while, for, foreach, switch, break, continue, return. Procedures
// and evaluation: proc, apply, eval, uplevel, upvar, catch, try, throw,
// error, subst. Variables and namespaces: set, unset, incr, append, global,
// variable, namespace, rename. Lists: list, llength, lindex, lrange,
// lappend, lset, linsert, lreplace, lsort, lsearch, split, join, concat.
// Dictionaries: dict, gated behind [Features.Dict]. Strings: the string
// command and its subcommands, gated behind [Features.StringCommand].
// Introspection: info. Interchange: json, clock. Math functions are
// available inside expr via [registerExprFuncs].
//
// # Error Handling
//
// Errors from [Interp.Eval] satisfy the standard error interface; the
// concrete type is always *EvalError, recursion-limit and cancellation
// failures included. Go code that answers with a [Result] (an
// [UnknownHandler], or a method registered with [RegisterType]) reports
// errors by building it with [Error], [Errorf] or [ErrorCode]:
//
//	in.SetUnknownHandler(func(in *quill.Interp, name string, args []*quill.Obj) quill.Result {
//	    return quill.Errorf("cannot fail %q", name)
//	})
//
// Functions registered with [Interp.Register] report errors through their
// own trailing error return value, converted automatically:
//
//	in.Register("readfile", func(path string) (string, error) {
//	    data, err := os.ReadFile(path)
//	    return string(data), err
//	})
//
// Scripts observe both forms the same way, with catch or try:
//
//	if {[catch {readfile /nonexistent} errmsg]} {
//	    set report "Error: $errmsg"
//	}
//
// # The Obj Type System
//
// Script values are represented by [*Obj]. Each Obj carries a canonical
// string form and, optionally, a cached internal representation managed
// through the [ObjType] interface. Conversion between the two happens
// lazily through "shimmering": asking for a value as an integer parses the
// string and caches the result; asking for the string again regenerates it
// from the cached form only if the string was never computed.
//
// Use the As* functions, or the equivalent [*Obj] methods, to read typed
// values:
//
//	n, err := quill.AsInt(obj)
//	f, err := quill.AsDouble(obj)
//	b, err := quill.AsBool(obj)
//	list, err := quill.AsList(obj)
//	dict, err := quill.AsDict(obj)
//
// AsList and AsDict use a cached list or dict form when present (or one
// convertible through [IntoList]/[IntoDict]) and otherwise parse the string
// image, splitting on ASCII whitespace. The interpreter exposes the same
// parsing; [Interp.ParseList] also honours [Features.UnicodeWhitespace]:
//
//	items, err := in.ParseList("a b {c d}")
//	d, err := in.ParseDict("name Alice")
//
// # Custom Object Types
//
// Implement [ObjType] to add a type that participates in shimmering: useful
// when a Go value is expensive to reparse from its string form and should
// be cached across repeated access.
//
//	type ObjType interface {
//	    Name() string
//	    UpdateString() string
//	    Dup() ObjType
//	}
//
// A type that also implements [IntoInt], [IntoDouble], [IntoBool],
// [IntoList] or [IntoDict] participates in the matching coercion
// (AsInt/AsDouble/...) without a string round trip.
//
// # Foreign Objects
//
// For exposing Go structs with methods to scripts, use [RegisterType] and
// [NewForeignObj]. Unlike ObjType, which is about caching a parsed form,
// foreign objects behave as opaque handles dispatched to "TypeName.method"
// commands:
//
//	quill.RegisterType[DB](in, "DB", map[string]func(*quill.Interp, *DB, []*quill.Obj) quill.Result{
//	    "exec": func(in *quill.Interp, db *DB, args []*quill.Obj) quill.Result {
//	        _, err := db.conn.Exec(args[0].String())
//	        if err != nil {
//	            return quill.Error(err.Error())
//	        }
//	        return quill.OK(quill.NewStringObj(""))
//	    },
//	})
//
//	handle := quill.NewForeignObj("DB", &DB{conn: conn})
//	in.SetVar("db", handle)
//
// # Registering Commands
//
// For simple functions, [Interp.Register] wraps an arbitrary Go function
// via reflection with automatic argument conversion:
//
//	in.Register("upper", strings.ToUpper)
//	in.Register("sum", func(nums ...int) int {
//	    total := 0
//	    for _, n := range nums {
//	        total += n
//	    }
//	    return total
//	})
//
// For full control over argument handling and the ability to return
// Break/Continue/Return-style outcomes, use [Interp.RegisterCommand]
// directly with a [CommandFunc]. A CommandFunc returns the package's
// unexported outcome type, so such functions can only be written inside
// package quill.
//
// # Configuration
//
// [Config] controls which language features are active ([Features]) and
// runtime limits ([Limits]), including the recursion depth beyond which
// evaluation fails with RecursionError's message. [LoadConfig] decodes a Config from YAML for embedders
// that keep interpreter settings alongside the rest of their application
// configuration.
//
// # Cancellation
//
// [Interp.Cancel] requests that an in-progress or future Eval stop at the
// next command boundary; [Interp.WithContext] ties the same behavior to a
// context.Context's cancellation.
package quill
