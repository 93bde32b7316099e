package quill

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// registerRegexpBuiltins installs `regexp` and `regsub`. Both compile their
// pattern through github.com/dlclark/regexp2 so backreferences and
// lookaround behave the way Tcl's ARE-flavored regexp engine does, the
// same library switchMatches uses for `switch -regexp` and `lsearch
// -regexp`.
func registerRegexpBuiltins(in *Interp) {
	in.cmds.register("regexp", cmdRegexp)
	in.cmds.register("regsub", cmdRegsub)
}

// cmdRegexp implements `regexp ?-nocase? ?-all? exp string ?matchVar
// ?subMatchVar ...??`. Without a matchVar it returns 1/0 for whether exp
// matched; with one or more var names it stores the whole match and
// capture groups, leaving unmatched optional groups as the empty string.
func cmdRegexp(in *Interp, name string, args []*Obj) outcome {
	nocase := false
	all := false
	i := 0
	for i < len(args) {
		switch args[i].String() {
		case "-nocase":
			nocase = true
			i++
		case "-all":
			all = true
			i++
		case "--":
			i++
		default:
			goto parsed
		}
	}
parsed:
	if len(args)-i < 2 {
		return errorf("wrong # args: should be \"regexp ?switches? exp string ?matchVar ?subMatchVar ...??\"")
	}
	pattern := args[i].String()
	text := args[i+1].String()
	vars := args[i+2:]

	opts := regexp2.RE2
	if nocase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}

	if all && len(vars) == 0 {
		count := 0
		m, err := re.FindStringMatch(text)
		for err == nil && m != nil {
			count++
			m, err = re.FindNextMatch(m)
		}
		return ok(NewIntObj(int64(count)))
	}

	m, err := re.FindStringMatch(text)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	if m == nil {
		for _, v := range vars {
			if err := setScalar(in.frames, in.curFrameIndex(), v.String(), emptyObj); err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
		}
		return ok(NewIntObj(0))
	}
	groups := m.Groups()
	for vi, v := range vars {
		var val string
		if vi < len(groups) && len(groups[vi].Captures) > 0 {
			val = groups[vi].String()
		}
		if err := setScalar(in.frames, in.curFrameIndex(), v.String(), NewStringObj(val)); err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	return ok(NewIntObj(1))
}

// cmdRegsub implements `regsub ?-all? ?-nocase? exp string subSpec
// ?varName?`. subSpec may reference capture groups with \1..\9, following
// Tcl's substitution syntax rather than Go's $1 form.
func cmdRegsub(in *Interp, name string, args []*Obj) outcome {
	all := false
	nocase := false
	i := 0
	for i < len(args) {
		switch args[i].String() {
		case "-all":
			all = true
			i++
		case "-nocase":
			nocase = true
			i++
		case "--":
			i++
		default:
			goto parsed
		}
	}
parsed:
	if len(args)-i < 3 {
		return errorf("wrong # args: should be \"regsub ?switches? exp string subSpec ?varName?\"")
	}
	pattern := args[i].String()
	text := args[i+1].String()
	subSpec := tclSubSpecToGo(args[i+2].String())
	var varName string
	if len(args) > i+3 {
		varName = args[i+3].String()
	}

	opts := regexp2.RE2
	if nocase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}

	count := 0
	limit := 1
	if all {
		limit = -1
	}
	out, err := re.ReplaceFunc(text, func(m regexp2.Match) string {
		count++
		return expandGoTemplate(subSpec, m)
	}, 0, limit)
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}

	if varName == "" {
		return ok(NewStringObj(out))
	}
	if err := setScalar(in.frames, in.curFrameIndex(), varName, NewStringObj(out)); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(NewIntObj(int64(count)))
}

// tclSubSpecToGo rewrites Tcl's \N backreference syntax and literal & (whole
// match) into Go template form ($N / $0) so expandGoTemplate can resolve it
// against a regexp2.Match.
func tclSubSpecToGo(spec string) string {
	var b strings.Builder
	for i := 0; i < len(spec); i++ {
		c := spec[i]
		switch {
		case c == '&':
			b.WriteString("${0}")
		case c == '\\' && i+1 < len(spec) && spec[i+1] >= '0' && spec[i+1] <= '9':
			b.WriteString("${")
			b.WriteByte(spec[i+1])
			b.WriteString("}")
			i++
		case c == '\\' && i+1 < len(spec) && (spec[i+1] == '&' || spec[i+1] == '\\'):
			b.WriteByte(spec[i+1])
			i++
		case c == '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func expandGoTemplate(tmpl string, m regexp2.Match) string {
	var b strings.Builder
	groups := m.Groups()
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '$' && i+1 < len(tmpl) {
			switch {
			case tmpl[i+1] == '$':
				b.WriteByte('$')
				i++
				continue
			case tmpl[i+1] == '{':
				end := strings.IndexByte(tmpl[i+2:], '}')
				if end >= 0 {
					idxStr := tmpl[i+2 : i+2+end]
					idx := 0
					for _, c := range idxStr {
						if c < '0' || c > '9' {
							idx = -1
							break
						}
						idx = idx*10 + int(c-'0')
					}
					if idx >= 0 && idx < len(groups) {
						b.WriteString(groups[idx].String())
					}
					i += 2 + end
					continue
				}
			}
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}
