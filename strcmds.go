package quill

import (
	"strconv"
	"strings"

	"github.com/becheran/wildmatch-go"
	"github.com/dlclark/regexp2"
)

func registerStringBuiltins(in *Interp) {
	if !in.cfg.Features.StringCommand {
		return
	}
	in.cmds.register("string", cmdString)
	in.cmds.register("append", cmdAppend)
	in.cmds.register("format", cmdFormat)
	in.cmds.register("incr", cmdIncr)
}

// switchMatches implements the three comparison modes shared by `switch`
// and `lsearch`: exact string equality, glob matching (via
// github.com/becheran/wildmatch-go), and ARE-flavored regular expressions
// (via github.com/dlclark/regexp2, which supports the backreferences and
// lookaround Tcl's regexp engine allows and Go's native regexp/syntax does
// not).
func switchMatches(mode, pattern, value string) (bool, error) {
	switch mode {
	case "exact":
		return pattern == value, nil
	case "glob":
		return wildmatch.NewWildMatch(pattern).IsMatch(value), nil
	case "regexp":
		re, err := regexp2.Compile(pattern, 0)
		if err != nil {
			return false, parseErrorf("invalid regular expression %q: %v", pattern, err)
		}
		return re.MatchString(value)
	default:
		return pattern == value, nil
	}
}

func cmdString(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"string subcommand ?arg ...?\"")
	}
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "length":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"string length string\"")
		}
		return ok(NewIntObj(int64(len([]rune(rest[0].String())))))
	case "index":
		if len(rest) != 2 {
			return errorf("wrong # args: should be \"string index string charIndex\"")
		}
		r := []rune(rest[0].String())
		idx, ok2 := listIndex(rest[1].String(), len(r))
		if !ok2 || idx < 0 || idx >= len(r) {
			return ok(emptyObj)
		}
		return ok(NewStringObj(string(r[idx])))
	case "range":
		if len(rest) != 3 {
			return errorf("wrong # args: should be \"string range string first last\"")
		}
		r := []rune(rest[0].String())
		first, ok1 := listIndex(rest[1].String(), len(r))
		last, ok2 := listIndex(rest[2].String(), len(r))
		if !ok1 || !ok2 {
			return errorf("bad index in string range")
		}
		if first < 0 {
			first = 0
		}
		if last >= len(r) {
			last = len(r) - 1
		}
		if first > last {
			return ok(NewStringObj(""))
		}
		return ok(NewStringObj(string(r[first : last+1])))
	case "toupper":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"string toupper string\"")
		}
		return ok(NewStringObj(in.policy.toUpper(rest[0].String())))
	case "tolower":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"string tolower string\"")
		}
		return ok(NewStringObj(in.policy.toLower(rest[0].String())))
	case "trim":
		if len(rest) < 1 {
			return errorf("wrong # args: should be \"string trim string ?chars?\"")
		}
		chars := " \t\n\r"
		if len(rest) == 2 {
			chars = rest[1].String()
		}
		return ok(NewStringObj(strings.Trim(rest[0].String(), chars)))
	case "trimleft":
		chars := " \t\n\r"
		if len(rest) == 2 {
			chars = rest[1].String()
		}
		return ok(NewStringObj(strings.TrimLeft(rest[0].String(), chars)))
	case "trimright":
		chars := " \t\n\r"
		if len(rest) == 2 {
			chars = rest[1].String()
		}
		return ok(NewStringObj(strings.TrimRight(rest[0].String(), chars)))
	case "repeat":
		if len(rest) != 2 {
			return errorf("wrong # args: should be \"string repeat string count\"")
		}
		n, err := AsInt(rest[1])
		if err != nil || n < 0 {
			return errorf("expected non-negative integer but got %q", rest[1].String())
		}
		return ok(NewStringObj(strings.Repeat(rest[0].String(), int(n))))
	case "reverse":
		if len(rest) != 1 {
			return errorf("wrong # args: should be \"string reverse string\"")
		}
		r := []rune(rest[0].String())
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return ok(NewStringObj(string(r)))
	case "first":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"string first needle haystack ?startIndex?\"")
		}
		idx := strings.Index(rest[1].String(), rest[0].String())
		return ok(NewIntObj(int64(idx)))
	case "last":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"string last needle haystack ?lastIndex?\"")
		}
		idx := strings.LastIndex(rest[1].String(), rest[0].String())
		return ok(NewIntObj(int64(idx)))
	case "match":
		if len(rest) < 2 {
			return errorf("wrong # args: should be \"string match ?-nocase? pattern string\"")
		}
		pattern, value := rest[0].String(), rest[1].String()
		nocase := false
		if len(rest) == 3 && rest[0].String() == "-nocase" {
			nocase = true
			pattern, value = rest[1].String(), rest[2].String()
		}
		if nocase {
			pattern, value = in.policy.fold(pattern), in.policy.fold(value)
		}
		m := wildmatch.NewWildMatch(pattern).IsMatch(value)
		return ok(NewIntObj(boolToInt(m)))
	case "compare", "equal":
		return stringCompareOrEqual(in.policy, sub, rest)
	case "cat":
		var b strings.Builder
		for _, a := range rest {
			b.WriteString(a.String())
		}
		return ok(NewStringObj(b.String()))
	case "is":
		return stringIs(rest)
	case "map":
		return stringMap(in.policy, rest)
	case "replace":
		if len(rest) < 3 {
			return errorf("wrong # args: should be \"string replace string first last ?newstring?\"")
		}
		r := []rune(rest[0].String())
		first, ok1 := listIndex(rest[1].String(), len(r))
		last, ok2 := listIndex(rest[2].String(), len(r))
		if !ok1 || !ok2 {
			return errorf("bad index in string replace")
		}
		if first < 0 {
			first = 0
		}
		if last >= len(r) {
			last = len(r) - 1
		}
		repl := ""
		if len(rest) == 4 {
			repl = rest[3].String()
		}
		if first > last {
			return ok(NewStringObj(string(r)))
		}
		out := string(r[:first]) + repl + string(r[last+1:])
		return ok(NewStringObj(out))
	default:
		return errorf("unknown or ambiguous subcommand %q", sub)
	}
}

// stringCompareOrEqual implements `string compare`/`string equal`, both
// accepting `-nocase` and `-length N` (negative N meaning "no limit",
// DESIGN.md Open Question OQ-2).
func stringCompareOrEqual(policy *unicodePolicy, sub string, rest []*Obj) outcome {
	nocase := false
	length := -1
	i := 0
	for i < len(rest)-2 {
		switch rest[i].String() {
		case "-nocase":
			nocase = true
			i++
		case "-length":
			if i+1 >= len(rest)-2 {
				return errorf("missing value for -length")
			}
			n, err := AsInt(rest[i+1])
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			length = int(n)
			i += 2
		default:
			return errorf("bad option %q", rest[i].String())
		}
	}
	if len(rest)-i != 2 {
		return errorf("wrong # args for string %s", sub)
	}
	a, b := rest[i].String(), rest[i+1].String()
	if length >= 0 {
		a = truncateRunes(a, length)
		b = truncateRunes(b, length)
	}
	if nocase {
		a, b = policy.fold(a), policy.fold(b)
	}
	if sub == "equal" {
		return ok(NewIntObj(boolToInt(a == b)))
	}
	switch {
	case a < b:
		return ok(NewIntObj(-1))
	case a > b:
		return ok(NewIntObj(1))
	default:
		return ok(NewIntObj(0))
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[:n])
}

func stringIs(rest []*Obj) outcome {
	if len(rest) < 2 {
		return errorf("wrong # args: should be \"string is class string\"")
	}
	class := rest[0].String()
	s := rest[len(rest)-1].String()
	var good bool
	switch class {
	case "integer":
		_, err := parseIntLiteral(s)
		good = err == nil || s == ""
	case "double":
		_, err := parseFloatLiteral(s)
		good = err == nil || s == ""
	case "alpha":
		good = s != "" && strings.IndexFunc(s, func(r rune) bool { return !isAlphaRune(r) }) == -1
	case "alnum":
		good = s != "" && strings.IndexFunc(s, func(r rune) bool { return !isAlphaRune(r) && !isDigitRune(r) }) == -1
	case "digit":
		good = s != "" && strings.IndexFunc(s, func(r rune) bool { return !isDigitRune(r) }) == -1
	case "space":
		good = strings.IndexFunc(s, func(r rune) bool { return r != ' ' && r != '\t' && r != '\n' && r != '\r' }) == -1
	case "upper":
		good = s != "" && s == strings.ToUpper(s)
	case "lower":
		good = s != "" && s == strings.ToLower(s)
	case "boolean":
		switch strings.ToLower(s) {
		case "1", "0", "true", "false", "yes", "no", "on", "off", "":
			good = true
		}
	case "list":
		_, err := parseListString(s)
		good = err == nil
	default:
		return errorf("unknown class %q", class)
	}
	return ok(NewIntObj(boolToInt(good)))
}

// stringMap implements `string map ?-nocase? mapPairs string`: mapPairs is
// an even-length list of from/to pairs, scanned left to right against the
// input and tried in list order at each position so earlier pairs take
// priority over later, overlapping ones (matching Tcl's documented
// behavior, not just longest-match-wins).
func stringMap(policy *unicodePolicy, rest []*Obj) outcome {
	if len(rest) < 2 || len(rest) > 3 {
		return errorf("wrong # args: should be \"string map ?-nocase? mapping string\"")
	}
	nocase := false
	if len(rest) == 3 {
		if rest[0].String() != "-nocase" {
			return errorf("bad option %q: must be -nocase", rest[0].String())
		}
		nocase = true
		rest = rest[1:]
	}
	pairs, err := AsList(rest[0])
	if err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	if len(pairs)%2 != 0 {
		return errorf("char map list unbalanced")
	}
	s := rest[1].String()
	var b strings.Builder
	for i := 0; i < len(s); {
		matched := false
		for p := 0; p+1 < len(pairs); p += 2 {
			from := pairs[p].String()
			if from == "" {
				continue
			}
			haystack := s[i:]
			if nocase {
				if len(haystack) >= len(from) && policy.fold(haystack[:len(from)]) == policy.fold(from) {
					b.WriteString(pairs[p+1].String())
					i += len(from)
					matched = true
					break
				}
				continue
			}
			if strings.HasPrefix(haystack, from) {
				b.WriteString(pairs[p+1].String())
				i += len(from)
				matched = true
				break
			}
		}
		if !matched {
			r, size := decodeRuneAt(s, i)
			b.WriteRune(r)
			i += size
		}
	}
	return ok(NewStringObj(b.String()))
}

func isAlphaRune(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func cmdAppend(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"append varName ?value ...?\"")
	}
	varName := args[0].String()
	cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
	text := ""
	if err == nil {
		text = cur.String()
	}
	for _, a := range args[1:] {
		text += a.String()
	}
	v := NewStringObj(text)
	if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(v)
}

func cmdIncr(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 || len(args) > 2 {
		return errorf("wrong # args: should be \"incr varName ?increment?\"")
	}
	varName := args[0].String()
	delta := int64(1)
	if len(args) == 2 {
		d, err := AsInt(args[1])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		delta = d
	}
	cur, err := getScalar(in.frames, in.curFrameIndex(), varName)
	var n int64
	if err == nil {
		n, err = AsInt(cur)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
	}
	v := NewIntObj(n + delta)
	if err := setScalar(in.frames, in.curFrameIndex(), varName, v); err != nil {
		return errOutcome(newScriptError(err.Error()))
	}
	return ok(v)
}

// cmdFormat implements a pragmatic subset of `format`: %s %d %x %o %f %%
// and a numeric field width, enough for the common log/report-building
// use the spec's end-to-end scenarios exercise.
func cmdFormat(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"format formatString ?arg ...?\"")
	}
	f := args[0].String()
	rest := args[1:]
	var b strings.Builder
	ai := 0
	for i := 0; i < len(f); i++ {
		if f[i] != '%' {
			b.WriteByte(f[i])
			continue
		}
		i++
		if i >= len(f) {
			break
		}
		if f[i] == '%' {
			b.WriteByte('%')
			continue
		}
		start := i
		for i < len(f) && (f[i] == '-' || f[i] == '0' || isDigitByte(f[i])) {
			i++
		}
		if i >= len(f) {
			break
		}
		width := f[start:i]
		verb := f[i]
		var arg *Obj
		if ai < len(rest) {
			arg = rest[ai]
			ai++
		} else {
			arg = emptyObj
		}
		switch verb {
		case 's':
			b.WriteString(padField(arg.String(), width))
		case 'd':
			n, err := AsInt(arg)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			b.WriteString(padField(itoa(int(n)), width))
		case 'x':
			n, err := AsInt(arg)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			b.WriteString(padField(hexString(n), width))
		case 'o':
			n, err := AsInt(arg)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			b.WriteString(padField(strconv.FormatInt(n, 8), width))
		case 'f':
			fv, err := AsDouble(arg)
			if err != nil {
				return errOutcome(newScriptError(err.Error()))
			}
			b.WriteString(padField(floatString(fv), width))
		default:
			b.WriteByte('%')
			b.WriteByte(verb)
		}
	}
	return ok(NewStringObj(b.String()))
}

func padField(s, width string) string {
	if width == "" {
		return s
	}
	left := strings.HasPrefix(width, "-")
	w := strings.TrimPrefix(width, "-")
	w = strings.TrimPrefix(w, "0")
	n, err := parseIntLiteral(w)
	if err != nil || int(n) <= len(s) {
		return s
	}
	pad := strings.Repeat(" ", int(n)-len(s))
	if left {
		return s + pad
	}
	return pad + s
}

func hexString(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	const digits = "0123456789abcdef"
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%16]}, buf...)
		n /= 16
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func floatString(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
