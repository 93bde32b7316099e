package quill

import (
	"math"
	"strconv"
	"strings"
)

// AsInt returns the integer value of o: the cached integer form if
// present, otherwise the string image is parsed (accepting decimal, 0x,
// 0o, 0b) and the parsed form is cached on success. Parsing never caches
// on failure.
func AsInt(o *Obj) (int64, error) {
	if o == nil {
		return 0, parseErrorf("expected integer but got empty string")
	}
	if ii, ok := o.rep.(IntoInt); ok {
		if v, ok := ii.IntoInt(); ok {
			return v, nil
		}
	}
	v, err := parseIntLiteral(o.String())
	if err != nil {
		return 0, err
	}
	o.rep = IntType(v)
	return v, nil
}

// AsDouble returns the float64 value of o, shimmering from the string
// image if no float (or int) form is cached. It never checks the float
// feature: that gate applies only to float literals in the expression
// evaluator, not to the core Value conversions, which are reusable
// regardless of which Interp (if any) is evaluating.
func AsDouble(o *Obj) (float64, error) {
	if o == nil {
		return 0, parseErrorf("expected floating-point number but got empty string")
	}
	if id, ok := o.rep.(IntoDouble); ok {
		if v, ok := id.IntoDouble(); ok {
			return v, nil
		}
	}
	v, err := parseFloatLiteral(o.String())
	if err != nil {
		return 0, err
	}
	o.rep = DoubleType(v)
	return v, nil
}

// AsBool returns the boolean value of o using TCL boolean rules: an
// integer's truthiness is its non-zero-ness; otherwise the string image is
// matched case-insensitively against the canonical true/false spellings.
func AsBool(o *Obj) (bool, error) {
	if o == nil {
		return false, nil
	}
	if ib, ok := o.rep.(IntoBool); ok {
		if v, ok := ib.IntoBool(); ok {
			return v, nil
		}
	}
	s := strings.ToLower(o.String())
	switch s {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	if n, err := parseIntLiteral(o.String()); err == nil {
		return n != 0, nil
	}
	return false, parseErrorf("expected boolean value but got %q", o.String())
}

// AsList returns the list elements of o, shimmering
// from the string image (parsed as a Quill list) if no list form is
// cached.
func AsList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	if il, ok := o.rep.(IntoList); ok {
		if v, ok := il.IntoList(); ok {
			return v, nil
		}
	}
	items, err := parseListString(o.String())
	if err != nil {
		return nil, err
	}
	l := ListType(items)
	o.rep = &l
	return items, nil
}

// AsDict returns the dict representation of o, shimmering from the string
// image (parsed as an even-length Quill list) if no dict form is cached.
func AsDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: map[string]*Obj{}}, nil
	}
	if id, ok := o.rep.(IntoDict); ok {
		if items, order, ok := id.IntoDict(); ok {
			return &DictType{Items: items, Order: order}, nil
		}
	}
	elems, err := parseListString(o.String())
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, parseErrorf("missing value to go with key")
	}
	order := make([]string, 0, len(elems)/2)
	items := make(map[string]*Obj, len(elems)/2)
	for i := 0; i+1 < len(elems); i += 2 {
		k := elems[i].String()
		if _, seen := items[k]; !seen {
			order = append(order, k)
		}
		items[k] = elems[i+1]
	}
	dt := &DictType{Items: items, Order: order}
	o.rep = dt
	return dt, nil
}

// parseIntLiteral accepts the grammar
// [+-]?(0x[0-9a-fA-F]+ | 0o[0-7]+ | 0b[01]+ | [0-9]+).
func parseIntLiteral(s string) (int64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, parseErrorf("expected integer but got %q", s)
	}
	neg := false
	if t[0] == '+' || t[0] == '-' {
		neg = t[0] == '-'
		t = t[1:]
	}
	var v int64
	var err error
	switch {
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		v, err = strconv.ParseInt(t[2:], 16, 64)
	case strings.HasPrefix(t, "0o") || strings.HasPrefix(t, "0O"):
		v, err = strconv.ParseInt(t[2:], 8, 64)
	case strings.HasPrefix(t, "0b") || strings.HasPrefix(t, "0B"):
		v, err = strconv.ParseInt(t[2:], 2, 64)
	default:
		v, err = strconv.ParseInt(t, 10, 64)
	}
	if err != nil {
		return 0, parseErrorf("expected integer but got %q", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseFloatLiteral accepts the standard decimal float grammar with
// optional exponent, and Inf/NaN case-insensitively.
func parseFloatLiteral(s string) (float64, error) {
	t := strings.TrimSpace(s)
	switch strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(t, "+"), "-")) {
	case "inf", "infinity":
		if strings.HasPrefix(t, "-") {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, parseErrorf("expected floating-point number but got %q", s)
	}
	return v, nil
}
