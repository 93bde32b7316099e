package quill

import (
	"math"
	"strconv"
)

// DoubleType is the internal representation for floating-point values.
// Float literals in expr need the float feature (see Config.Features);
// AsDouble and the float math functions produce it regardless. IntoInt
// reports no direct integer reading, so AsInt parses the string image.
type DoubleType float64

func (t DoubleType) Name() string { return "double" }
func (t DoubleType) Dup() ObjType { return t }

func (t DoubleType) UpdateString() string {
	f := float64(t)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// TCL floats always carry a visible decimal point or exponent, so "3"
	// (from `double 3`) keeps shimmering back as "3.0", not "3" (which
	// would parse back as an int).
	hasDot := false
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == 'E' || s[i] == 'n' || s[i] == 'N' {
			hasDot = true
			break
		}
	}
	if !hasDot {
		s += ".0"
	}
	return s
}

func (t DoubleType) IntoInt() (int64, bool)      { return int64(t), false }
func (t DoubleType) IntoDouble() (float64, bool) { return float64(t), true }
func (t DoubleType) IntoBool() (bool, bool)      { return t != 0, true }
