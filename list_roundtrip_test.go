package quill

import "testing"

func TestListFormatParseRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"a"},
		{"a", "b", "c"},
		{"has space", "plain", ""},
		{"brace{d", "back\\slash"},
		{"unicode café", "emoji 🎉"},
	}
	for _, elems := range cases {
		objs := make([]*Obj, len(elems))
		for i, e := range elems {
			objs[i] = NewStringObj(e)
		}
		formatted := formatList(objs)
		parsed, err := parseListString(formatted)
		if err != nil {
			t.Fatalf("parseListString(%q): %v", formatted, err)
		}
		if len(parsed) != len(elems) {
			t.Fatalf("round-trip %v -> %q -> got %d elems, want %d", elems, formatted, len(parsed), len(elems))
		}
		for i, p := range parsed {
			if p.String() != elems[i] {
				t.Errorf("round-trip %v -> %q -> elem %d = %q, want %q", elems, formatted, i, p.String(), elems[i])
			}
		}
	}
}

func TestExprPrecedence(t *testing.T) {
	cases := map[string]string{
		"expr {2 + 3 * 4}":        "14",
		"expr {(2 + 3) * 4}":      "20",
		"expr {2 ** 3 ** 2}":      "512", // right-associative: 2**(3**2)
		"expr {1 && 0 || 1}":      "1",
		"expr {10 > 5 && 3 < 4}":  "1",
		"expr {5 == 5.0}":         "1",
		"expr {\"ab\" eq \"ab\"}": "1",
	}
	for script, want := range cases {
		if got := evalString(t, script); got != want {
			t.Errorf("%s = %q, want %q", script, got, want)
		}
	}
}
