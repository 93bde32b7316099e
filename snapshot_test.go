package quill

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScriptSnapshots runs a handful of representative scripts end to end
// and snapshots their formatted result, the same role go-snaps plays in the
// teacher's fixture-driven test suite but scaled down to script literals
// instead of an external fixture corpus.
func TestScriptSnapshots(t *testing.T) {
	scripts := map[string]string{
		"list_building": `
set people {}
foreach name {alice bob carol} {
    lappend people $name
}
join $people ", "
`,
		"dict_roundtrip": `
set d [dict create name quill version 1]
dict set d tags {fast embeddable}
dict get $d tags
`,
		"nested_command_subst": `
proc double {n} { expr {$n * 2} }
set results {}
foreach n {1 2 3} {
    lappend results [double $n]
}
set results
`,
		"switch_glob": `
set out {}
foreach word {apple banana cherry} {
    switch -glob -- $word {
        a* { lappend out fruit-a }
        b* { lappend out fruit-b }
        default { lappend out other }
    }
}
set out
`,
	}

	for name, script := range scripts {
		t.Run(name, func(t *testing.T) {
			in := New(Config{})
			result, err := in.Eval(script)
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			snaps.MatchSnapshot(t, result.String())
		})
	}
}
