package quill

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/rangetable"
	"golang.org/x/text/width"
)

// identRuneTable is the merged Letter+Number range table that backs
// unicode-alphanum identifier scanning, built once via rangetable.Merge
// rather than checking unicode.IsLetter/unicode.IsDigit separately.
var identRuneTable = rangetable.Merge(unicode.Letter, unicode.Number)

// unicodePolicy captures the compile-time-style feature toggles that
// affect lexing: unicode-whitespace, unicode-alphanum, and unicode-case.
// Unlike a real compile-time flag, Quill exposes these
// as per-Interp Config fields so one Go binary can embed interpreters with
// different policies (e.g. an ASCII-only sandboxed one next to a
// Unicode-aware one).
type unicodePolicy struct {
	unicodeWhitespace bool
	unicodeAlphanum   bool
	unicodeCase       bool

	caser cases.Caser
}

func newUnicodePolicy(cfg Config) *unicodePolicy {
	p := &unicodePolicy{
		unicodeWhitespace: cfg.Features.UnicodeWhitespace,
		unicodeAlphanum:   cfg.Features.UnicodeAlphanum,
		unicodeCase:       cfg.Features.UnicodeCase,
	}
	if p.unicodeCase {
		p.caser = cases.Fold()
	}
	return p
}

// isIdentRune reports whether r counts as a letter-or-digit identifier rune
// under unicode-alphanum. Fullwidth/halfwidth forms (common in scripts
// pasted from CJK input methods, e.g. the fullwidth digits U+FF10-FF19) are
// folded to their narrow equivalent via golang.org/x/text/width before the
// table lookup, so "ｘ１" scans as a single identifier the same way "x1"
// does.
func (p *unicodePolicy) isIdentRune(r rune) bool {
	if props := width.LookupRune(r); props.Kind() == width.EastAsianFullwidth || props.Kind() == width.EastAsianHalfwidth {
		if folded := props.Folded(); folded != 0 {
			r = folded
		}
	}
	return unicode.Is(identRuneTable, r)
}

// toUpper/toLower implement `string toupper`/`string tolower` (strcmds.go):
// simple ASCII case mapping unless unicode-case is
// enabled, in which case golang.org/x/text/cases does full Unicode case
// folding (e.g. German ß, Turkish dotless i families).
func (p *unicodePolicy) toUpper(s string) string {
	if p.unicodeCase {
		return cases.Upper(language.Und).String(s)
	}
	return asciiUpper(s)
}

func (p *unicodePolicy) toLower(s string) string {
	if p.unicodeCase {
		return cases.Lower(language.Und).String(s)
	}
	return asciiLower(s)
}

// fold maps s to a canonical case-insensitive form for `-nocase` comparisons
// (string compare/equal/match/map). Unlike toLower, it uses cases.Fold,
// which is built for matching rather than display — it collapses cases like
// German ß/ss that toLower alone doesn't unify.
func (p *unicodePolicy) fold(s string) string {
	if p.unicodeCase {
		return p.caser.String(s)
	}
	return asciiLower(s)
}

func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
