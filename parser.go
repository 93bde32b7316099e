package quill

import "strings"

// fragmentKind distinguishes the three substitution kinds a word fragment
// can hold.
type fragmentKind int

const (
	fragLiteral fragmentKind = iota
	fragVarRef
	fragCmdSubst
)

// fragment is one piece of a word: either a literal run of text (already
// backslash-unescaped), a variable reference, or a nested command
// substitution. The evaluator materializes a word by concatenating its
// fragments' values at use time — there is no AST beyond this shallow,
// lazily-substituted token stream.
type fragment struct {
	kind fragmentKind

	lit string // fragLiteral

	varName     string // fragVarRef
	varHasIndex bool
	varIndexRaw string // fragVarRef array index, substituted via subst() at use time

	script string // fragCmdSubst: raw nested script text
}

// word is one command argument: a sequence of fragments, plus whether it
// was prefixed with the `{*}` expansion marker.
type word struct {
	frags  []fragment
	expand bool
}

// parsedCommand is one command within a script: its words and the source
// line it started on (for stack traces).
type parsedCommand struct {
	words []word
	line  int
	src   string // raw source text of the command, for stack traces
}

// parseScript splits script into its top-level commands:
// commands separated by ';' or newline, words separated by inline
// whitespace, '#' as a comment only where a command is expected.
func parseScript(script string, policy *unicodePolicy) ([]parsedCommand, error) {
	c := newCursor(script)
	var cmds []parsedCommand
	for {
		skipCommandSeparators(c)
		if c.eof() {
			break
		}
		if c.peek() == '#' {
			skipComment(c)
			continue
		}
		line := c.line
		start := c.pos
		words, err := parseWords(c, policy)
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			src := strings.TrimRight(c.s[start:c.pos], " \t")
			cmds = append(cmds, parsedCommand{words: words, line: line, src: src})
		}
	}
	return cmds, nil
}

func skipCommandSeparators(c *cursor) {
	for !c.eof() {
		b := c.peek()
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ';' {
			c.advance()
			continue
		}
		if b == '\\' && c.peekAt(1) == '\n' {
			c.advance()
			c.advance()
			continue
		}
		break
	}
}

func skipComment(c *cursor) {
	for !c.eof() {
		if c.peek() == '\\' && c.peekAt(1) != 0 {
			c.advance()
			c.advance()
			continue
		}
		if c.peek() == '\n' {
			return
		}
		c.advance()
	}
}

// parseWords reads the words of a single command, stopping at an
// unescaped ';' or '\n', or EOF.
func parseWords(c *cursor, policy *unicodePolicy) ([]word, error) {
	var words []word
	for {
		skipInlineSpace(c)
		if c.eof() || isCommandEnd(c) {
			break
		}
		w, err := parseWord(c, policy)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func isCommandEnd(c *cursor) bool {
	b := c.peek()
	return b == ';' || b == '\n'
}

func skipInlineSpace(c *cursor) {
	for !c.eof() {
		b := c.peek()
		if b == ' ' || b == '\t' {
			c.advance()
			continue
		}
		if b == '\\' && c.peekAt(1) == '\n' {
			c.advance()
			c.advance()
			for !c.eof() && (c.peek() == ' ' || c.peek() == '\t') {
				c.advance()
			}
			continue
		}
		break
	}
}

// parseWord scans one word at the cursor: a leading `{*}` expansion
// marker, then exactly one of a braced group, a quoted group, or a bare
// run of substitution-bearing text.
func parseWord(c *cursor, policy *unicodePolicy) (word, error) {
	expand := false
	if c.peek() == '{' && c.peekAt(1) == '*' && c.peekAt(2) == '}' {
		c.pos += 3
		expand = true
	}
	switch c.peek() {
	case '{':
		content, err := scanBracedWord(c)
		if err != nil {
			return word{}, err
		}
		return word{frags: []fragment{{kind: fragLiteral, lit: content}}, expand: expand}, nil
	case '"':
		frags, err := parseQuotedWord(c, policy)
		if err != nil {
			return word{}, err
		}
		return word{frags: frags, expand: expand}, nil
	default:
		frags, err := parseBareWord(c, policy)
		if err != nil {
			return word{}, err
		}
		return word{frags: frags, expand: expand}, nil
	}
}

func parseQuotedWord(c *cursor, policy *unicodePolicy) ([]fragment, error) {
	start := c.pos
	c.advance() // consume opening quote
	frags, err := scanSubstFragments(c, policy, func(b byte) bool { return b == '"' })
	if err != nil {
		return nil, err
	}
	if c.eof() {
		return nil, parseErrorf("unmatched open quote in command, starting at byte %d", start)
	}
	c.advance() // consume closing quote
	return frags, nil
}

func parseBareWord(c *cursor, policy *unicodePolicy) ([]fragment, error) {
	return scanSubstFragments(c, policy, func(b byte) bool {
		return b == ' ' || b == '\t' || b == '\n' || b == ';' || b == 0
	})
}

// scanSubstFragments scans fragments until stop(b) is true for the current
// byte (or EOF), handling backslash escapes, $ variable references, and
// [ ] command substitution.
func scanSubstFragments(c *cursor, policy *unicodePolicy, stop func(byte) bool) ([]fragment, error) {
	var frags []fragment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, fragment{kind: fragLiteral, lit: lit.String()})
			lit.Reset()
		}
	}
	for {
		if c.eof() || stop(c.peek()) {
			break
		}
		b := c.peek()
		switch {
		case b == '\\':
			repl, n := decodeEscape(c.rest())
			lit.WriteString(repl)
			c.pos += n
		case b == '$':
			start := c.pos
			frag, consumed, err := scanVarRefFragment(c, policy)
			if err != nil {
				return nil, err
			}
			if !consumed {
				c.pos = start + 1
				lit.WriteByte('$')
				continue
			}
			flush()
			frags = append(frags, frag)
		case b == '[':
			start := c.pos
			if err := skipBracketGroup(c); err != nil {
				return nil, err
			}
			flush()
			frags = append(frags, fragment{kind: fragCmdSubst, script: c.s[start+1 : c.pos-1]})
		default:
			lit.WriteByte(b)
			c.advance()
		}
	}
	flush()
	return frags, nil
}

// scanVarRefFragment scans a $name, $name(index), or ${name} reference
// starting at c.peek() == '$'. consumed is false if '$' was not actually
// followed by a valid reference (bare '$' with nothing after it, or
// followed by a character that can't start an identifier), in which case
// the caller treats '$' as a literal character.
func scanVarRefFragment(c *cursor, policy *unicodePolicy) (fragment, bool, error) {
	c.advance() // consume '$'
	if c.peek() == '{' {
		c.advance()
		start := c.pos
		for !c.eof() && c.peek() != '}' {
			c.advance()
		}
		if c.eof() {
			return fragment{}, false, parseErrorf("missing close-brace for variable name")
		}
		name := c.s[start:c.pos]
		c.advance() // consume '}'
		return fragment{kind: fragVarRef, varName: name}, true, nil
	}
	name := scanIdent(c, policy)
	if name == "" {
		return fragment{}, false, nil
	}
	if c.peek() == '(' {
		c.advance()
		start := c.pos
		for !c.eof() && c.peek() != ')' {
			if c.peek() == '[' {
				if err := skipBracketGroup(c); err != nil {
					return fragment{}, false, err
				}
				continue
			}
			if c.peek() == '\\' && c.peekAt(1) != 0 {
				c.advance()
			}
			c.advance()
		}
		if c.eof() {
			return fragment{}, false, parseErrorf("missing close-paren for array index of %q", name)
		}
		idx := c.s[start:c.pos]
		c.advance() // consume ')'
		return fragment{kind: fragVarRef, varName: name, varHasIndex: true, varIndexRaw: idx}, true, nil
	}
	return fragment{kind: fragVarRef, varName: name}, true, nil
}

// skipBraceGroup advances c past a balanced {...} group starting at '{'.
// Content is verbatim: backslash only affects brace-balance counting, per
// the same rule scanBracedWord uses for list parsing.
func skipBraceGroup(c *cursor) error {
	start := c.pos
	c.advance()
	depth := 1
	for {
		if c.eof() {
			return parseErrorf("unmatched open brace, starting at byte %d", start)
		}
		b := c.peek()
		if b == '\\' && c.peekAt(1) != 0 {
			c.advance()
			c.advance()
			continue
		}
		if b == '{' {
			depth++
		} else if b == '}' {
			depth--
			if depth == 0 {
				c.advance()
				return nil
			}
		}
		c.advance()
	}
}

// skipQuoteGroup advances c past a balanced "..." group starting at '"',
// recursing into nested [ ] command-substitution spans (which may in turn
// contain further quotes) via skipBracketGroup.
func skipQuoteGroup(c *cursor) error {
	start := c.pos
	c.advance()
	for {
		if c.eof() {
			return parseErrorf("unmatched open quote, starting at byte %d", start)
		}
		b := c.peek()
		switch b {
		case '\\':
			c.advance()
			if !c.eof() {
				c.advance()
			}
		case '[':
			if err := skipBracketGroup(c); err != nil {
				return err
			}
		case '"':
			c.advance()
			return nil
		default:
			c.advance()
		}
	}
}

// skipBracketGroup advances c past a balanced [...] command-substitution
// span starting at '[', treating the contents as a nested script: brace
// groups and quote groups inside are skipped as units so an embedded ']'
// inside them does not end the substitution early.
func skipBracketGroup(c *cursor) error {
	start := c.pos
	c.advance()
	depth := 1
	for {
		if c.eof() {
			return parseErrorf("unmatched open bracket, starting at byte %d", start)
		}
		b := c.peek()
		switch b {
		case '\\':
			c.advance()
			if !c.eof() {
				c.advance()
			}
		case '{':
			if err := skipBraceGroup(c); err != nil {
				return err
			}
		case '"':
			if err := skipQuoteGroup(c); err != nil {
				return err
			}
		case '[':
			depth++
			c.advance()
		case ']':
			depth--
			c.advance()
			if depth == 0 {
				return nil
			}
		default:
			c.advance()
		}
	}
}
