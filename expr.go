package quill

import (
	"math"
	"strconv"
	"strings"
)

// exprTokenKind is the tag of one expression token. Like
// the script tokenizer, expr never builds a tree: tokenizeExpr produces a
// flat, cacheable token stream, and the Pratt evaluator below walks it
// once, substituting and computing as it goes.
type exprTokenKind int

const (
	tokNum exprTokenKind = iota
	tokStr
	tokVar
	tokCmdSubst
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type exprToken struct {
	kind exprTokenKind

	op      string // tokOp
	numText string // tokNum

	frags []fragment // tokStr: substitution fragments inside the quotes

	varName     string // tokVar
	varHasIndex bool
	varIndexRaw string

	script string // tokCmdSubst

	ident string // tokIdent: function name or bareword operand
}

// tokenizeExpr scans src into a flat token stream.
func tokenizeExpr(src string, policy *unicodePolicy) ([]exprToken, error) {
	c := newCursor(src)
	var toks []exprToken
	for {
		skipExprSpace(c)
		if c.eof() {
			break
		}
		b := c.peek()
		switch {
		case b >= '0' && b <= '9', b == '.' && isDigit(c.peekAt(1)):
			tok, err := scanExprNumber(c)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case b == '"':
			c.advance()
			frags, err := scanSubstFragments(c, policy, func(b byte) bool { return b == '"' })
			if err != nil {
				return nil, err
			}
			if c.eof() {
				return nil, parseErrorf("unmatched open quote in expression")
			}
			c.advance()
			toks = append(toks, exprToken{kind: tokStr, frags: frags})
		case b == '$':
			frag, consumed, err := scanVarRefFragment(c, policy)
			if err != nil {
				return nil, err
			}
			if !consumed {
				return nil, parseErrorf("invalid bareword following \"$\" in expression")
			}
			toks = append(toks, exprToken{kind: tokVar, varName: frag.varName, varHasIndex: frag.varHasIndex, varIndexRaw: frag.varIndexRaw})
		case b == '[':
			start := c.pos
			if err := skipBracketGroup(c); err != nil {
				return nil, err
			}
			toks = append(toks, exprToken{kind: tokCmdSubst, script: c.s[start+1 : c.pos-1]})
		case b == '(':
			c.advance()
			toks = append(toks, exprToken{kind: tokLParen})
		case b == ')':
			c.advance()
			toks = append(toks, exprToken{kind: tokRParen})
		case b == ',':
			c.advance()
			toks = append(toks, exprToken{kind: tokComma})
		case isIdentStart(b):
			ident := scanIdent(c, policy)
			toks = append(toks, exprToken{kind: tokIdent, ident: ident})
		default:
			op, n := scanExprOperator(c)
			if n == 0 {
				return nil, parseErrorf("unexpected character %q in expression", string(rune(b)))
			}
			c.pos += n
			toks = append(toks, exprToken{kind: tokOp, op: op})
		}
	}
	toks = append(toks, exprToken{kind: tokEOF})
	return toks, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func skipExprSpace(c *cursor) {
	for !c.eof() {
		b := c.peek()
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			c.advance()
			continue
		}
		break
	}
}

func scanExprNumber(c *cursor) (exprToken, error) {
	start := c.pos
	if c.peek() == '0' && (c.peekAt(1) == 'x' || c.peekAt(1) == 'X' || c.peekAt(1) == 'o' || c.peekAt(1) == 'O' || c.peekAt(1) == 'b' || c.peekAt(1) == 'B') {
		c.advance()
		c.advance()
		for !c.eof() && isHexDigit(c.peek()) {
			c.advance()
		}
		return exprToken{kind: tokNum, numText: c.s[start:c.pos]}, nil
	}
	for !c.eof() && isDigit(c.peek()) {
		c.advance()
	}
	if c.peek() == '.' {
		c.advance()
		for !c.eof() && isDigit(c.peek()) {
			c.advance()
		}
	}
	if c.peek() == 'e' || c.peek() == 'E' {
		save := c.pos
		c.advance()
		if c.peek() == '+' || c.peek() == '-' {
			c.advance()
		}
		if isDigit(c.peek()) {
			for !c.eof() && isDigit(c.peek()) {
				c.advance()
			}
		} else {
			c.pos = save
		}
	}
	return exprToken{kind: tokNum, numText: c.s[start:c.pos]}, nil
}

// multi-char operators must be tried before their single-char prefixes.
var exprOperators = []string{
	"**", "==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "<", ">", "?", ":",
}

func scanExprOperator(c *cursor) (string, int) {
	rest := c.rest()
	for _, op := range exprOperators {
		if strings.HasPrefix(rest, op) {
			return op, len(op)
		}
	}
	return "", 0
}

// exprFunc is a function callable from expressions (e.g. abs(x), sin(x)).
type exprFunc func(in *Interp, args []*Obj) (*Obj, error)

func registerExprFuncs(in *Interp) {
	in.exprFuncs = map[string]exprFunc{
		"abs":   exprFuncAbs,
		"int":   exprFuncInt,
		"double": exprFuncDouble,
		"round": exprFuncRound,
		"min":   exprFuncMin,
		"max":   exprFuncMax,
		"pow":   exprFuncPow,
		"sqrt":  exprFuncSqrt,
		"floor": exprFuncFloor,
		"ceil":  exprFuncCeil,
	}
}

func exprFuncAbs(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("abs takes 1 argument")
	}
	if i, err := AsInt(args[0]); err == nil {
		if i < 0 {
			i = -i
		}
		return NewIntObj(i), nil
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(math.Abs(f)), nil
}

func exprFuncInt(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("int takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewIntObj(int64(f)), nil
}

func exprFuncDouble(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("double takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(f), nil
}

func exprFuncRound(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("round takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewIntObj(int64(math.Round(f))), nil
}

func exprFuncMin(in *Interp, args []*Obj) (*Obj, error) { return exprFuncMinMax(args, false) }
func exprFuncMax(in *Interp, args []*Obj) (*Obj, error) { return exprFuncMinMax(args, true) }

func exprFuncMinMax(args []*Obj, wantMax bool) (*Obj, error) {
	if len(args) == 0 {
		return nil, parseErrorf("min/max require at least 1 argument")
	}
	best := args[0]
	bestF, err := AsDouble(best)
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		f, err := AsDouble(a)
		if err != nil {
			return nil, err
		}
		if (wantMax && f > bestF) || (!wantMax && f < bestF) {
			best, bestF = a, f
		}
	}
	return best, nil
}

func exprFuncPow(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 2 {
		return nil, parseErrorf("pow takes 2 arguments")
	}
	a, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	b, err := AsDouble(args[1])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(math.Pow(a, b)), nil
}

func exprFuncSqrt(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("sqrt takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(math.Sqrt(f)), nil
}

func exprFuncFloor(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("floor takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(math.Floor(f)), nil
}

func exprFuncCeil(in *Interp, args []*Obj) (*Obj, error) {
	if len(args) != 1 {
		return nil, parseErrorf("ceil takes 1 argument")
	}
	f, err := AsDouble(args[0])
	if err != nil {
		return nil, err
	}
	return NewDoubleObj(math.Ceil(f)), nil
}

// exprEval walks a cached token stream, computing as it goes: no intermediate tree, just precedence-climbing recursive
// descent. skip suppresses side effects (command substitution, variable
// lookup errors) while still advancing through tokens structurally — used
// for the untaken branch of && / || / ?: short-circuiting.
type exprEval struct {
	in   *Interp
	toks []exprToken
	pos  int
}

func (in *Interp) evalExpr(src string) (*Obj, error) {
	toks, err := in.cache.tokenizeExpr(src, in.policy)
	if err != nil {
		return nil, err
	}
	ev := &exprEval{in: in, toks: toks}
	v, err := ev.parseTernary(false)
	if err != nil {
		return nil, err
	}
	if ev.cur().kind != tokEOF {
		return nil, parseErrorf("extra tokens after expression")
	}
	return v, nil
}

func (ev *exprEval) cur() exprToken  { return ev.toks[ev.pos] }
func (ev *exprEval) advance()        { ev.pos++ }

func (ev *exprEval) parseTernary(skip bool) (*Obj, error) {
	cond, err := ev.parseBinary(0, skip)
	if err != nil {
		return nil, err
	}
	if ev.cur().kind == tokOp && ev.cur().op == "?" {
		ev.advance()
		condTrue, err := boolOf(cond, skip)
		if err != nil {
			return nil, err
		}
		thenVal, err := ev.parseTernary(skip || !condTrue)
		if err != nil {
			return nil, err
		}
		if !(ev.cur().kind == tokOp && ev.cur().op == ":") {
			return nil, parseErrorf("expected ':' in ternary expression")
		}
		ev.advance()
		elseVal, err := ev.parseTernary(skip || condTrue)
		if err != nil {
			return nil, err
		}
		if skip {
			return emptyObj, nil
		}
		if condTrue {
			return thenVal, nil
		}
		return elseVal, nil
	}
	return cond, nil
}

// precedence table, lowest to highest.
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "eq": 6, "ne": 6,
	"<": 6, "<=": 6, ">": 6, ">=": 6, "in": 6, "ni": 6,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

func (ev *exprEval) opText() (string, bool) {
	t := ev.cur()
	if t.kind == tokOp {
		if _, ok := binPrec[t.op]; ok {
			return t.op, true
		}
		return "", false
	}
	if t.kind == tokIdent && (t.ident == "eq" || t.ident == "ne" || t.ident == "in" || t.ident == "ni") {
		return t.ident, true
	}
	return "", false
}

func (ev *exprEval) parseBinary(minPrec int, skip bool) (*Obj, error) {
	left, err := ev.parseUnary(skip)
	if err != nil {
		return nil, err
	}
	for {
		op, isOp := ev.opText()
		if !isOp || binPrec[op] < minPrec {
			return left, nil
		}
		prec := binPrec[op]
		shortCircuit := skip
		if !skip {
			if op == "&&" {
				lb, err := boolOf(left, false)
				if err != nil {
					return nil, err
				}
				shortCircuit = !lb
			} else if op == "||" {
				lb, err := boolOf(left, false)
				if err != nil {
					return nil, err
				}
				shortCircuit = lb
			}
		}
		ev.advance()
		rightAssoc := op == "**"
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := ev.parseBinary(nextMin, shortCircuit && (op == "&&" || op == "||"))
		if err != nil {
			return nil, err
		}
		if skip {
			left = emptyObj
			continue
		}
		left, err = applyBinOp(ev.in, op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (ev *exprEval) parseUnary(skip bool) (*Obj, error) {
	t := ev.cur()
	if t.kind == tokOp && (t.op == "-" || t.op == "+" || t.op == "!" || t.op == "~") {
		ev.advance()
		v, err := ev.parseUnary(skip)
		if err != nil {
			return nil, err
		}
		if skip {
			return emptyObj, nil
		}
		return applyUnaryOp(t.op, v)
	}
	return ev.parsePrimary(skip)
}

func (ev *exprEval) parsePrimary(skip bool) (*Obj, error) {
	t := ev.cur()
	switch t.kind {
	case tokNum:
		ev.advance()
		if skip {
			return emptyObj, nil
		}
		v, err := parseNumericLiteral(t.numText)
		if err != nil {
			return nil, err
		}
		if _, isFloat := v.rep.(DoubleType); isFloat && !ev.in.cfg.Features.Float {
			return nil, parseErrorf("floating-point literal %q not allowed: float feature is disabled", t.numText)
		}
		return v, nil
	case tokStr:
		ev.advance()
		if skip {
			return emptyObj, nil
		}
		return ev.in.materializeWord(word{frags: t.frags})
	case tokVar:
		ev.advance()
		if skip {
			return emptyObj, nil
		}
		if t.varHasIndex {
			idx, err := ev.in.Subst(t.varIndexRaw)
			if err != nil {
				return nil, err
			}
			return getArrayElement(ev.in.frames, ev.in.curFrameIndex(), t.varName, idx.String())
		}
		return getScalar(ev.in.frames, ev.in.curFrameIndex(), t.varName)
	case tokCmdSubst:
		ev.advance()
		if skip {
			return emptyObj, nil
		}
		o := ev.in.evalScriptNested(t.script)
		if o.code == outError {
			return nil, evalErrorFrom(o.err)
		}
		return o.value, nil
	case tokIdent:
		name := t.ident
		ev.advance()
		if ev.cur().kind == tokLParen {
			ev.advance()
			var args []*Obj
			for ev.cur().kind != tokRParen {
				v, err := ev.parseTernary(skip)
				if err != nil {
					return nil, err
				}
				args = append(args, v)
				if ev.cur().kind == tokComma {
					ev.advance()
					continue
				}
				break
			}
			if ev.cur().kind != tokRParen {
				return nil, parseErrorf("missing close-paren calling %q", name)
			}
			ev.advance()
			if skip {
				return emptyObj, nil
			}
			fn, ok := ev.in.exprFuncs[name]
			if !ok {
				// name(args) with name not a registered math function: per
				// Tcl's own array-vs-function ambiguity rule, treat it as an
				// array-element reference instead (the lone parsed argument
				// is the element index).
				if len(args) != 1 {
					return nil, parseErrorf("unknown math function %q", name)
				}
				return getArrayElement(ev.in.frames, ev.in.curFrameIndex(), name, args[0].String())
			}
			return fn(ev.in, args)
		}
		if skip {
			return emptyObj, nil
		}
		switch name {
		case "true", "yes", "on":
			return NewIntObj(1), nil
		case "false", "no", "off":
			return NewIntObj(0), nil
		default:
			return NewStringObj(name), nil
		}
	case tokLParen:
		ev.advance()
		v, err := ev.parseTernary(skip)
		if err != nil {
			return nil, err
		}
		if ev.cur().kind != tokRParen {
			return nil, parseErrorf("missing close-paren in expression")
		}
		ev.advance()
		return v, nil
	default:
		return nil, parseErrorf("unexpected token in expression")
	}
}

func parseNumericLiteral(text string) (*Obj, error) {
	if strings.ContainsAny(text, ".eE") && !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, parseErrorf("invalid number %q", text)
		}
		return NewDoubleObj(f), nil
	}
	i, err := parseIntLiteral(text)
	if err != nil {
		return nil, parseErrorf("invalid number %q", text)
	}
	return NewIntObj(i), nil
}

func boolOf(v *Obj, skip bool) (bool, error) {
	if skip {
		return false, nil
	}
	return AsBool(v)
}

func applyUnaryOp(op string, v *Obj) (*Obj, error) {
	switch op {
	case "+":
		return v, nil
	case "!":
		b, err := AsBool(v)
		if err != nil {
			return nil, err
		}
		return NewIntObj(boolToInt(!b)), nil
	case "-":
		if i, err := AsInt(v); err == nil {
			return NewIntObj(-i), nil
		}
		f, err := AsDouble(v)
		if err != nil {
			return nil, err
		}
		return NewDoubleObj(-f), nil
	case "~":
		i, err := AsInt(v)
		if err != nil {
			return nil, err
		}
		return NewIntObj(^i), nil
	}
	return nil, parseErrorf("unknown unary operator %q", op)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func applyBinOp(in *Interp, op string, l, r *Obj) (*Obj, error) {
	switch op {
	case "eq":
		return NewIntObj(boolToInt(l.String() == r.String())), nil
	case "ne":
		return NewIntObj(boolToInt(l.String() != r.String())), nil
	case "in", "ni":
		items, err := AsList(r)
		if err != nil {
			return nil, err
		}
		found := false
		for _, it := range items {
			if it.String() == l.String() {
				found = true
				break
			}
		}
		if op == "ni" {
			found = !found
		}
		return NewIntObj(boolToInt(found)), nil
	case "&&":
		lb, err := AsBool(l)
		if err != nil {
			return nil, err
		}
		if !lb {
			return NewIntObj(0), nil
		}
		rb, err := AsBool(r)
		if err != nil {
			return nil, err
		}
		return NewIntObj(boolToInt(rb)), nil
	case "||":
		lb, err := AsBool(l)
		if err != nil {
			return nil, err
		}
		if lb {
			return NewIntObj(1), nil
		}
		rb, err := AsBool(r)
		if err != nil {
			return nil, err
		}
		return NewIntObj(boolToInt(rb)), nil
	}
	if op == "&" || op == "|" || op == "^" || op == "<<" || op == ">>" {
		li, err := AsInt(l)
		if err != nil {
			return nil, err
		}
		ri, err := AsInt(r)
		if err != nil {
			return nil, err
		}
		switch op {
		case "&":
			return NewIntObj(li & ri), nil
		case "|":
			return NewIntObj(li | ri), nil
		case "^":
			return NewIntObj(li ^ ri), nil
		case "<<":
			return NewIntObj(li << uint(ri)), nil
		case ">>":
			return NewIntObj(li >> uint(ri)), nil
		}
	}
	isFloat := isFloatObj(l) || isFloatObj(r)
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		if isFloat {
			lf, err := AsDouble(l)
			if err != nil {
				return nil, err
			}
			rf, err := AsDouble(r)
			if err != nil {
				return nil, err
			}
			return NewIntObj(boolToInt(compareFloat(op, lf, rf))), nil
		}
		li, err := AsInt(l)
		if err != nil {
			return nil, err
		}
		ri, err := AsInt(r)
		if err != nil {
			return nil, err
		}
		return NewIntObj(boolToInt(compareInt(op, li, ri))), nil
	case "+", "-", "*", "/", "%", "**":
		if isFloat && op != "%" {
			lf, err := AsDouble(l)
			if err != nil {
				return nil, err
			}
			rf, err := AsDouble(r)
			if err != nil {
				return nil, err
			}
			return NewDoubleObj(arithFloat(op, lf, rf)), nil
		}
		li, err := AsInt(l)
		if err != nil {
			return nil, err
		}
		ri, err := AsInt(r)
		if err != nil {
			return nil, err
		}
		if (op == "/" || op == "%") && ri == 0 {
			return nil, parseErrorf("divide by zero")
		}
		v, err := arithInt(op, li, ri, !in.cfg.Features.Int64)
		if err != nil {
			return nil, err
		}
		return NewIntObj(v), nil
	}
	return nil, parseErrorf("unknown operator %q", op)
}

func isFloatObj(o *Obj) bool {
	_, ok := o.rep.(DoubleType)
	if ok {
		return true
	}
	if _, isInt := o.rep.(IntType); isInt {
		return false
	}
	return strings.ContainsAny(o.String(), ".eE") && o.String() != "" && !strings.HasPrefix(o.String(), "0x")
}

func compareFloat(op string, l, r float64) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func compareInt(op string, l, r int64) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func arithFloat(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "**":
		return math.Pow(l, r)
	}
	return 0
}

// arithInt evaluates an integer binary operator. trapOverflow is
// !Features.Int64: when set, +/-/* that overflow signed 64 bits return an
// error instead of wrapping, matching Tcl's classic integer type; the
// default (Features.Int64 on) is native int64 wraparound.
func arithInt(op string, l, r int64, trapOverflow bool) (int64, error) {
	switch op {
	case "+":
		sum, overflow := addChecked(l, r)
		if trapOverflow && overflow {
			return 0, parseErrorf("integer value too large to represent")
		}
		return sum, nil
	case "-":
		diff, overflow := subChecked(l, r)
		if trapOverflow && overflow {
			return 0, parseErrorf("integer value too large to represent")
		}
		return diff, nil
	case "*":
		prod, overflow := mulChecked(l, r)
		if trapOverflow && overflow {
			return 0, parseErrorf("integer value too large to represent")
		}
		return prod, nil
	case "/":
		// Truncates toward zero (Go's native integer division), not Tcl's
		// floor division — modulo below still follows the divisor's sign.
		return l / r, nil
	case "%":
		m := l % r
		if m != 0 && ((l < 0) != (r < 0)) {
			m += r
		}
		return m, nil
	case "**":
		return int64(math.Pow(float64(l), float64(r))), nil
	}
	return 0, nil
}
