package quill

import lru "github.com/hashicorp/golang-lru/v2"

// scriptCacheSize / exprCacheSize bound the memoization tables: a script
// text that's evaluated many times (a loop body, a hot proc) shouldn't pay
// the tokenizing cost on every pass. Parsed commands and parsed expression
// tokens are cached keyed by their exact source text, evicted LRU once the
// table fills.
const (
	defaultScriptCacheSize = 256
	defaultExprCacheSize   = 256
)

// parseCache memoizes parseScript/tokenizeExpr results keyed by source
// text. Both caches are bounded so a script that generates unboundedly many
// distinct command/expr strings (e.g. building them via string
// concatenation in a loop) can't grow them without limit.
type parseCache struct {
	scripts *lru.Cache[string, []parsedCommand]
	exprs   *lru.Cache[string, []exprToken]
}

func newParseCache() *parseCache {
	scripts, err := lru.New[string, []parsedCommand](defaultScriptCacheSize)
	if err != nil {
		panic(err)
	}
	exprs, err := lru.New[string, []exprToken](defaultExprCacheSize)
	if err != nil {
		panic(err)
	}
	return &parseCache{scripts: scripts, exprs: exprs}
}

func (c *parseCache) parseScript(src string, policy *unicodePolicy) ([]parsedCommand, error) {
	if cmds, ok := c.scripts.Get(src); ok {
		return cmds, nil
	}
	cmds, err := parseScript(src, policy)
	if err != nil {
		return nil, err
	}
	c.scripts.Add(src, cmds)
	return cmds, nil
}

func (c *parseCache) tokenizeExpr(src string, policy *unicodePolicy) ([]exprToken, error) {
	if toks, ok := c.exprs.Get(src); ok {
		return toks, nil
	}
	toks, err := tokenizeExpr(src, policy)
	if err != nil {
		return nil, err
	}
	c.exprs.Add(src, toks)
	return toks, nil
}
