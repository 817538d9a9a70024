// Package parser turns loam source text into the homoiconic AST defined by
// lang/ast. It is written from scratch rather than adapted from the
// teacher repository's own parser: the teacher parses a Python/Starlark-
// like grammar (indentation, colon-suites, keyword statements) that has
// nothing in common with this language's surface syntax, whereas the
// shape of the parser itself — a struct wrapping a pre-scanned token
// slice with save/restore cursor state for backtracking, one method per
// grammar production, *parser.Error built from a token.Position — follows
// the teacher's lang/parser idiom closely.
package parser

import (
	"fmt"

	"github.com/loamlang/loam/lang/ast"
	"github.com/loamlang/loam/lang/machine"
	"github.com/loamlang/loam/lang/scanner"
	"github.com/loamlang/loam/lang/token"
)

// Error is a syntax error at a specific source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

type parser struct {
	filename string
	toks     []token.Token
	pos      int
}

// ParseString scans and parses src as a complete program, returning a
// Block node of its top-level statements.
func ParseString(filename, src string) (ast.Node, error) {
	toks, err := scanner.ScanAll(filename, []byte(src))
	if err != nil {
		return nil, err
	}
	p := &parser{filename: filename, toks: toks}
	stmts, err := p.parseStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	return ast.Block(stmts...), nil
}

func (p *parser) cur() token.Token  { return p.toks[p.pos] }
func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.errorf("expected %s, got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf(format, args...)}
}

// parseStmts parses statements, separated by optional SEMI tokens, until
// it reaches end or EOF.
func (p *parser) parseStmts(end token.Kind) ([]ast.Expr, error) {
	var stmts []ast.Expr
	for !p.at(end) && !p.at(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		for p.at(token.SEMI) {
			p.advance()
		}
	}
	return stmts, nil
}

func (p *parser) parseStmt() (ast.Expr, error) {
	switch p.cur().Kind {
	case token.BANG:
		return p.parseDef()
	case token.DOT:
		return p.parseAssign()
	default:
		return p.parseStmtExprOrSetKey()
	}
}

func (p *parser) parseDef() (ast.Expr, error) {
	p.advance() // '!'
	isRef := false
	if p.at(token.KEY) && p.cur().Text == "ref" {
		p.advance()
		isRef = true
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if isRef {
		return ast.DefRef(nameTok.Text, expr), nil
	}
	return ast.Def(nameTok.Text, expr), nil
}

func (p *parser) parseAssign() (ast.Expr, error) {
	p.advance() // '.'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.Assign(nameTok.Text, expr), nil
}

// parseStmtExprOrSetKey implements the backtracking disambiguation between
// `target.field = expr` (SetKey) and an ordinary expression statement that
// happens to start with a dotted read chain (`target.field` used as a
// value, possibly itself the start of a juxtaposition call).
func (p *parser) parseStmtExprOrSetKey() (ast.Expr, error) {
	start := p.pos
	if setKey, ok := p.trySetKey(); ok {
		return setKey, nil
	}
	p.pos = start
	return p.parseExpr()
}

// trySetKey attempts to parse `IDENT ('.' IDENT)+ '=' expr`. On any
// mismatch it leaves the parser position unspecified and returns ok=false;
// the caller is responsible for restoring p.pos before falling back to an
// ordinary expression parse.
func (p *parser) trySetKey() (ast.Expr, bool) {
	if !p.at(token.IDENT) {
		return nil, false
	}
	nameTok := p.advance()
	var target ast.Expr = ast.Var(nameTok.Text)
	var lastField string
	sawField := false
	for p.at(token.DOT) {
		p.advance()
		if !p.at(token.IDENT) {
			return nil, false
		}
		fieldTok := p.advance()
		if sawField {
			target = ast.Call(ast.Key(lastField), target)
		}
		lastField = fieldTok.Text
		sawField = true
	}
	if !sawField || !p.at(token.EQ) {
		return nil, false
	}
	p.advance()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, false
	}
	return ast.SetKey(target, lastField, expr), true
}

// Expression grammar, lowest to highest precedence:
//
//	expr       := tildeExpr
//	tildeExpr  := comparison ( '~' tildeExpr )?        (right-assoc)
//	comparison := additive ( cmpOp additive )*
//	additive   := multiplicative ( ('+'|'-') multiplicative )*
//	multiplicative := callExpr ( ('*'|'/'|'%') callExpr )*
//	callExpr   := postfix postfix*                      (juxtaposition)
//	postfix    := atom ( '.' IDENT )*
func (p *parser) parseExpr() (ast.Expr, error) { return p.parseTilde() }

func (p *parser) parseTilde() (ast.Expr, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.at(token.TILDE) {
		p.advance()
		rhs, err := p.parseTilde()
		if err != nil {
			return nil, err
		}
		return ast.Call(lhs, rhs), nil
	}
	return lhs, nil
}

var cmpOps = map[token.Kind]string{
	token.EQEQ: "==", token.NEQ: "!=",
	token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
}

func (p *parser) parseComparison() (ast.Expr, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		name, ok := cmpOps[p.cur().Kind]
		if !ok {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = ast.Call(ast.Var(name), lhs, rhs)
	}
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := "+"
		if p.at(token.MINUS) {
			op = "-"
		}
		p.advance()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = ast.Call(ast.Var(op), lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	lhs, err := p.parseCallExpr()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		var op string
		switch p.cur().Kind {
		case token.STAR:
			op = "*"
		case token.SLASH:
			op = "/"
		case token.PERCENT:
			op = "%"
		}
		p.advance()
		rhs, err := p.parseCallExpr()
		if err != nil {
			return nil, err
		}
		lhs = ast.Call(ast.Var(op), lhs, rhs)
	}
	return lhs, nil
}

// startsAtom reports whether k can begin a postfix/atom, used to decide
// whether juxtaposition continues consuming another argument.
func startsAtom(k token.Kind) bool {
	switch k {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.KEY,
		token.DOLLAR_LIST, token.DOLLAR_MAP, token.DOLLAR_TRUE, token.DOLLAR_FALSE, token.DOLLAR_NIL,
		token.LPAREN, token.LBRACK, token.LBRACE:
		return true
	default:
		return false
	}
}

func (p *parser) parseCallExpr() (ast.Expr, error) {
	fn, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for startsAtom(p.cur().Kind) {
		a, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if len(args) == 0 {
		return fn, nil
	}
	return ast.Call(fn, args...), nil
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.DOT):
			p.advance()
			fieldTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			n = ast.Call(ast.Key(fieldTok.Text), n)
		case p.at(token.LPAREN) && p.peekIsEmptyCall():
			p.advance() // '('
			p.advance() // ')'
			n = ast.Call(n)
		default:
			return n, nil
		}
	}
}

// peekIsEmptyCall reports whether the token after the current LPAREN is an
// immediate RPAREN, i.e. `()`. This is the one case the grouping-parens
// production (LPAREN expr RPAREN) can never produce on its own, since an
// empty group has no inner expression, so it is reserved for the explicit
// zero-argument call a juxtaposition call can't express: `f()`, chained
// as `f()()` for a function returning another function.
func (p *parser) peekIsEmptyCall() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == token.RPAREN
}

func (p *parser) parseAtom() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case token.IDENT:
		p.advance()
		return ast.Var(t.Text), nil
	case token.INT:
		p.advance()
		return machine.Int(t.Int), nil
	case token.FLOAT:
		p.advance()
		return machine.Float(t.Float), nil
	case token.STRING:
		p.advance()
		return machine.Str(t.Text), nil
	case token.KEY:
		p.advance()
		return ast.Key(t.Text), nil
	case token.DOLLAR_TRUE:
		p.advance()
		return machine.Bool(true), nil
	case token.DOLLAR_FALSE:
		p.advance()
		return machine.Bool(false), nil
	case token.DOLLAR_NIL:
		p.advance()
		return machine.Nil, nil
	case token.DOLLAR_LIST:
		return p.parseListLiteral()
	case token.DOLLAR_MAP:
		return p.parseMapLiteral()
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACK:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACK); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACE:
		return p.parseFuncLiteral()
	default:
		return nil, p.errorf("unexpected token %s", t.Kind)
	}
}

func (p *parser) parseListLiteral() (ast.Expr, error) {
	p.advance() // '$['
	var elts []ast.Expr
	for !p.at(token.RBRACK) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return ast.Lst(elts...), nil
}

func (p *parser) parseMapLiteral() (ast.Expr, error) {
	p.advance() // '${'
	var pairs []ast.MapPair
	for !p.at(token.RBRACE) {
		keyTok, err := p.expect(token.KEY)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.MapPair{Key: keyTok.Text, Expr: e})
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.Map(pairs...), nil
}

func (p *parser) parseFuncLiteral() (ast.Expr, error) {
	p.advance() // '{'
	stmts, err := p.parseStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.Func("", ast.Block(stmts...)), nil
}
