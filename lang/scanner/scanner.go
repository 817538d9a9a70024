// Package scanner tokenizes loam source text for the parser to consume.
//
// The scanner is hand-rolled rather than adapted from go/scanner: the
// surface grammar is small enough (a dozen punctuation tokens, no
// string-interpolation, no indentation sensitivity) that reusing the Go
// scanner's machinery would cost more in impedance mismatch than it saves.
// Error aggregation still borrows go/scanner.ErrorList, which already does
// exactly what a sorted, dedupable list of positioned errors needs to do.
package scanner

import (
	"go/scanner"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/loamlang/loam/lang/token"
)

type (
	// Error and ErrorList are re-exported from go/scanner: a positioned error
	// and a sortable collection of them, exactly what the scanner needs to
	// report multiple lexical errors from a single pass.
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// PrintError writes err (usually an ErrorList) to w in human-readable form.
var PrintError = scanner.PrintError

// Scanner tokenizes a single source file held fully in memory.
type Scanner struct {
	filename string
	src      []byte
	err      func(token.Position, string)

	off, roff int
	line, col int
	cur       rune
}

// New creates a Scanner over src. errHandler, if non-nil, is invoked for
// every illegal character or malformed literal encountered; scanning
// continues afterward on a best-effort basis.
func New(filename string, src []byte, errHandler func(token.Position, string)) *Scanner {
	s := &Scanner{filename: filename, src: src, err: errHandler, line: 1, col: 0}
	s.advance()
	return s
}

// ScanAll tokenizes the entire source, returning every token including a
// final EOF. If any illegal token or literal was encountered, it returns a
// non-nil error (an ErrorList) in addition to the tokens scanned so far.
func ScanAll(filename string, src []byte) ([]token.Token, error) {
	var el ErrorList
	s := New(filename, src, func(pos token.Position, msg string) {
		el.Add(toGoPos(pos), msg)
	})
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	el.Sort()
	return toks, el.Err()
}

func toGoPos(p token.Position) scanner.Position {
	return scanner.Position{Filename: p.Filename, Line: p.Line, Column: p.Col}
}

func (s *Scanner) pos() token.Position {
	return token.Position{Filename: s.filename, Line: s.line, Col: s.col}
}

func (s *Scanner) error(msg string) {
	if s.err != nil {
		s.err(s.pos(), msg)
	}
}

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error("illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
	s.col++
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentCont(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for s.cur == ' ' || s.cur == '\t' || s.cur == '\n' || s.cur == '\r' {
			s.advance()
		}
		if s.cur == '#' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		break
	}
}

// Scan returns the next token. Once EOF is returned, further calls keep
// returning EOF.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()
	pos := s.pos()

	switch {
	case s.cur == -1:
		return token.Token{Kind: token.EOF, Pos: pos}
	case isLetter(s.cur):
		return s.scanIdent(pos)
	case isDigit(s.cur) || (s.cur == '.' && isDigit(rune(s.peek()))):
		return s.scanNumber(pos)
	case s.cur == '"':
		return s.scanString(pos)
	case s.cur == ':':
		s.advance()
		if !isLetter(s.cur) {
			s.error("expected identifier after ':'")
			return token.Token{Kind: token.ILLEGAL, Text: ":", Pos: pos}
		}
		start := s.off
		for isIdentCont(s.cur) {
			s.advance()
		}
		return token.Token{Kind: token.KEY, Text: string(s.src[start:s.off]), Pos: pos}
	case s.cur == '$':
		return s.scanDollar(pos)
	case s.cur == '@':
		s.advance()
		return token.Token{Kind: token.IDENT, Text: "@", Pos: pos}
	default:
		return s.scanPunct(pos)
	}
}

func (s *Scanner) scanIdent(pos token.Position) token.Token {
	start := s.off
	for isIdentCont(s.cur) {
		s.advance()
	}
	return token.Token{Kind: token.IDENT, Text: string(s.src[start:s.off]), Pos: pos}
}

func (s *Scanner) scanNumber(pos token.Position) token.Token {
	start := s.off
	isFloat := false
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		isFloat = true
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		isFloat = true
		s.advance()
		s.advanceIf('+')
		s.advanceIf('-')
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[start:s.off])
	if isFloat {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			s.error("invalid float literal: " + err.Error())
		}
		return token.Token{Kind: token.FLOAT, Text: lit, Pos: pos, Float: v}
	}
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		s.error("invalid integer literal: " + err.Error())
	}
	return token.Token{Kind: token.INT, Text: lit, Pos: pos, Int: v}
}

func (s *Scanner) scanString(pos token.Position) token.Token {
	s.advance() // opening quote
	var b strings.Builder
	for s.cur != '"' {
		if s.cur == -1 || s.cur == '\n' {
			s.error("unterminated string literal")
			break
		}
		if s.cur == '\\' {
			s.advance()
			switch s.cur {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteRune(s.cur)
			}
			s.advance()
			continue
		}
		b.WriteRune(s.cur)
		s.advance()
	}
	s.advance() // closing quote
	return token.Token{Kind: token.STRING, Text: b.String(), Pos: pos}
}

func (s *Scanner) scanDollar(pos token.Position) token.Token {
	s.advance() // consume '$'
	switch s.cur {
	case '[':
		s.advance()
		return token.Token{Kind: token.DOLLAR_LIST, Pos: pos}
	case '{':
		s.advance()
		return token.Token{Kind: token.DOLLAR_MAP, Pos: pos}
	case 't':
		s.advance()
		return token.Token{Kind: token.DOLLAR_TRUE, Pos: pos}
	case 'f':
		s.advance()
		return token.Token{Kind: token.DOLLAR_FALSE, Pos: pos}
	case 'n':
		s.advance()
		return token.Token{Kind: token.DOLLAR_NIL, Pos: pos}
	default:
		s.error("illegal character after '$'")
		return token.Token{Kind: token.ILLEGAL, Text: "$", Pos: pos}
	}
}

func (s *Scanner) scanPunct(pos token.Position) token.Token {
	cur := s.cur
	s.advance()
	switch cur {
	case '!':
		if s.advanceIf('=') {
			return token.Token{Kind: token.NEQ, Pos: pos}
		}
		return token.Token{Kind: token.BANG, Pos: pos}
	case '.':
		return token.Token{Kind: token.DOT, Pos: pos}
	case '~':
		return token.Token{Kind: token.TILDE, Pos: pos}
	case '=':
		if s.advanceIf('=') {
			return token.Token{Kind: token.EQEQ, Pos: pos}
		}
		return token.Token{Kind: token.EQ, Pos: pos}
	case ',':
		return token.Token{Kind: token.COMMA, Pos: pos}
	case ';':
		return token.Token{Kind: token.SEMI, Pos: pos}
	case '(':
		return token.Token{Kind: token.LPAREN, Pos: pos}
	case ')':
		return token.Token{Kind: token.RPAREN, Pos: pos}
	case '[':
		return token.Token{Kind: token.LBRACK, Pos: pos}
	case ']':
		return token.Token{Kind: token.RBRACK, Pos: pos}
	case '{':
		return token.Token{Kind: token.LBRACE, Pos: pos}
	case '}':
		return token.Token{Kind: token.RBRACE, Pos: pos}
	case '+':
		return token.Token{Kind: token.PLUS, Pos: pos}
	case '-':
		return token.Token{Kind: token.MINUS, Pos: pos}
	case '*':
		return token.Token{Kind: token.STAR, Pos: pos}
	case '/':
		return token.Token{Kind: token.SLASH, Pos: pos}
	case '%':
		return token.Token{Kind: token.PERCENT, Pos: pos}
	case '<':
		if s.advanceIf('=') {
			return token.Token{Kind: token.LE, Pos: pos}
		}
		return token.Token{Kind: token.LT, Pos: pos}
	case '>':
		if s.advanceIf('=') {
			return token.Token{Kind: token.GE, Pos: pos}
		}
		return token.Token{Kind: token.GT, Pos: pos}
	case -1:
		return token.Token{Kind: token.EOF, Pos: pos}
	default:
		s.error("illegal character " + strconv.QuoteRune(cur))
		return token.Token{Kind: token.ILLEGAL, Text: string(cur), Pos: pos}
	}
}
