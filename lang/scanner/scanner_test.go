package scanner_test

import (
	"testing"

	"github.com/loamlang/loam/lang/scanner"
	"github.com/loamlang/loam/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllDefWithRefBinding(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte(`!:ref x = 1 + 2.5`))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.BANG, token.KEY, token.IDENT, token.EQ, token.INT, token.PLUS, token.FLOAT, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "ref", toks[1].Text)
	assert.Equal(t, int64(1), toks[4].Int)
	assert.Equal(t, 2.5, toks[6].Float)
}

func TestScanAllDollarTokens(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte(`$[1] ${} $t $f $n`))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.DOLLAR_LIST, token.INT, token.RBRACK, token.DOLLAR_MAP, token.RBRACE,
		token.DOLLAR_TRUE, token.DOLLAR_FALSE, token.DOLLAR_NIL, token.EOF,
	}, kinds(toks))
}

func TestScanAllStringEscapes(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte(`"a\nb\"c"`))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\"c", toks[0].Text)
}

func TestScanAllTwoCharOperators(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte(`== != <= >= < >`))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.EQEQ, token.NEQ, token.LE, token.GE, token.LT, token.GT, token.EOF,
	}, kinds(toks))
}

func TestScanAllCommentsAreSkipped(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte("1 # trailing comment\n2"))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.INT, token.EOF}, kinds(toks))
}

func TestScanAllAtIsAnIdentifier(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte(`@`))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "@", toks[0].Text)
}

func TestScanAllIllegalCharacterIsReportedButScanningContinues(t *testing.T) {
	toks, err := scanner.ScanAll("t", []byte("1 ` 2"))
	require.Error(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.ILLEGAL, token.INT, token.EOF}, kinds(toks))
}

func TestScanAllUnterminatedStringIsReported(t *testing.T) {
	_, err := scanner.ScanAll("t", []byte(`"abc`))
	require.Error(t, err)
}
