package eval_test

import (
	"testing"

	"github.com/loamlang/loam/lang/eval"
	"github.com/loamlang/loam/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) machine.Value {
	t.Helper()
	c := eval.New()
	v, err := c.Eval(t.Name(), src)
	require.NoError(t, err)
	return v
}

func TestLocalPrivacy(t *testing.T) {
	// A local not bound with :ref is never shared with an inner closure:
	// the closure's write lands on its own private snapshot, leaving the
	// outer local untouched.
	v := run(t, `
!x = 13;
{ .x = 12 }();
{ x }()
`)
	assert.Equal(t, "13", v.String())
}

func TestRefCaptureSharesOneCell(t *testing.T) {
	v := run(t, `
!:ref x = 13;
{ .x = 12 }();
$[{ x }(), x]
`)
	assert.Equal(t, "[12,12]", v.String())
}

func TestRefCaptureSequencing(t *testing.T) {
	v := run(t, `
!:ref x = 13;
{ .x = 12 }();
$[{ x }(), { .x = 15 }(), x]
`)
	assert.Equal(t, "[12,15,15]", v.String())
}

func TestDeepUpvalueCapture(t *testing.T) {
	// x is captured two scopes deep: the innermost Func never mentions x's
	// defining scope directly, only through the synthesized upvalue chain
	// threaded through the middle Func.
	v := run(t, `
!:ref x = 1;
!outer = { { .x = x + 1; x } };
outer()()
`)
	assert.Equal(t, "2", v.String())
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"12 + 23", "35"},
		{"12.12 + 23.23", "35.35"},
		{"6 - 3 * 2", "0"},
		{"12 / 6 - 3 * 2", "-4"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			assert.Equal(t, c.want, run(t, c.src).String())
		})
	}
}

func TestMapDisplayIsOrderInsensitive(t *testing.T) {
	a := run(t, `${:a = 10, :b = 20}`)
	b := run(t, `${:b = 20, :a = 10}`)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "{a:10,b:20}", a.String())

	eq, err := machine.Equals(a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestFieldReadWrite(t *testing.T) {
	v := run(t, `
!x = ${};
x.a = 12;
x.a
`)
	assert.Equal(t, "12", v.String())
}

func TestBreakFromRangeBody(t *testing.T) {
	v := run(t, `range 0 10 1 { break 14 }`)
	assert.Equal(t, "14", v.String())
}

func TestBreakWithTildeApplication(t *testing.T) {
	v := run(t, `
range 0 10 1 {
	!i = _;
	[i == 4] { break ~ i + 10 } {}
}
`)
	assert.Equal(t, "14", v.String())
}

func TestRangeIsInclusiveOfTo(t *testing.T) {
	v := run(t, `
!:ref x = 10;
range 1 3 1 { .x = x + _ };
x
`)
	assert.Equal(t, "16", v.String())
}

func TestBlockYieldsLastValue(t *testing.T) {
	v := run(t, `{ 10; 20 }()`)
	assert.Equal(t, "20", v.String())
}

func TestKeyAsSelector(t *testing.T) {
	v := run(t, `
!x = ${:b = 20, :a = 11};
:a x
`)
	assert.Equal(t, "11", v.String())
}

func TestBoolAsSelector(t *testing.T) {
	v := run(t, `
!:ref a = 0;
$t { .a = 1 } { .a = 2 };
a
`)
	assert.Equal(t, "1", v.String())
}

func TestReturnArgAssignedToRef(t *testing.T) {
	v := run(t, `
!:ref y = 0;
{ .y = _ } 10;
y
`)
	assert.Equal(t, "10", v.String())
}

func TestPushMutatesSharedList(t *testing.T) {
	v := run(t, `
!:ref x = $[];
push x 10;
push x 20;
x
`)
	assert.Equal(t, "[10,20]", v.String())
}

func TestIncrementalReplState(t *testing.T) {
	c := eval.New()
	_, err := c.Eval("line1", `!x = 1`)
	require.NoError(t, err)
	_, err = c.Eval("line2", `.x = x + 1`)
	require.NoError(t, err)
	v, err := c.Eval("line3", `x`)
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}

func TestClosureDefinedEarlierStillWorksLater(t *testing.T) {
	c := eval.New()
	_, err := c.Eval("line1", `!:ref counter = 0`)
	require.NoError(t, err)
	_, err = c.Eval("line2", `!bump = { .counter = counter + 1; counter }`)
	require.NoError(t, err)
	v, err := c.Eval("line3", `bump()`)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
	v, err = c.Eval("line4", `bump()`)
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}

func TestUndefinedVariableIsCompileError(t *testing.T) {
	c := eval.New()
	_, err := c.Eval("bad", `nope`)
	require.Error(t, err)
}

func TestAssignWithoutDefinitionErrors(t *testing.T) {
	c := eval.New()
	_, err := c.Eval("bad", `.neverDefined = 1`)
	require.Error(t, err)
}
