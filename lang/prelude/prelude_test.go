package prelude_test

import (
	"testing"

	"github.com/loamlang/loam/lang/machine"
	"github.com/loamlang/loam/lang/prelude"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) (*machine.Env, *machine.GlobalEnv) {
	t.Helper()
	g := machine.NewGlobalEnv()
	prelude.Install(g)
	return machine.NewEnv(g), g
}

func builtin(t *testing.T, g *machine.GlobalEnv, name string) machine.Value {
	t.Helper()
	v, ok := g.Get(name)
	require.True(t, ok, "builtin %q not installed", name)
	return v
}

func TestArithDispatchesOnFirstArgType(t *testing.T) {
	env, g := newEnv(t)

	v, sig := machine.Call(env, builtin(t, g, "+"), []machine.Value{machine.Int(2), machine.Int(3)})
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(5), v)

	v, sig = machine.Call(env, builtin(t, g, "+"), []machine.Value{machine.Float(2.5), machine.Int(1)})
	require.Nil(t, sig)
	assert.Equal(t, machine.Float(3.5), v)
}

func TestArithRequiresTwoArgs(t *testing.T) {
	env, g := newEnv(t)
	_, sig := machine.Call(env, builtin(t, g, "+"), []machine.Value{machine.Int(1)})
	require.NotNil(t, sig)
	assert.Equal(t, machine.Error, sig.Kind)
}

func TestComparisonOperators(t *testing.T) {
	env, g := newEnv(t)

	cases := []struct {
		op   string
		a, b machine.Value
		want bool
	}{
		{"==", machine.Int(3), machine.Int(3), true},
		{"!=", machine.Int(3), machine.Int(4), true},
		{"<", machine.Int(3), machine.Int(4), true},
		{">", machine.Int(4), machine.Int(3), true},
		{"<=", machine.Int(3), machine.Int(3), true},
		{">=", machine.Int(3), machine.Int(4), false},
	}
	for _, c := range cases {
		v, sig := machine.Call(env, builtin(t, g, c.op), []machine.Value{c.a, c.b})
		require.Nil(t, sig)
		assert.Equal(t, machine.Bool(c.want), v, c.op)
	}
}

func TestBreakNextReturnProduceSignalsNotValues(t *testing.T) {
	env, g := newEnv(t)

	_, sig := machine.Call(env, builtin(t, g, "break"), []machine.Value{machine.Int(1)})
	require.NotNil(t, sig)
	assert.Equal(t, machine.Break, sig.Kind)
	assert.Equal(t, machine.Int(1), sig.Value)

	_, sig = machine.Call(env, builtin(t, g, "next"), nil)
	require.NotNil(t, sig)
	assert.Equal(t, machine.Next, sig.Kind)

	_, sig = machine.Call(env, builtin(t, g, "return"), []machine.Value{machine.Int(2)})
	require.NotNil(t, sig)
	assert.Equal(t, machine.Return, sig.Kind)
	assert.Equal(t, machine.Int(2), sig.Value)
}

func TestPushAppendsToListInPlace(t *testing.T) {
	env, g := newEnv(t)
	l := machine.NewList()
	_, sig := machine.Call(env, builtin(t, g, "push"), []machine.Value{l, machine.Int(10)})
	require.Nil(t, sig)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, machine.Int(10), l.Index(0))
}

func TestPushRejectsNonList(t *testing.T) {
	env, g := newEnv(t)
	_, sig := machine.Call(env, builtin(t, g, "push"), []machine.Value{machine.Int(1), machine.Int(2)})
	require.NotNil(t, sig)
	assert.Equal(t, machine.Error, sig.Kind)
}

// countingTest returns a zero-arg Callable that returns Bool(true) the
// first n calls and Bool(false) after, so while's loop terminates.
type countingTest struct {
	n     int
	calls int
}

func (*countingTest) String() string { return "&test" }
func (*countingTest) Type() string   { return "function" }
func (*countingTest) Name() string   { return "test" }
func (c *countingTest) CallInternal(*machine.Env, int) (machine.Value, *machine.Signal) {
	c.calls++
	return machine.Bool(c.calls <= c.n), nil
}

type countingBody struct{ calls int }

func (*countingBody) String() string { return "&body" }
func (*countingBody) Type() string   { return "function" }
func (*countingBody) Name() string   { return "body" }
func (b *countingBody) CallInternal(*machine.Env, int) (machine.Value, *machine.Signal) {
	b.calls++
	return machine.Int(int64(b.calls)), nil
}

func TestWhileRunsBodyUntilTestFalse(t *testing.T) {
	env, g := newEnv(t)
	test := &countingTest{n: 3}
	body := &countingBody{}

	v, sig := machine.Call(env, builtin(t, g, "while"), []machine.Value{test, body})
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(3), v)
	assert.Equal(t, 3, body.calls)
}

func TestRangeIntInclusiveOfTo(t *testing.T) {
	env, g := newEnv(t)
	body := &countingBody{}

	v, sig := machine.Call(env, builtin(t, g, "range"), []machine.Value{machine.Int(1), machine.Int(3), machine.Int(1), body})
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(3), v)
	assert.Equal(t, 3, body.calls)
}

func TestRangeDescendingNeverIterates(t *testing.T) {
	env, g := newEnv(t)
	body := &countingBody{}

	v, sig := machine.Call(env, builtin(t, g, "range"), []machine.Value{machine.Int(3), machine.Int(1), machine.Int(-1), body})
	require.Nil(t, sig)
	assert.Equal(t, machine.Nil, v)
	assert.Equal(t, 0, body.calls)
}
