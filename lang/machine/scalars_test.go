package machine_test

import (
	"testing"

	"github.com/loamlang/loam/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolString(t *testing.T) {
	assert.Equal(t, "$t", machine.Bool(true).String())
	assert.Equal(t, "$f", machine.Bool(false).String())
}

func TestTruth(t *testing.T) {
	assert.True(t, machine.Truth(machine.Int(0)))
	assert.True(t, machine.Truth(machine.Str("")))
	assert.False(t, machine.Truth(machine.Nil))
	assert.False(t, machine.Truth(machine.Bool(false)))
	assert.True(t, machine.Truth(machine.Bool(true)))
}

func TestIntCmpAcrossFloat(t *testing.T) {
	n, err := machine.Compare(machine.Int(3), machine.Float(3.5))
	require.NoError(t, err)
	assert.Negative(t, n)
}

func TestCompareIncomparableTypes(t *testing.T) {
	_, err := machine.Compare(machine.Str("a"), machine.Int(1))
	require.Error(t, err)
}

func TestEqualsScalars(t *testing.T) {
	eq, err := machine.Equals(machine.Int(4), machine.Int(4))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = machine.Equals(machine.Int(4), machine.Float(4))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = machine.Equals(machine.Str("a"), machine.Int(1))
	require.NoError(t, err)
	assert.False(t, eq)
}

// callWith runs fn with args already pushed, the way
// Call does, so CallInternal's Arg/ArgCount reads behave as in a real
// evaluation.
func callWith(env *machine.Env, fn machine.Value, args ...machine.Value) (machine.Value, *machine.Signal) {
	return machine.Call(env, fn, args)
}

func TestBoolAsSelectorCallsChosenBranch(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	yes := markerFn{v: machine.Int(1)}
	no := markerFn{v: machine.Int(2)}

	v, sig := callWith(env, machine.Bool(true), yes, no)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(1), v)

	v, sig = callWith(env, machine.Bool(false), yes, no)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(2), v)
}

func TestBoolAsSelectorFalseWithNoElseBranch(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	yes := markerFn{v: machine.Int(1)}

	v, sig := callWith(env, machine.Bool(false), yes)
	require.Nil(t, sig)
	assert.Equal(t, machine.Nil, v)
}

func TestSymAsSelectorGetsFromMapping(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	m := machine.NewMap(1)
	require.NoError(t, m.SetKey("a", machine.Int(11)))

	v, sig := callWith(env, machine.Sym("a"), m)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(11), v)
}

func TestSymAsSelectorMissingKeyYieldsNil(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	m := machine.NewMap(1)

	v, sig := callWith(env, machine.Sym("missing"), m)
	require.Nil(t, sig)
	assert.Equal(t, machine.Nil, v)
}

func TestSymAsSelectorRequiresMappingArgument(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	_, sig := callWith(env, machine.Sym("a"), machine.Int(1))
	require.NotNil(t, sig)
	assert.Equal(t, machine.Error, sig.Kind)
}

// markerFn is a zero-argument Callable returning a fixed value, standing
// in for a surface-language Func literal in tests that only need to
// observe which branch a selector picked.
type markerFn struct{ v machine.Value }

func (markerFn) String() string { return "&marker" }
func (markerFn) Type() string   { return "function" }
func (markerFn) Name() string   { return "marker" }
func (m markerFn) CallInternal(*machine.Env, int) (machine.Value, *machine.Signal) {
	return m.v, nil
}
