package machine_test

import (
	"testing"

	"github.com/loamlang/loam/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunCallInternalConvertsReturnSignalToValue(t *testing.T) {
	tmpl := &machine.FuncTemplate{
		Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
			return nil, &machine.Signal{Kind: machine.Return, Value: machine.Int(7)}
		},
	}
	env := machine.NewEnv(machine.NewGlobalEnv())
	fn := machine.NewFun(env, tmpl)

	v, sig := machine.Call(env, fn, nil)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(7), v)
}

func TestFunCallInternalLetsBreakEscapeUncaught(t *testing.T) {
	tmpl := &machine.FuncTemplate{
		Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
			return nil, &machine.Signal{Kind: machine.Break, Value: machine.Int(9)}
		},
	}
	env := machine.NewEnv(machine.NewGlobalEnv())
	fn := machine.NewFun(env, tmpl)

	_, sig := machine.Call(env, fn, nil)
	require.NotNil(t, sig)
	assert.Equal(t, machine.Break, sig.Kind)
	assert.Equal(t, machine.Int(9), sig.Value)
}

func TestFunCallInternalReservesAndRestoresLocals(t *testing.T) {
	tmpl := &machine.FuncTemplate{
		NumLocals: 2,
		Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
			env.DefLocal(0, machine.Int(1))
			env.DefLocal(1, machine.Int(2))
			return env.GetLocal(0), nil
		},
	}
	env := machine.NewEnv(machine.NewGlobalEnv())
	fn := machine.NewFun(env, tmpl)

	v, sig := machine.Call(env, fn, nil)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(1), v)

	v2, sig := machine.Call(env, fn, nil)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(1), v2)
}

func TestBindUpvaluesSharesAlreadyBoxedLocal(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	outer := &machine.FuncTemplate{
		NumLocals: 1,
		Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
			cell := machine.NewRef(machine.Int(1))
			env.DefLocal(0, cell)

			inner := machine.NewFun(env, &machine.FuncTemplate{
				UpvalueSources: []machine.UpvalueSource{{FromParentLocal: true, Index: 0}},
				Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
					env.SetUpvalue(0, machine.Int(42))
					return nil, nil
				},
			})
			_, sig := machine.Call(env, inner, nil)
			if sig != nil {
				return nil, sig
			}
			return cell.Get(), nil
		},
	}
	fn := machine.NewFun(env, outer)
	v, sig := machine.Call(env, fn, nil)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(42), v)
}

func TestBindUpvaluesCopiesUnboxedLocalPrivately(t *testing.T) {
	env := machine.NewEnv(machine.NewGlobalEnv())
	outer := &machine.FuncTemplate{
		NumLocals: 1,
		Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
			env.DefLocal(0, machine.Int(1))

			inner := machine.NewFun(env, &machine.FuncTemplate{
				UpvalueSources: []machine.UpvalueSource{{FromParentLocal: true, Index: 0}},
				Body: func(env *machine.Env) (machine.Value, *machine.Signal) {
					env.SetUpvalue(0, machine.Int(42))
					return nil, nil
				},
			})
			_, sig := machine.Call(env, inner, nil)
			if sig != nil {
				return nil, sig
			}
			return env.GetLocal(0), nil
		},
	}
	fn := machine.NewFun(env, outer)
	v, sig := machine.Call(env, fn, nil)
	require.Nil(t, sig)
	assert.Equal(t, machine.Int(1), v)
}
