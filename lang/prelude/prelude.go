// Package prelude registers the builtin functions every script's global
// scope starts with: arithmetic, comparisons, the break/next/return
// control-signal primitives, push, while, range, and to_drop.
//
// None of these are AST node types. This is grounded directly in
// original_source/src/prelude.rs's create_wlamba_prelude: the original
// implementation's `+`, `==`, `break`, `while`, `range`, `push`, and
// `yay`/`to_drop` are all ordinary global functions registered into a
// GlobalEnv, not special forms the compiler recognizes. Go's closures make the Callable adapter
// here direct: each builtin is a small struct implementing
// machine.Callable, registered once by Install.
package prelude

import (
	"fmt"

	"github.com/loamlang/loam/lang/machine"
)

// Install registers every prelude builtin into global. Call it once per
// GlobalEnv before compiling or evaluating any script against it.
func Install(global *machine.GlobalEnv) {
	global.AddFunction("+", arith{"+", addInt, addFloat})
	global.AddFunction("-", arith{"-", subInt, subFloat})
	global.AddFunction("*", arith{"*", mulInt, mulFloat})
	global.AddFunction("/", arith{"/", divInt, divFloat})

	global.AddFunction("==", cmpFn{"==", func(n int) bool { return n == 0 }, true})
	global.AddFunction("!=", cmpFn{"!=", func(n int) bool { return n != 0 }, true})
	global.AddFunction("<", cmpFn{"<", func(n int) bool { return n < 0 }, false})
	global.AddFunction(">", cmpFn{">", func(n int) bool { return n > 0 }, false})
	global.AddFunction("<=", cmpFn{"<=", func(n int) bool { return n <= 0 }, false})
	global.AddFunction(">=", cmpFn{">=", func(n int) bool { return n >= 0 }, false})

	global.AddFunction("break", breakFn{})
	global.AddFunction("next", nextFn{})
	global.AddFunction("return", returnFn{})

	global.AddFunction("push", pushFn{})
	global.AddFunction("while", whileFn{})
	global.AddFunction("range", rangeFn{})
	global.AddFunction("to_drop", toDropFn{})

	global.AddFunction("print", printFn{})
}

func argErr(name, msg string) *machine.Signal {
	return &machine.Signal{Kind: machine.Error, Msg: fmt.Sprintf("%s: %s", name, msg)}
}

// arith implements +, -, *, / with the original's float-vs-int dispatch:
// if the first argument is a Float, the whole operation is done in
// float64; otherwise both arguments are treated as Int (a Float second
// argument is truncated to Int).
type arith struct {
	name                 string
	intOp                func(a, b int64) (machine.Value, *machine.Signal)
	floatOp              func(a, b float64) (machine.Value, *machine.Signal)
}

func (a arith) String() string { return "&B:" + a.name }
func (arith) Type() string     { return "function" }
func (a arith) Name() string   { return a.name }

func (a arith) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 2 {
		return nil, argErr(a.name, "requires two arguments")
	}
	x, y := env.Arg(0), env.Arg(1)
	if fx, ok := x.(machine.Float); ok {
		fy, ok := toFloat(y)
		if !ok {
			return nil, argErr(a.name, fmt.Sprintf("cannot combine %s and %s", x.Type(), y.Type()))
		}
		return a.floatOp(float64(fx), fy)
	}
	ix, ok := x.(machine.Int)
	if !ok {
		return nil, argErr(a.name, fmt.Sprintf("unsupported operand type %s", x.Type()))
	}
	if fy, ok := y.(machine.Float); ok {
		return a.intOp(int64(ix), int64(fy))
	}
	iy, ok := y.(machine.Int)
	if !ok {
		return nil, argErr(a.name, fmt.Sprintf("unsupported operand type %s", y.Type()))
	}
	return a.intOp(int64(ix), int64(iy))
}

func toFloat(v machine.Value) (float64, bool) {
	switch n := v.(type) {
	case machine.Float:
		return float64(n), true
	case machine.Int:
		return float64(n), true
	default:
		return 0, false
	}
}

func addInt(a, b int64) (machine.Value, *machine.Signal)   { return machine.Int(a + b), nil }
func subInt(a, b int64) (machine.Value, *machine.Signal)   { return machine.Int(a - b), nil }
func mulInt(a, b int64) (machine.Value, *machine.Signal)   { return machine.Int(a * b), nil }
func divInt(a, b int64) (machine.Value, *machine.Signal) {
	if b == 0 {
		return nil, argErr("/", "division by zero")
	}
	return machine.Int(a / b), nil
}
func addFloat(a, b float64) (machine.Value, *machine.Signal) { return machine.Float(a + b), nil }
func subFloat(a, b float64) (machine.Value, *machine.Signal) { return machine.Float(a - b), nil }
func mulFloat(a, b float64) (machine.Value, *machine.Signal) { return machine.Float(a * b), nil }
func divFloat(a, b float64) (machine.Value, *machine.Signal) {
	if b == 0 {
		return nil, argErr("/", "division by zero")
	}
	return machine.Float(a / b), nil
}

// cmpFn implements ==, !=, <, >, <=, >=. Equality operators fall back to
// machine.Equals (identity for composites, value for scalars); ordering
// operators require machine.Compare to succeed.
type cmpFn struct {
	name    string
	test    func(int) bool
	useEq   bool
}

func (c cmpFn) String() string { return "&B:" + c.name }
func (cmpFn) Type() string     { return "function" }
func (c cmpFn) Name() string   { return c.name }

func (c cmpFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 2 {
		return nil, argErr(c.name, "requires two arguments")
	}
	x, y := env.Arg(0), env.Arg(1)
	if c.useEq {
		eq, err := machine.Equals(x, y)
		if err != nil {
			return nil, argErr(c.name, err.Error())
		}
		return machine.Bool(c.test(boolToInt(eq))), nil
	}
	n, err := machine.Compare(x, y)
	if err != nil {
		return nil, argErr(c.name, err.Error())
	}
	return machine.Bool(c.test(n)), nil
}

func boolToInt(b bool) int {
	if b {
		return 0
	}
	return 1
}

// breakFn, nextFn, returnFn reuse the ordinary Call node and calling
// convention to implement non-local control transfer: instead of
// returning a normal value, CallInternal returns a Signal, which
// propagates up through every enclosing Evaluator until something (a
// looping builtin for Break/Next, Fun.CallInternal for Return) catches it.
type breakFn struct{}

func (breakFn) String() string { return "&B:break" }
func (breakFn) Type() string   { return "function" }
func (breakFn) Name() string   { return "break" }
func (breakFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	v := machine.Value(machine.Nil)
	if argCount > 0 {
		v = env.Arg(0)
	}
	return nil, &machine.Signal{Kind: machine.Break, Value: v}
}

type nextFn struct{}

func (nextFn) String() string { return "&B:next" }
func (nextFn) Type() string   { return "function" }
func (nextFn) Name() string   { return "next" }
func (nextFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	return nil, &machine.Signal{Kind: machine.Next}
}

type returnFn struct{}

func (returnFn) String() string { return "&B:return" }
func (returnFn) Type() string   { return "function" }
func (returnFn) Name() string   { return "return" }
func (returnFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	v := machine.Value(machine.Nil)
	if argCount > 0 {
		v = env.Arg(0)
	}
	return nil, &machine.Signal{Kind: machine.Return, Value: v}
}

// pushFn appends its second argument to the *machine.List given as its
// first, and returns that list, matching the original's push(lst, v).
type pushFn struct{}

func (pushFn) String() string { return "&B:push" }
func (pushFn) Type() string   { return "function" }
func (pushFn) Name() string   { return "push" }
func (pushFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 2 {
		return nil, argErr("push", "requires a list and a value")
	}
	lst, ok := env.Arg(0).(*machine.List)
	if !ok {
		return nil, argErr("push", fmt.Sprintf("expected list, got %s", env.Arg(0).Type()))
	}
	lst.Push(env.Arg(1))
	return lst, nil
}

// whileFn repeatedly calls its first argument (the test thunk); while it
// is truthy, it calls its second argument (the body thunk), catching
// Break (ends the loop, yielding the break value) and Next (continues to
// the next iteration) signals. Return and Error signals propagate
// untouched, grounded on prelude.rs's `while`.
type whileFn struct{}

func (whileFn) String() string { return "&B:while" }
func (whileFn) Type() string   { return "function" }
func (whileFn) Name() string   { return "while" }
func (whileFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 2 {
		return nil, argErr("while", "requires a test and a body")
	}
	test, body := env.Arg(0), env.Arg(1)
	result := machine.Value(machine.Nil)
	for {
		tv, sig := machine.Call(env, test, nil)
		if sig != nil {
			return nil, sig
		}
		if !machine.Truth(tv) {
			return result, nil
		}
		bv, sig := machine.Call(env, body, nil)
		if sig != nil {
			switch sig.Kind {
			case machine.Break:
				return sig.Value, nil
			case machine.Next:
				continue
			default:
				return nil, sig
			}
		}
		result = bv
	}
}

// rangeFn iterates the loop variable from `from` through `to` inclusive by
// `step`, calling body with that one value as its sole argument on each
// iteration. The loop condition is the unconditional `from <= to` of
// prelude.rs's `range`, regardless of step's sign: a descending range
// needs `from >= to` and this builtin, like the original, simply will not
// iterate in that case. from dispatches on its own dynamic type (Int or
// Float), mirroring the original's two branches.
type rangeFn struct{}

func (rangeFn) String() string { return "&B:range" }
func (rangeFn) Type() string   { return "function" }
func (rangeFn) Name() string   { return "range" }
func (rangeFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 4 {
		return nil, argErr("range", "requires from, to, step, and a body")
	}
	body := env.Arg(3)

	if from, ok := env.Arg(0).(machine.Float); ok {
		to, ok2 := toFloat(env.Arg(1))
		step, ok3 := toFloat(env.Arg(2))
		if !ok2 || !ok3 {
			return nil, argErr("range", "to and step must be numbers")
		}
		result := machine.Value(machine.Nil)
		for f := float64(from); f <= to; f += step {
			v, sig := machine.Call(env, body, []machine.Value{machine.Float(f)})
			if sig != nil {
				switch sig.Kind {
				case machine.Break:
					return sig.Value, nil
				case machine.Next:
					continue
				default:
					return nil, sig
				}
			}
			result = v
		}
		return result, nil
	}

	from, ok1 := env.Arg(0).(machine.Int)
	to, ok2 := env.Arg(1).(machine.Int)
	step, ok3 := env.Arg(2).(machine.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, argErr("range", "from, to, and step must be ints")
	}
	result := machine.Value(machine.Nil)
	for i := from; i <= to; i += step {
		v, sig := machine.Call(env, body, []machine.Value{i})
		if sig != nil {
			switch sig.Kind {
			case machine.Break:
				return sig.Value, nil
			case machine.Next:
				continue
			default:
				return nil, sig
			}
		}
		result = v
	}
	return result, nil
}

// toDropFn wraps its argument with a finalizer, using machine.NewDropFn's
// runtime.SetFinalizer-backed mechanism, matching the original's `yay`
// (aka to_drop) builtin.
type toDropFn struct{}

func (toDropFn) String() string { return "&B:to_drop" }
func (toDropFn) Type() string   { return "function" }
func (toDropFn) Name() string   { return "to_drop" }
func (toDropFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	if argCount < 2 {
		return nil, argErr("to_drop", "requires a value and a finalizer function")
	}
	fn, ok := env.Arg(1).(machine.Callable)
	if !ok {
		return nil, argErr("to_drop", "finalizer must be callable")
	}
	return machine.NewDropFn(env, env.Arg(0), fn), nil
}

// printFn is not present in the original prelude but is necessary for any
// script to produce observable output; it is grounded in the same
// "ordinary global function" shape as everything else here.
type printFn struct{}

func (printFn) String() string { return "&B:print" }
func (printFn) Type() string   { return "function" }
func (printFn) Name() string   { return "print" }
func (printFn) CallInternal(env *machine.Env, argCount int) (machine.Value, *machine.Signal) {
	var result machine.Value = machine.Nil
	for i := 0; i < argCount; i++ {
		if i > 0 {
			fmt.Print(" ")
		}
		result = env.Arg(i)
		fmt.Print(result.String())
	}
	fmt.Println()
	return result, nil
}
