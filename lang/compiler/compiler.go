// Package compiler turns the homoiconic AST produced by lang/parser into
// machine.Evaluator closures, resolving every name to a Local, Upvalue, or
// Global storage class along the way via lang/resolver. There is no
// bytecode and no separate resolve-then-compile pass: compiling a Func
// literal fully resolves and compiles its body (including marking
// captured-by-inner ancestors) before the enclosing Evaluator ever runs,
// so by the time any closure executes its FuncTemplate is already stable.
//
// This mirrors the shape of the teacher repository's own
// lang/compiler.Compile entry point and error style, generalized from
// emitting asm.Builder instructions to emitting Go closures directly, per
// spec §4.2.
package compiler

import (
	"fmt"

	"github.com/loamlang/loam/lang/ast"
	"github.com/loamlang/loam/lang/machine"
	"github.com/loamlang/loam/lang/resolver"
)

// Error is a compile-time error, reported with enough context to locate
// the offending AST node in a diagnostic without carrying source
// positions (the AST itself does not; see lang/parser for where positions
// are tracked and attached to parse errors instead).
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Compile compiles an AST expression into an Evaluator, resolving names
// against scope. scope is never nil: lang/eval always supplies a
// top-level CompileScope (itself with a nil parent), so a Var/Assign only
// ever falls through to Global when the name isn't found anywhere in the
// scope chain, never because scope itself is absent.
//
// node may be a composite, tagged ast.Node, or a literal machine.Value
// leaf (Int, Float, Str, Bool, Null, or a Sym used as a bare key literal):
// literals are homoiconic data that evaluates to itself.
func Compile(node ast.Expr, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	lst, ok := node.(*machine.List)
	if !ok {
		v := node
		return func(env *machine.Env) (machine.Value, *machine.Signal) {
			return v, nil
		}, nil
	}

	switch ast.Tag(lst) {
	case ast.SynBlock:
		return compileBlock(lst, scope, global)
	case ast.SynVar:
		return compileVar(lst, scope, global)
	case ast.SynDef:
		return compileDef(lst, scope, global, false)
	case ast.SynDefRef:
		return compileDef(lst, scope, global, true)
	case ast.SynAssign:
		return compileAssign(lst, scope, global)
	case ast.SynKey:
		return compileKey(lst)
	case ast.SynSetKey:
		return compileSetKey(lst, scope, global)
	case ast.SynLst:
		return compileLst(lst, scope, global)
	case ast.SynMap:
		return compileMap(lst, scope, global)
	case ast.SynCall:
		return compileCall(lst, scope, global)
	case ast.SynFunc:
		return compileFunc(lst, scope, global)
	default:
		return nil, errf("bad input: %s", ast.Print(lst))
	}
}

func compileBlock(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	stmts := ast.BlockStmts(node)
	evs := make([]machine.Evaluator, len(stmts))
	for i, s := range stmts {
		ev, err := Compile(s, scope, global)
		if err != nil {
			return nil, err
		}
		evs[i] = ev
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		var result machine.Value = machine.Nil
		for _, ev := range evs {
			v, sig := ev(env)
			if sig != nil {
				return nil, sig
			}
			result = v
		}
		return result, nil
	}, nil
}

// argIndexNames maps the special call-window identifiers `_`, `_1`..`_9`
// to the argument index they read, per the original implementation's
// compile_var special-casing of these names ahead of ordinary scope
// resolution.
var argIndexNames = map[string]int{
	"_": 0, "_1": 1, "_2": 2, "_3": 3, "_4": 4,
	"_5": 5, "_6": 6, "_7": 7, "_8": 8, "_9": 9,
}

func compileVar(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	name := ast.VarName(node)

	if idx, ok := argIndexNames[name]; ok {
		return func(env *machine.Env) (machine.Value, *machine.Signal) {
			return env.Arg(idx), nil
		}, nil
	}
	if name == "@" {
		return func(env *machine.Env) (machine.Value, *machine.Signal) {
			return env.Argv(), nil
		}, nil
	}

	if scope != nil {
		if res, ok := scope.Resolve(name); ok {
			switch res.Class {
			case resolver.Local:
				idx := res.Index
				return func(env *machine.Env) (machine.Value, *machine.Signal) {
					v := env.GetLocal(idx)
					if r, ok := v.(*machine.Ref); ok {
						return r.Get(), nil
					}
					return v, nil
				}, nil
			case resolver.Upvalue:
				idx := res.Index
				return func(env *machine.Env) (machine.Value, *machine.Signal) {
					return env.GetUpvalue(idx), nil
				}, nil
			}
		}
	}

	// Global fallback: captured by value at compile time, matching the
	// original implementation's compile_var. The name must already be
	// registered in global (e.g. by the prelude); top-level Defs are
	// locals of the top-level scope and never reach this path.
	v, ok := global.Get(name)
	if !ok {
		return nil, errf("Variable '%s' undefined", name)
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		return v, nil
	}, nil
}

func compileDef(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv, isRef bool) (machine.Evaluator, error) {
	name := ast.DefName(node)
	exprEv, err := Compile(ast.DefExpr(node), scope, global)
	if err != nil {
		return nil, err
	}

	local := scope.Define(name, isRef)
	idx := local.Index
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		v, sig := exprEv(env)
		if sig != nil {
			return nil, sig
		}
		if isRef {
			v = machine.NewRef(v)
		}
		env.DefLocal(idx, v)
		if isRef {
			return v.(*machine.Ref).Get(), nil
		}
		return v, nil
	}, nil
}

func compileAssign(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	name := ast.AssignName(node)
	exprEv, err := Compile(ast.AssignExpr(node), scope, global)
	if err != nil {
		return nil, err
	}

	if scope != nil {
		if res, ok := scope.Resolve(name); ok {
			switch res.Class {
			case resolver.Local:
				idx := res.Index
				return func(env *machine.Env) (machine.Value, *machine.Signal) {
					v, sig := exprEv(env)
					if sig != nil {
						return nil, sig
					}
					env.SetLocal(idx, v)
					return v, nil
				}, nil
			case resolver.Upvalue:
				idx := res.Index
				return func(env *machine.Env) (machine.Value, *machine.Signal) {
					v, sig := exprEv(env)
					if sig != nil {
						return nil, sig
					}
					env.SetUpvalue(idx, v)
					return v, nil
				}, nil
			}
		}
	}

	return nil, errf("assigning without definition of '%s'", name)
}

func compileKey(node ast.Node) (machine.Evaluator, error) {
	sym := machine.Sym(ast.KeySym(node))
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		return sym, nil
	}, nil
}

func compileSetKey(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	targetEv, err := Compile(ast.SetKeyTarget(node), scope, global)
	if err != nil {
		return nil, err
	}
	exprEv, err := Compile(ast.SetKeyExpr(node), scope, global)
	if err != nil {
		return nil, err
	}
	key := ast.SetKeyName(node)
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		t, sig := targetEv(env)
		if sig != nil {
			return nil, sig
		}
		v, sig := exprEv(env)
		if sig != nil {
			return nil, sig
		}
		hs, ok := t.(machine.HasSetKey)
		if !ok {
			return nil, &machine.Signal{Kind: machine.Error, Msg: fmt.Sprintf("cannot set key on %s", t.Type())}
		}
		if err := hs.SetKey(key, v); err != nil {
			return nil, &machine.Signal{Kind: machine.Error, Msg: err.Error()}
		}
		return v, nil
	}, nil
}

func compileLst(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	elts := ast.LstElts(node)
	evs := make([]machine.Evaluator, len(elts))
	for i, e := range elts {
		ev, err := Compile(e, scope, global)
		if err != nil {
			return nil, err
		}
		evs[i] = ev
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		vals := make([]machine.Value, len(evs))
		for i, ev := range evs {
			v, sig := ev(env)
			if sig != nil {
				return nil, sig
			}
			vals[i] = v
		}
		return machine.NewList(vals...), nil
	}, nil
}

func compileMap(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	pairs := ast.MapPairs(node)
	type compiledPair struct {
		key string
		ev  machine.Evaluator
	}
	cps := make([]compiledPair, len(pairs))
	for i, p := range pairs {
		ev, err := Compile(p.Expr, scope, global)
		if err != nil {
			return nil, err
		}
		cps[i] = compiledPair{key: p.Key, ev: ev}
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		m := machine.NewMap(len(cps))
		for _, cp := range cps {
			v, sig := cp.ev(env)
			if sig != nil {
				return nil, sig
			}
			_ = m.SetKey(cp.key, v)
		}
		return m, nil
	}, nil
}

func compileCall(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	fnEv, err := Compile(ast.CallFn(node), scope, global)
	if err != nil {
		return nil, err
	}
	argNodes := ast.CallArgs(node)
	argEvs := make([]machine.Evaluator, len(argNodes))
	for i, a := range argNodes {
		ev, err := Compile(a, scope, global)
		if err != nil {
			return nil, err
		}
		argEvs[i] = ev
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		fn, sig := fnEv(env)
		if sig != nil {
			return nil, sig
		}
		args := make([]machine.Value, len(argEvs))
		for i, ev := range argEvs {
			v, sig := ev(env)
			if sig != nil {
				return nil, sig
			}
			args[i] = v
		}
		return machine.Call(env, fn, args)
	}, nil
}

func compileFunc(node ast.Node, scope *resolver.CompileScope, global *machine.GlobalEnv) (machine.Evaluator, error) {
	name := ast.FuncName(node)
	child := resolver.NewCompileScope(scope)

	bodyEv, err := Compile(ast.FuncBody(node), child, global)
	if err != nil {
		return nil, err
	}

	template := &machine.FuncTemplate{
		Name:           name,
		NumLocals:      child.NumLocals(),
		UpvalueSources: child.Upvalues(),
		Body:           bodyEv,
	}
	return func(env *machine.Env) (machine.Value, *machine.Signal) {
		return machine.NewFun(env, template), nil
	}, nil
}
