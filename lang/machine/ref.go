package machine

import "runtime"

// Ref is a shared mutable cell. A local becomes boxed into a Ref only when
// it is defined via DefRef (the surface language's `:ref` binding form);
// an upvalue slot that captures a Ref shares the same cell across every
// closure that references it, while capturing a plain value copies it
// independently into a freshly allocated private Ref. See DESIGN.md for
// the full derivation of this rule from the original implementation.
type Ref struct {
	v Value
}

var _ Value = (*Ref)(nil)

// NewRef allocates a new cell holding v.
func NewRef(v Value) *Ref {
	return &Ref{v: v}
}

func (r *Ref) Get() Value     { return r.v }
func (r *Ref) Set(v Value)    { r.v = v }
func (r *Ref) String() string { return r.v.String() }
func (*Ref) Type() string     { return "ref" }

// DropFn pairs a value with a finalizer function invoked when the wrapper
// is discarded. Ordering relative to other finalizers, and relative to
// program exit, is unspecified, matching the original `to_drop` builtin's
// contract; this is implemented with runtime.SetFinalizer rather than an
// explicit drop-scope mechanism, since there is no scope-exit hook in this
// evaluator to call one at.
type DropFn struct {
	V        Value
	finalize Callable
	global   *GlobalEnv
}

var _ Value = (*DropFn)(nil)

// NewDropFn wraps v so that fn is called (with v as its sole argument) when
// the wrapper becomes unreachable and is collected. The finalizer runs on
// a fresh, private Env rather than the Env active when NewDropFn was
// called: the GC can invoke a finalizer at any time, on its own goroutine,
// long after the original call's stack frame is gone.
func NewDropFn(env *Env, v Value, fn Callable) *DropFn {
	d := &DropFn{V: v, finalize: fn, global: env.Global}
	runtime.SetFinalizer(d, func(d *DropFn) {
		Call(NewEnv(d.global), d.finalize, []Value{d.V})
	})
	return d
}

func (d *DropFn) String() string { return "&&" + d.V.String() }
func (*DropFn) Type() string     { return "drop" }
