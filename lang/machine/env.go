package machine

// Env is the single runtime evaluation environment threaded through every
// Evaluator call: one shared operand/argument stack, plus the bookkeeping
// needed to find the current call's locals, arguments, and upvalues on it.
// There is one Env per top-level evaluation (per goroutine, if a host
// embeds concurrent evaluations); it is not itself safe for concurrent use
// from multiple goroutines simultaneously, matching spec §5's "single
// logical thread of control per Env" model.
type Env struct {
	Global *GlobalEnv

	stack []Value

	// curFn is the Fun currently executing, for resolving upvalues; nil at
	// top level.
	curFn *Fun

	// argBase is the index in stack of the first argument of the
	// innermost active call; argCount is how many there are.
	argBase, argCount int

	// localBase is the index in stack of local slot 0 of the innermost
	// active call.
	localBase int
}

// NewEnv creates a fresh evaluation environment sharing global.
func NewEnv(global *GlobalEnv) *Env {
	return &Env{Global: global}
}

// Push appends a value to the top of the stack, e.g. while evaluating a
// call's argument list.
func (e *Env) Push(v Value) {
	e.stack = append(e.stack, v)
}

// PopN discards the top n values from the stack.
func (e *Env) PopN(n int) {
	e.stack = e.stack[:len(e.stack)-n]
}

// Arg returns the i'th argument (0-based) of the innermost active call.
func (e *Env) Arg(i int) Value {
	if i < 0 || i >= e.argCount {
		return Nil
	}
	return e.stack[e.argBase+i]
}

// ArgCount returns how many arguments the innermost active call received.
func (e *Env) ArgCount() int { return e.argCount }

// Argv materializes the innermost call's full argument window as a fresh
// List, backing the surface language's `@` read. Per spec §9's resolution
// of the `@` open question, each read allocates a new List rather than
// aliasing the call's internal argument window, so mutating the result
// (push, SetIndex) never reaches back into the stack.
func (e *Env) Argv() *List {
	elts := make([]Value, e.argCount)
	copy(elts, e.stack[e.argBase:e.argBase+e.argCount])
	return NewList(elts...)
}

// ReserveLocals grows the stack by n Nil-initialized slots and returns the
// base index new locals are addressed from.
func (e *Env) ReserveLocals(n int) int {
	base := len(e.stack)
	for i := 0; i < n; i++ {
		e.stack = append(e.stack, Nil)
	}
	return base
}

// PopLocals discards n local slots starting at base (base must be the
// current top of the reserved-locals region, i.e. callers pop in strict
// LIFO order matching ReserveLocals).
func (e *Env) PopLocals(base, n int) {
	e.stack = e.stack[:base]
	_ = n
}

// GetLocal reads local slot i of the current activation.
func (e *Env) GetLocal(i int) Value {
	return e.stack[e.localBase+i]
}

// SetLocal writes local slot i of the current activation, boxing through
// a Ref transparently if the slot holds one (DefRef locals always do).
func (e *Env) SetLocal(i int, v Value) {
	if r, ok := e.stack[e.localBase+i].(*Ref); ok {
		r.Set(v)
		return
	}
	e.stack[e.localBase+i] = v
}

// DefLocal initializes local slot i directly, without going through the
// Ref-transparent write SetLocal performs; used once, at Def/DefRef
// evaluation time, to install either a plain value or a brand new *Ref.
func (e *Env) DefLocal(i int, v Value) {
	e.stack[e.localBase+i] = v
}

// GetUpvalue reads the current function's i'th free variable by
// dereferencing its Ref.
func (e *Env) GetUpvalue(i int) Value {
	return e.curFn.Freevars[i].Get()
}

// SetUpvalue writes through the current function's i'th free variable's
// Ref, so every closure sharing that Ref observes the mutation.
func (e *Env) SetUpvalue(i int, v Value) {
	e.curFn.Freevars[i].Set(v)
}

// CurrentLocalAsRef returns local slot i as a *Ref if it is already boxed,
// or nil otherwise; BindUpvalues (run by NewFun when a compiled Func
// literal is evaluated) uses this to decide whether a nested Func literal's upvalue
// should share the existing cell or wrap a fresh private snapshot copy.
func (e *Env) CurrentLocalAsRef(i int) (*Ref, bool) {
	r, ok := e.stack[e.localBase+i].(*Ref)
	return r, ok
}
