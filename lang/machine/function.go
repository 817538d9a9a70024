package machine

// UpvalueSource describes where one entry of a Fun's Freevars vector comes
// from at the moment the enclosing Func literal's Evaluator runs:  either
// a local slot of the immediately enclosing activation, or a free variable
// the enclosing function itself already captured. The compiler builds
// these lists once, during resolution of the nested Func literal; they
// never change afterward (spec §4.1, §4.3).
type UpvalueSource struct {
	FromParentLocal bool // true: Index is a local slot of the caller; false: Index is one of the caller's own Freevars
	Index           int
}

// FuncTemplate is what the compiler produces for a Func AST node: the
// fixed, shared parts of every closure instance created from that literal.
// Each time the Func literal's Evaluator runs, a fresh Fun is built
// pointing at the same FuncTemplate but with its own Freevars, captured
// from whatever activation is live at that moment.
type FuncTemplate struct {
	Name           string
	NumLocals      int
	UpvalueSources []UpvalueSource
	Body           Evaluator
}

// Fun is a closure: a FuncTemplate plus the Freevars captured when it was
// created. Every entry of Freevars is a *Ref — either shared with the
// defining scope's own cell (if that slot was already boxed, i.e. defined
// via DefRef, or itself an inherited upvalue) or a fresh private cell
// wrapping an independent snapshot copy (if the source held a plain,
// unboxed value). See DESIGN.md for the derivation of this rule.
type Fun struct {
	Template *FuncTemplate
	Freevars []*Ref
}

var _ Callable = (*Fun)(nil)

// BindUpvalues builds the Freevars vector for a new Fun instance of
// template, capturing from env's currently active call per sources.
func BindUpvalues(env *Env, sources []UpvalueSource) []*Ref {
	if len(sources) == 0 {
		return nil
	}
	freevars := make([]*Ref, len(sources))
	for i, src := range sources {
		if src.FromParentLocal {
			if r, ok := env.CurrentLocalAsRef(src.Index); ok {
				freevars[i] = r
			} else {
				freevars[i] = NewRef(env.GetLocal(src.Index))
			}
		} else {
			freevars[i] = env.curFn.Freevars[src.Index]
		}
	}
	return freevars
}

// NewFun creates a closure instance from template, capturing upvalues from
// env's current activation.
func NewFun(env *Env, template *FuncTemplate) *Fun {
	return &Fun{Template: template, Freevars: BindUpvalues(env, template.UpvalueSources)}
}

func (f *Fun) String() string {
	if f.Template.Name != "" {
		return "&F:" + f.Template.Name
	}
	return "&F:anon"
}

func (*Fun) Type() string { return "function" }

func (f *Fun) Name() string { return f.Template.Name }

// CallInternal runs the generic closure prologue/epilogue: install this Fun
// as env's current function, reserve its local slots, run the compiled
// body, and catch only Return signals (converting them into a normal
// result); Break, Next, and Error signals escape unchanged, to be caught
// by whichever looping builtin or top-level caller is responsible for
// them, per spec §4.4's call/return protocol.
func (f *Fun) CallInternal(env *Env, argCount int) (Value, *Signal) {
	savedFn := env.curFn
	savedLocalBase := env.localBase

	env.curFn = f
	env.localBase = env.ReserveLocals(f.Template.NumLocals)

	v, sig := f.Template.Body(env)

	env.PopLocals(env.localBase, f.Template.NumLocals)
	env.curFn = savedFn
	env.localBase = savedLocalBase

	if sig != nil && sig.Kind == Return {
		return sig.Value, nil
	}
	return v, sig
}
