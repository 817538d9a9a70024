// Package machine implements the run-time value universe, the evaluator
// calling convention, and the activation-record bookkeeping the compiler
// targets. It has no knowledge of source syntax: everything here operates
// on already-compiled Evaluator closures and already-resolved storage
// classes.
package machine

// Value is the interface implemented by every value the machine can hold,
// pass as an argument, or store in a slot.
type Value interface {
	// String returns the displayed form of the value.
	String() string
	// Type returns a short, stable name for the value's dynamic type.
	Type() string
}

// Kind identifies the flavor of non-local control transfer carried by a
// Signal.
type Kind uint8

const (
	// None means no signal: the Evaluator's Value result is authoritative.
	None Kind = iota
	Break
	Next
	Return
	Error
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Break:
		return "break"
	case Next:
		return "next"
	case Return:
		return "return"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Signal carries a non-local control transfer: Break(v), Next, Return(v),
// or Error(msg). It is kept disjoint from Value so a Break can never be
// silently mistaken for a legitimate result. A nil *Signal means normal
// completion.
type Signal struct {
	Kind  Kind
	Value Value  // meaningful for Break and Return
	Msg   string // meaningful for Error
}

func (s *Signal) Error() string {
	if s == nil {
		return ""
	}
	switch s.Kind {
	case Break:
		return "break escaped to top level"
	case Next:
		return "next escaped to top level"
	case Error:
		return s.Msg
	default:
		return s.Kind.String()
	}
}

// Evaluator is what the compiler produces from an AST node: given a
// runtime environment, it yields a Value, or signals a non-local control
// transfer via a non-nil Signal (in which case the Value is meaningless
// and must not be used by the caller).
type Evaluator func(env *Env) (Value, *Signal)

// A Callable value may be invoked with a window of arguments already
// pushed onto the environment's stack. Clients should use the Call
// function rather than invoking CallInternal directly, since Call takes
// care of pushing and popping the argument window.
type Callable interface {
	Value
	Name() string
	// CallInternal runs the callable against argCount arguments already
	// sitting on top of env's stack, accessible via env.Arg.
	CallInternal(env *Env, argCount int) (Value, *Signal)
}

// An Ordered type supports relative comparison against another value of
// the same dynamic type.
type Ordered interface {
	Value
	// Cmp returns negative, zero, or positive as the receiver is less than,
	// equal to, or greater than y. Client code should use the standalone
	// Compare function instead of calling this directly.
	Cmp(y Value) (int, error)
}

// A HasEqual type defines custom equality instead of relying on identity.
type HasEqual interface {
	Value
	Equals(y Value) (bool, error)
}

// An Iterable value can be walked without its length necessarily being
// known ahead of time.
type Iterable interface {
	Value
	Iterate() Iterator
}

// A Sequence is an Iterable of known length.
type Sequence interface {
	Iterable
	Len() int
}

// Iterator yields successive elements of an Iterable. Done must be called
// once the caller is finished with it.
type Iterator interface {
	Next(p *Value) bool
	Done()
}

// A Mapping associates string keys with values.
type Mapping interface {
	Value
	Get(key string) (v Value, found bool)
}

// A HasSetKey is a Mapping whose entries can be created or overwritten.
type HasSetKey interface {
	Mapping
	SetKey(key string, v Value) error
}
