package machine

import (
	"fmt"
	"strconv"
)

// Null is the value of the sole null instance, Nil.
type Null struct{}

func (Null) String() string { return "$n" }
func (Null) Type() string   { return "null" }

// Nil is the single Null value; compare against it with ==.
var Nil Value = Null{}

// Bool is the boolean value type. As a Callable, Bool implements the
// bool-as-selector calling convention: called with one argument it invokes
// that argument (a zero-arg function) when true and yields Nil when false;
// called with two arguments it picks the first when true, the second when
// false, and invokes whichever it picked.
type Bool bool

func (b Bool) String() string {
	if b {
		return "$t"
	}
	return "$f"
}
func (Bool) Type() string { return "bool" }

func (b Bool) Name() string { return b.String() }

func (b Bool) CallInternal(env *Env, argCount int) (Value, *Signal) {
	if argCount == 0 {
		return Nil, nil
	}
	var branch Value
	if b {
		branch = env.Arg(0)
	} else if argCount > 1 {
		branch = env.Arg(1)
	} else {
		return Nil, nil
	}
	return Call(env, branch, nil)
}

func (b Bool) Cmp(y Value) (int, error) {
	o, ok := y.(Bool)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s with %s", b.Type(), y.Type())
	}
	if b == o {
		return 0, nil
	}
	if !b {
		return -1, nil
	}
	return 1, nil
}

// Int is a 64-bit signed integer value.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() string     { return "int" }

func (i Int) Cmp(y Value) (int, error) {
	switch o := y.(type) {
	case Int:
		switch {
		case i < o:
			return -1, nil
		case i > o:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		return Float(i).Cmp(o)
	default:
		return 0, fmt.Errorf("cannot compare %s with %s", i.Type(), y.Type())
	}
}

// Float is a 64-bit IEEE-754 floating point value.
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) Type() string     { return "float" }

func (f Float) Cmp(y Value) (int, error) {
	var o Float
	switch v := y.(type) {
	case Float:
		o = v
	case Int:
		o = Float(v)
	default:
		return 0, fmt.Errorf("cannot compare %s with %s", f.Type(), y.Type())
	}
	switch {
	case f < o:
		return -1, nil
	case f > o:
		return 1, nil
	default:
		return 0, nil
	}
}

// Sym is an interned-by-value symbol, used for identifiers and map keys.
// As a Callable, Sym implements the key-as-selector calling convention
// described in scenario 10: calling a Sym performs a Get on its sole
// Mapping argument.
type Sym string

func (s Sym) String() string { return ":" + string(s) }
func (Sym) Type() string     { return "sym" }
func (s Sym) Name() string   { return string(s) }

func (s Sym) Cmp(y Value) (int, error) {
	o, ok := y.(Sym)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s with %s", s.Type(), y.Type())
	}
	switch {
	case s < o:
		return -1, nil
	case s > o:
		return 1, nil
	default:
		return 0, nil
	}
}

func (s Sym) CallInternal(env *Env, argCount int) (Value, *Signal) {
	if argCount < 1 {
		return nil, &Signal{Kind: Error, Msg: "key call requires one argument"}
	}
	m, ok := env.Arg(0).(Mapping)
	if !ok {
		return nil, &Signal{Kind: Error, Msg: fmt.Sprintf("cannot index %s with key %s", env.Arg(0).Type(), s)}
	}
	v, found := m.Get(string(s))
	if !found {
		return Nil, nil
	}
	return v, nil
}

// Str is an immutable text value.
type Str string

func (s Str) String() string { return string(s) }
func (Str) Type() string     { return "str" }

func (s Str) Cmp(y Value) (int, error) {
	o, ok := y.(Str)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s with %s", s.Type(), y.Type())
	}
	switch {
	case s < o:
		return -1, nil
	case s > o:
		return 1, nil
	default:
		return 0, nil
	}
}

// keyString converts a Value into a Map storage key: the text of a Sym or
// Str, otherwise the value's displayed form. No current caller uses it:
// Map literal keys, SetKey names and field names already reach Map as
// strings.
func keyString(v Value) string {
	switch k := v.(type) {
	case Sym:
		return string(k)
	case Str:
		return string(k)
	default:
		return v.String()
	}
}

// Truth reports whether v is considered true in a boolean context. Only
// Bool(false) and Nil are false; every other value, including Int(0), is
// true. This mirrors WLambda's "everything but explicit false/nil is
// truthy" convention rather than C-style zero-is-false.
func Truth(v Value) bool {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Null:
		return false
	default:
		return true
	}
}

// Compare orders two values of the same dynamic type. It is the standalone
// counterpart to the Ordered interface that prelude comparison functions
// should call instead of invoking Cmp directly.
func Compare(x, y Value) (int, error) {
	if xo, ok := x.(Ordered); ok {
		return xo.Cmp(y)
	}
	return 0, fmt.Errorf("values of type %s are not ordered", x.Type())
}

// Equals reports whether x and y are equal: value-equal for scalars,
// identity-equal for shared composites, unless the dynamic type defines
// HasEqual.
func Equals(x, y Value) (bool, error) {
	if xe, ok := x.(HasEqual); ok {
		return xe.Equals(y)
	}
	switch x.(type) {
	case Null:
		_, ok := y.(Null)
		return ok, nil
	case *List, *Ref, *Fun, *DropFn:
		return x == y, nil
	}
	if xo, ok := x.(Ordered); ok {
		if _, ok := y.(Ordered); ok {
			n, err := xo.Cmp(y)
			if err != nil {
				return false, nil //nolint:nilerr // incomparable types are simply unequal
			}
			return n == 0, nil
		}
	}
	return false, nil
}
