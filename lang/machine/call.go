package machine

import "fmt"

// Call invokes fn with args, the single generic entry point both the
// compiler-emitted Call-node Evaluator and prelude builtins (want a
// higher-order call, e.g. `while`/`range`/`to_drop`'s finalizer) use. It
// pushes args onto env's shared stack as a fresh argument window, invokes
// fn, and always pops the window back off before returning, regardless of
// whether fn returned normally or via Signal.
func Call(env *Env, fn Value, args []Value) (Value, *Signal) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, &Signal{Kind: Error, Msg: fmt.Sprintf("value of type %s is not callable", fn.Type())}
	}

	savedBase, savedCount := env.argBase, env.argCount
	base := len(env.stack)
	for _, a := range args {
		env.Push(a)
	}
	env.argBase, env.argCount = base, len(args)

	v, sig := c.CallInternal(env, len(args))

	env.PopN(len(args))
	env.argBase, env.argCount = savedBase, savedCount
	return v, sig
}
