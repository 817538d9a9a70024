// Package eval ties scanning, parsing, compiling, and running together
// into the single entry point a host (the CLI, a REPL, or an embedder)
// uses: EvalContext. It is grounded on original_source/src/main.rs's
// EvalContext::new/eval/eval_file, which is exactly this shape: one long-
// lived context wrapping a global environment, used to evaluate first a
// whole file and then, in a REPL, one line at a time against the same
// accumulated top-level state.
package eval

import (
	"fmt"
	"os"

	"github.com/loamlang/loam/lang/compiler"
	"github.com/loamlang/loam/lang/machine"
	"github.com/loamlang/loam/lang/parser"
	"github.com/loamlang/loam/lang/prelude"
	"github.com/loamlang/loam/lang/resolver"
)

// EvalContext is a persistent evaluation session: its top-level scope and
// activation record survive across multiple calls to Eval, so a REPL line
// defining `!x = 1` makes x visible to the next line's `.x = 2`, and a Func
// literal compiled on one line can still be called correctly on a later
// line (spec §8 scenarios exercise exactly this incremental pattern).
type EvalContext struct {
	global *machine.GlobalEnv
	scope  *resolver.CompileScope
	env    *machine.Env

	// reserved tracks how many top-level local slots the persistent env
	// currently has reserved, so each new Eval call can
	// grow it to match scope's growth without disturbing slots already in
	// use by closures created on earlier lines.
	reserved int
}

// New creates an evaluation context with the standard prelude installed.
func New() *EvalContext {
	global := machine.NewGlobalEnv()
	prelude.Install(global)
	env := machine.NewEnv(global)
	scope := resolver.NewCompileScope(nil)
	return &EvalContext{global: global, scope: scope, env: env}
}

// Eval compiles and runs one chunk of source text against the context's
// persistent top-level state, returning the value of its final
// expression.
func (c *EvalContext) Eval(filename, src string) (machine.Value, error) {
	node, err := parser.ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	ev, err := compiler.Compile(node, c.scope, c.global)
	if err != nil {
		return nil, err
	}

	grow := c.scope.NumLocals() - c.reserved
	if grow > 0 {
		c.env.ReserveLocals(grow)
		c.reserved = c.scope.NumLocals()
	}

	v, sig := ev(c.env)
	if sig != nil {
		return nil, sig
	}
	return v, nil
}

// EvalFile reads path and evaluates its full contents as a single chunk.
func (c *EvalContext) EvalFile(path string) (machine.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Eval(path, string(src))
}
