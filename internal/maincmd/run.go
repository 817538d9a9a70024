package maincmd

import (
	"context"
	"fmt"

	"github.com/loamlang/loam/lang/eval"
	"github.com/mna/mainer"
)

// Run evaluates each file argument in its own EvalContext and prints its
// final value to stdout.
func (c *Cmd) Run(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		ctx := eval.New()
		v, err := ctx.EvalFile(path)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", path, err))
		}
		fmt.Fprintln(stdio.Stdout, v.String())
	}
	return nil
}
