package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/loamlang/loam/lang/eval"
	"github.com/mna/mainer"
)

// Repl reads lines from stdin, evaluating each against one persistent
// EvalContext, printing "> <value>" on success or "*** <error>" on
// failure — grounded directly on original_source/src/main.rs's REPL loop.
func (c *Cmd) Repl(_ context.Context, stdio mainer.Stdio, _ []string) error {
	ctx := eval.New()
	scan := bufio.NewScanner(stdio.Stdin)
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		v, err := ctx.Eval("<repl>", line)
		if err != nil {
			fmt.Fprintf(stdio.Stdout, "*** %s\n", err)
			continue
		}
		fmt.Fprintf(stdio.Stdout, "> %s\n", v.String())
	}
	return scan.Err()
}
