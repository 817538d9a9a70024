package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/loamlang/loam/lang/scanner"
	"github.com/mna/mainer"
)

// Tokenize scans each file and prints its token stream, one per line, for
// diagnosing the scanner in isolation.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		toks, err := scanner.ScanAll(path, src)
		if err != nil {
			return printError(stdio, err)
		}
		for _, t := range toks {
			fmt.Fprintf(stdio.Stdout, "%s\t%s\t%q\n", t.Pos, t.Kind, t.Text)
		}
	}
	return nil
}
