package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/loamlang/loam/lang/ast"
	"github.com/loamlang/loam/lang/parser"
	"github.com/mna/mainer"
)

// Parse parses each file and prints its AST as a parenthesized
// s-expression, for diagnosing the parser in isolation.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		node, err := parser.ParseString(path, string(src))
		if err != nil {
			return printError(stdio, err)
		}
		fmt.Fprintln(stdio.Stdout, ast.Print(node))
	}
	return nil
}
