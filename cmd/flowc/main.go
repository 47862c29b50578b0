// Command flowc drives the compiler front-end: it wires the platform
// module, runs the evaluator over a parsed syntax tree, and prints the
// resulting IR graph. It does not run exec descriptors. The
// syntax-tree parser itself is an external collaborator (spec.md §6,
// Input 1) not built here; the "demo" command below exercises the
// pipeline end to end against a small fixture tree until a real parser
// is wired into this entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/compiler"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/platform"
)

var logger = diagnostics.NewLogger("flowc")

func main() {
	root := &cobra.Command{
		Use:   "flowc",
		Short: "flowc compiles query scripts into an IR graph",
	}
	root.AddCommand(newDemoCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the compiler version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("flowc 0.1.0")
			return nil
		},
	}
}

func newDemoCommand() *cobra.Command {
	var dumpIR bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "run the fixture script through the evaluator and print the resulting IR",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := compiler.NewModuleHandler()
			ctx := compiler.NewContext(handler)
			handler.Register("px", platform.New(ctx.Arena))

			eval := compiler.NewEvaluator()
			if err := eval.CompilePackage(ctx, map[string]*ast.Module{
				"stats": statsModuleFixture(),
			}); err != nil {
				return err
			}

			mod := fixtureModule()
			if _, err := eval.EvalModule(ctx, mod); err != nil {
				return err
			}

			if dumpIR {
				fmt.Print(ctx.Arena.String())
			}
			if ctx.Diags.HasErrors() {
				return ctx.Diags.Combined()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpIR, "dump-ir", true, "print the compiled IR graph")
	return cmd
}
