package compiler

import (
	"sort"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/object"
)

// Evaluator walks a syntax tree and dispatches on node kind, producing
// Objects and IR nodes (spec.md §4.3). It carries no state of its own:
// every mutation happens through the Context passed to each call, so
// one Evaluator can service an arbitrary number of compiles.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// SuiteMode distinguishes a module's top-level suite from a function
// body, which differ in how a leading doc string and a Return are
// treated (spec.md §4.3 "Suite processing").
type SuiteMode int

const (
	ModuleSuite SuiteMode = iota
	FunctionSuite
)

// EvalModule evaluates a parsed file's top-level suite in a fresh child
// scope and packages that scope's own bindings as a Module (spec.md §3,
// Input 2: "a fresh child scope" — a user module's bindings never leak
// into the scope that loaded it).
func (e *Evaluator) EvalModule(ctx *Context, mod *ast.Module) (*object.Module, error) {
	ctx.Log.Debug("evaluating module body (%d top-level statements)", len(mod.Body.Items))
	moduleCtx := ctx.WithScope(NewChildScope(ctx.Scope))
	if _, _, err := e.EvalSuite(moduleCtx, EmptyOperatorContext(), mod.Body, ModuleSuite); err != nil {
		ctx.Log.Error("module evaluation failed: %v", err)
		return nil, err
	}
	out := object.NewModule("__main__")
	for name, val := range moduleCtx.Scope.vars {
		out.Define(name, val)
	}
	ctx.Log.Debug("module evaluated, %d binding(s) exported", len(moduleCtx.Scope.vars))
	return out, nil
}

// CompilePackage implements Input 2 (spec.md §6): each entry of sources
// is evaluated into its own Module and registered into ctx.Modules.
// Unlike a single evaluation frame, which aborts on its first error
// (spec.md §7), compiling a package keeps going after a failing module
// so every problem across the whole map is visible in one pass; failures
// accumulate in ctx.Diags via multierr and the caller decides whether
// the combined result is fatal.
func (e *Evaluator) CompilePackage(ctx *Context, sources map[string]*ast.Module) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx.Log.Info("compiling module '%s'", name)
		mod, err := e.EvalModule(ctx, sources[name])
		if err != nil {
			diagErr, ok := err.(*diagnostics.Error)
			if !ok {
				diagErr = diagnostics.InternalErrorf(diagnostics.Position{}, "%v", err)
			}
			ctx.Log.Error("module '%s' failed to compile: %v", name, diagErr)
			ctx.Diags.Report(diagErr)
			continue
		}
		ctx.Modules.Register(name, mod)
		ctx.Log.Info("module '%s' registered", name)
	}
	return ctx.Diags.Combined()
}

// EvalSuite runs every statement in suite in order. A leading DocString
// is captured as doc and, for a module suite, bound as "__doc__"; for a
// function suite it is only returned, never bound (spec.md §4.3). A
// Return inside a function suite yields its value and stops; falling
// off the end yields None.
func (e *Evaluator) EvalSuite(ctx *Context, oc OperatorContext, suite *ast.Suite, mode SuiteMode) (value object.Object, doc string, err error) {
	items := suite.Items
	if len(items) > 0 {
		if ds, ok := items[0].(*ast.DocString); ok {
			doc = ds.Value
			items = items[1:]
		}
	}
	if mode == ModuleSuite {
		ctx.Scope.Define("__doc__", e.stringExpr(ctx, suite.Pos(), doc))
	}

	for _, stmt := range items {
		if ds, ok := stmt.(*ast.DocString); ok {
			return nil, doc, diagnostics.SyntaxishErrorf(ds.Pos(), "doc string is only legal at the head of a suite")
		}
		if ret, ok := stmt.(*ast.Return); ok {
			if mode != FunctionSuite {
				return nil, doc, diagnostics.SyntaxishErrorf(ret.Pos(), "return is only legal inside a function body")
			}
			if ret.Value == nil {
				return object.None, doc, nil
			}
			v, err := e.evalExpr(ctx, oc, ret.Value)
			return v, doc, err
		}
		if err := e.evalStmt(ctx, oc, stmt); err != nil {
			return nil, doc, err
		}
	}

	if mode == FunctionSuite {
		return object.None, doc, nil
	}
	return nil, doc, nil
}

func (e *Evaluator) stringExpr(ctx *Context, pos diagnostics.Position, value string) object.Object {
	n := ctx.Arena.CreateString(pos, value)
	return object.NewExpr(ctx.Arena, n.ID())
}

func (e *Evaluator) evalStmt(ctx *Context, oc OperatorContext, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Import:
		return e.evalImport(ctx, s)
	case *ast.ImportFrom:
		return e.evalImportFrom(ctx, s)
	case *ast.ExpressionStatement:
		_, err := e.evalExpr(ctx, oc, s.Expr)
		return err
	case *ast.Assign:
		return e.evalAssign(ctx, oc, s)
	case *ast.FunctionDef:
		return e.evalFunctionDef(ctx, oc, s)
	default:
		return diagnostics.SyntaxishErrorf(stmt.Pos(), "unsupported statement kind")
	}
}
