package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/compiler"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
	"github.com/flowql/compiler/platform"
)

func newTestContext() *compiler.Context {
	handler := compiler.NewModuleHandler()
	ctx := compiler.NewContext(handler)
	handler.Register("px", platform.New(ctx.Arena))
	return ctx
}

func b(line int) ast.Base {
	return ast.NewBase(diagnostics.Position{File: "t.flow", Line: line, Column: 1})
}

func run(t *testing.T, ctx *compiler.Context, stmts ...ast.Stmt) *object.Module {
	suite := ast.NewSuite(b(1).Pos(), stmts)
	mod := ast.NewModule(b(1).Pos(), suite)
	out, err := compiler.NewEvaluator().EvalModule(ctx, mod)
	require.NoError(t, err)
	return out
}

func lookup(t *testing.T, mod *object.Module, name string) object.Object {
	v, err := mod.GetAttribute(diagnostics.Position{}, name)
	require.NoError(t, err)
	return v
}

// Scenario 1 (spec.md §8): x = 1 + 2 binds x to an Expr over a Func IR
// node with opcode + and two Int literal operands.
func TestScenarioArithmeticBinding(t *testing.T) {
	ctx := newTestContext()
	assign := &ast.Assign{
		Base:   b(1),
		Target: &ast.Name{Base: b(1), ID: "x"},
		Value: &ast.BinOp{
			Base: b(1), Op: "+",
			Left:  &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 1},
			Right: &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 2},
		},
	}
	mod := run(t, ctx, assign)

	x := lookup(t, mod, "x")
	expr := x.(*object.Expr)
	node, ok := ctx.Arena.Get(expr.Node())
	require.True(t, ok)
	fn := node.(*ir.FuncNode)
	assert.Equal(t, ir.OpAdd, fn.Op.Opcode)
	assert.Len(t, fn.Args, 2)
}

// Scenario 3 (spec.md §8): df['b'] = df['a'] rebinds df to a new
// Dataframe with an added column b; the column-reference IR produced
// for the subscript LHS does not survive the compile.
func TestScenarioMapAssignmentRewrite(t *testing.T) {
	ctx := newTestContext()
	scan := ctx.Arena.CreateScan(diagnostics.Position{}, "events", nil)
	ctx.Scope.Define("df", object.NewDataframe(ctx.Arena, scan.ID()))

	before := len(ctx.Arena.All())

	assign := &ast.Assign{
		Base: b(1),
		Target: &ast.Subscript{
			Base: b(1), Value: &ast.Name{Base: b(1), ID: "df"}, SliceKind: ast.IndexSlice,
			Index: &ast.Str{Base: b(1), Value: "b"},
		},
		Value: &ast.Subscript{
			Base: b(1), Value: &ast.Name{Base: b(1), ID: "df"}, SliceKind: ast.IndexSlice,
			Index: &ast.Str{Base: b(1), Value: "a"},
		},
	}
	mod := run(t, ctx, assign)

	df := lookup(t, mod, "df")
	newDF := df.(*object.Dataframe)
	node, ok := ctx.Arena.Get(newDF.Operator())
	require.True(t, ok)
	mapNode := node.(*ir.MapNode)
	assert.Equal(t, []string{"b"}, mapNode.Columns)
	assert.Equal(t, scan.ID(), mapNode.Parent)

	// one new live node: the Map itself, plus the RHS column reference
	// ('a') it consumes. The LHS placeholder ('b') was created and
	// deleted, netting zero.
	after := len(ctx.Arena.All())
	assert.Equal(t, before+2, after)
}

// Scenario 4 (spec.md §8): def f(x: int): return x + 1; y = f(3) — y
// is an Expr over a Func IR with opcode +, operands [3, 1].
func TestScenarioUserFunctionInlining(t *testing.T) {
	ctx := newTestContext()

	fnDef := &ast.FunctionDef{
		Base: b(1),
		Name: "f",
		Args: []ast.Arg{{Name: "x", Annotation: &ast.Name{Base: b(1), ID: "int"}}},
		Body: ast.NewSuite(b(1).Pos(), []ast.Stmt{
			&ast.Return{Base: b(1), Value: &ast.BinOp{
				Base: b(1), Op: "+",
				Left:  &ast.Name{Base: b(1), ID: "x"},
				Right: &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 1},
			}},
		}),
	}
	callF := &ast.Assign{
		Base:   b(2),
		Target: &ast.Name{Base: b(2), ID: "y"},
		Value: &ast.Call{
			Base: b(2), Func: &ast.Name{Base: b(2), ID: "f"},
			Args: []ast.Expr{&ast.Number{Base: b(2), NumKind: ast.IntNumber, Int: 3}},
		},
	}
	mod := run(t, ctx, fnDef, callF)

	y := lookup(t, mod, "y")
	expr := y.(*object.Expr)
	node, ok := ctx.Arena.Get(expr.Node())
	require.True(t, ok)
	fn := node.(*ir.FuncNode)
	assert.Equal(t, ir.OpAdd, fn.Op.Opcode)
	require.Len(t, fn.Args, 2)

	left, _ := ctx.Arena.Get(fn.Args[0])
	assert.Equal(t, int64(3), left.(*ir.IntNode).Value)
	right, _ := ctx.Arena.Get(fn.Args[1])
	assert.Equal(t, int64(1), right.(*ir.IntNode).Value)
}

// Scenario 5 (spec.md §8): `from m import g` where module m lacks g is
// an ImportError at the import site.
func TestScenarioImportFromMissingAttribute(t *testing.T) {
	ctx := newTestContext()
	ctx.Modules.Register("m", object.NewModule("m"))

	imp := &ast.ImportFrom{
		Base:    b(1),
		Module:  "m",
		Aliases: []ast.Alias{{Name: "g"}},
	}
	_, err := compiler.NewEvaluator().EvalModule(ctx, ast.NewModule(b(1).Pos(), ast.NewSuite(b(1).Pos(), []ast.Stmt{imp})))
	require.Error(t, err)
	diagErr, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	assert.Equal(t, diagnostics.ImportError, diagErr.Kind)
}

// spec.md §4.3 / ast_visitor.cc's ValidateSubscriptValue: a foreign
// dataframe's column may not be referenced inside a map-assignment RHS.
func TestMapAssignmentRejectsForeignDataframeReference(t *testing.T) {
	ctx := newTestContext()
	dfScan := ctx.Arena.CreateScan(diagnostics.Position{}, "events", nil)
	otherScan := ctx.Arena.CreateScan(diagnostics.Position{}, "other_events", nil)
	ctx.Scope.Define("df", object.NewDataframe(ctx.Arena, dfScan.ID()))
	ctx.Scope.Define("other", object.NewDataframe(ctx.Arena, otherScan.ID()))

	assign := &ast.Assign{
		Base: b(1),
		Target: &ast.Subscript{
			Base: b(1), Value: &ast.Name{Base: b(1), ID: "df"}, SliceKind: ast.IndexSlice,
			Index: &ast.Str{Base: b(1), Value: "x"},
		},
		Value: &ast.Subscript{
			Base: b(1), Value: &ast.Name{Base: b(1), ID: "other"}, SliceKind: ast.IndexSlice,
			Index: &ast.Str{Base: b(1), Value: "y"},
		},
	}
	suite := ast.NewSuite(b(1).Pos(), []ast.Stmt{assign})
	_, err := compiler.NewEvaluator().EvalModule(ctx, ast.NewModule(b(1).Pos(), suite))
	require.Error(t, err)
	diagErr, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	assert.Equal(t, diagnostics.NameError, diagErr.Kind)
}

func TestUnaryPlusIsIdentity(t *testing.T) {
	ctx := newTestContext()
	before := len(ctx.Arena.All())

	assign := &ast.Assign{
		Base:   b(1),
		Target: &ast.Name{Base: b(1), ID: "x"},
		Value: &ast.UnaryOp{
			Base: b(1), Op: "+",
			Operand: &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 5},
		},
	}
	mod := run(t, ctx, assign)
	// two new nodes: the module's __doc__ string and the Int literal 5;
	// unary + adds none of its own.
	after := len(ctx.Arena.All())
	assert.Equal(t, before+2, after, "unary + must not create a new node")

	x := lookup(t, mod, "x")
	node, ok := ctx.Arena.Get(x.(*object.Expr).Node())
	require.True(t, ok)
	assert.Equal(t, int64(5), node.(*ir.IntNode).Value)
}

func TestRootScopeSeeding(t *testing.T) {
	ctx := newTestContext()
	for _, name := range []string{"bool", "int", "float", "string", "None", "True", "False"} {
		_, ok := ctx.Scope.Lookup(name)
		assert.True(t, ok, "expected %q to be bound in a fresh compile", name)
	}
}

func TestChildScopeDoesNotMutateParent(t *testing.T) {
	parent := compiler.NewRootScope()
	parent.Define("x", object.None)
	child := compiler.NewChildScope(parent)
	child.Define("x", object.NewCollection(object.ListCollection, nil))

	v, _ := parent.Lookup("x")
	assert.Equal(t, object.None, v)
}

// spec.md §3, Input 2: a module's bindings live only in its own child
// scope, never in the scope that evaluated it.
func TestEvalModuleDoesNotLeakIntoCallerScope(t *testing.T) {
	ctx := newTestContext()
	mod := run(t, ctx, &ast.Assign{
		Base:   b(1),
		Target: &ast.Name{Base: b(1), ID: "leaked"},
		Value:  &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 1},
	})

	assert.True(t, mod.HasAttribute("leaked"))
	_, ok := ctx.Scope.Lookup("leaked")
	assert.False(t, ok, "module binding must not appear in the scope that evaluated it")
}

// spec.md §6, Input 2 / §7: CompilePackage keeps evaluating every
// module in the map and folds every failure into one combined error,
// instead of stopping at the first.
func TestCompilePackageAccumulatesFailuresAcrossModules(t *testing.T) {
	ctx := newTestContext()

	bad := ast.NewSuite(b(1).Pos(), []ast.Stmt{
		&ast.Return{Base: b(1), Value: &ast.Name{Base: b(1), ID: "x"}},
	})
	good := ast.NewSuite(b(1).Pos(), []ast.Stmt{
		&ast.Assign{Base: b(1), Target: &ast.Name{Base: b(1), ID: "x"}, Value: &ast.Number{Base: b(1), NumKind: ast.IntNumber, Int: 1}},
	})

	sources := map[string]*ast.Module{
		"bad1": ast.NewModule(b(1).Pos(), bad),
		"bad2": ast.NewModule(b(1).Pos(), bad),
		"good": ast.NewModule(b(1).Pos(), good),
	}

	err := compiler.NewEvaluator().CompilePackage(ctx, sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "return is only legal")
	assert.Equal(t, 2, ctx.Diags.ErrorCount())

	_, lookupErr := ctx.Modules.Lookup(diagnostics.Position{}, "good")
	assert.NoError(t, lookupErr)
	_, lookupErr = ctx.Modules.Lookup(diagnostics.Position{}, "bad1")
	assert.Error(t, lookupErr)
}
