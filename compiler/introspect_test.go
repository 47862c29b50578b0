package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/compiler"
	"github.com/flowql/compiler/object"
)

func TestIntrospectFindsVisTaggedFunctions(t *testing.T) {
	ctx := newTestContext()

	fnDef := &ast.FunctionDef{
		Base: b(1),
		Name: "plot_latency",
		Args: []ast.Arg{{Name: "df"}},
		Decorator: &ast.Call{
			Base: b(1),
			Func: &ast.Attribute{Base: b(1), Value: &ast.Name{Base: b(1), ID: "px"}, Attribute: "vis"},
			Keywords: []ast.Keyword{
				{Name: "vega_spec", Value: &ast.Str{Base: b(1), Value: `{"mark":"line"}`}},
			},
		},
		Body: ast.NewSuite(b(1).Pos(), []ast.Stmt{
			&ast.DocString{Base: b(1), Value: "plots latency over time"},
			&ast.Return{Base: b(1), Value: &ast.Name{Base: b(1), ID: "df"}},
		}),
	}
	importPx := &ast.Import{Base: b(1), Alias: ast.Alias{Name: "px"}}
	mod := run(t, ctx, importPx, fnDef)

	infos := compiler.Introspect(mod)
	require.Len(t, infos, 1)
	assert.Equal(t, "plot_latency", infos[0].Name)
	assert.Equal(t, `{"mark":"line"}`, infos[0].Viz.VegaSpec)
	assert.Equal(t, "plots latency over time", infos[0].Doc)
	require.Len(t, infos[0].Args, 1)
	assert.Equal(t, "df", infos[0].Args[0].Name)
}

func TestMainArgSpecReportsAnnotatedParams(t *testing.T) {
	ctx := newTestContext()
	// "time" is not one of the root scope's built-in type names.
	ctx.Scope.Define("time", object.NewType("time", object.PrimTime))

	fnDef := &ast.FunctionDef{
		Base: b(1),
		Name: "main",
		Args: []ast.Arg{{Name: "start", Annotation: &ast.Name{Base: b(1), ID: "time"}}},
		Body: ast.NewSuite(b(1).Pos(), []ast.Stmt{
			&ast.Return{Base: b(1), Value: &ast.Name{Base: b(1), ID: "start"}},
		}),
	}
	mod := run(t, ctx, fnDef)

	specs, err := compiler.MainArgSpec(mod)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "start", specs[0].Name)
	assert.Equal(t, "time", specs[0].Annotation)
}

func TestMainArgSpecErrorsWithoutMain(t *testing.T) {
	ctx := newTestContext()
	mod := run(t, ctx)
	_, err := compiler.MainArgSpec(mod)
	assert.Error(t, err)
}
