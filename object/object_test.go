package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

func TestTypeNodeMatches(t *testing.T) {
	a := ir.NewArena()
	intNode := a.CreateInt(diagnostics.Position{}, 3)
	floatNode := a.CreateFloat(diagnostics.Position{}, 3.5)
	intExpr := object.NewExpr(a, intNode.ID())
	floatExpr := object.NewExpr(a, floatNode.ID())

	intType := object.NewType("int", object.PrimInt)
	assert.True(t, intType.NodeMatches(intExpr))
	assert.False(t, intType.NodeMatches(floatExpr))
}

func TestTypeTimeAndDurationBothMatchTimeNode(t *testing.T) {
	a := ir.NewArena()
	n := a.CreateTime(diagnostics.Position{}, 100)
	expr := object.NewExpr(a, n.ID())

	assert.True(t, object.NewType("time", object.PrimTime).NodeMatches(expr))
	assert.True(t, object.NewType("duration", object.PrimDuration).NodeMatches(expr))
}

func TestTypeUInt128NeverMatches(t *testing.T) {
	a := ir.NewArena()
	n := a.CreateInt(diagnostics.Position{}, 1)
	expr := object.NewExpr(a, n.ID())
	assert.False(t, object.NewType("uint128", object.PrimUInt128).NodeMatches(expr))
}

func TestFunctionInvokeBindsPositionalThenKeyword(t *testing.T) {
	params := []object.Param{{Name: "a"}, {Name: "b"}}
	var seen []object.Object
	fn := object.NewFunction("f", params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		seen = args
		return object.None, nil
	})

	a := ir.NewArena()
	av := object.NewExpr(a, a.CreateInt(diagnostics.Position{}, 1).ID())
	bv := object.NewExpr(a, a.CreateInt(diagnostics.Position{}, 2).ID())

	_, err := fn.Invoke(diagnostics.Position{}, object.ArgMap{
		Positional: []object.Object{av},
		Keyword:    []object.Keyword{{Name: "b", Value: bv}},
	})
	require.NoError(t, err)
	assert.Equal(t, []object.Object{av, bv}, seen)
}

func TestFunctionInvokeMissingArgumentFails(t *testing.T) {
	params := []object.Param{{Name: "a"}, {Name: "b"}}
	fn := object.NewFunction("f", params, func(diagnostics.Position, []object.Object) (object.Object, error) {
		return object.None, nil
	})
	_, err := fn.Invoke(diagnostics.Position{}, object.ArgMap{})
	assert.Error(t, err)
}

func TestFunctionInvokeUnknownKeywordFails(t *testing.T) {
	params := []object.Param{{Name: "a"}}
	fn := object.NewFunction("f", params, func(diagnostics.Position, []object.Object) (object.Object, error) {
		return object.None, nil
	})
	_, err := fn.Invoke(diagnostics.Position{}, object.ArgMap{
		Keyword: []object.Keyword{{Name: "nope", Value: object.None}},
	})
	assert.Error(t, err)
}

func TestFunctionInvokeAnnotationMismatchFails(t *testing.T) {
	a := ir.NewArena()
	strExpr := object.NewExpr(a, a.CreateString(diagnostics.Position{}, "nope").ID())

	params := []object.Param{{Name: "x", Annotation: object.NewType("int", object.PrimInt)}}
	fn := object.NewFunction("f", params, func(diagnostics.Position, []object.Object) (object.Object, error) {
		return object.None, nil
	})
	_, err := fn.Invoke(diagnostics.Position{}, object.ArgMap{Positional: []object.Object{strExpr}})
	assert.Error(t, err)
}

func TestDataframeColumnAttributeProducesColumnExpr(t *testing.T) {
	a := ir.NewArena()
	scan := a.CreateScan(diagnostics.Position{}, "t", nil)
	df := object.NewDataframe(a, scan.ID())

	attr, err := df.GetAttribute(diagnostics.Position{}, "revenue")
	require.NoError(t, err)
	k, ok := attr.NodeKind()
	require.True(t, ok)
	assert.Equal(t, ir.KindColumn, k)
}

func TestDataframeSelectProducesSelectOperator(t *testing.T) {
	a := ir.NewArena()
	scan := a.CreateScan(diagnostics.Position{}, "t", nil)
	df := object.NewDataframe(a, scan.ID())

	cols := object.NewCollection(object.ListCollection, []object.Object{
		object.NewExpr(a, a.CreateString(diagnostics.Position{}, "a").ID()),
	})
	selectFn, err := df.GetAttribute(diagnostics.Position{}, "select")
	require.NoError(t, err)
	fn := selectFn.(*object.Function)

	result, err := fn.Invoke(diagnostics.Position{}, object.ArgMap{Positional: []object.Object{cols}})
	require.NoError(t, err)

	resultDF := result.(*object.Dataframe)
	n, ok := a.Get(resultDF.Operator())
	require.True(t, ok)
	assert.Equal(t, ir.KindSelect, n.Kind())
}

func TestDataframeAssignAttributeForbidden(t *testing.T) {
	a := ir.NewArena()
	scan := a.CreateScan(diagnostics.Position{}, "t", nil)
	df := object.NewDataframe(a, scan.ID())
	err := df.AssignAttribute(diagnostics.Position{}, "x", object.None)
	assert.Error(t, err)
}
