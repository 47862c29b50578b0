package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
)

func TestCreateFuncAddition(t *testing.T) {
	a := ir.NewArena()
	one := a.CreateInt(diagnostics.Position{}, 1)
	two := a.CreateInt(diagnostics.Position{}, 2)
	fn, err := a.CreateFunc(diagnostics.Position{}, ir.OpMap["+"], []ir.NodeID{one.ID(), two.ID()})
	require.NoError(t, err)
	assert.Equal(t, ir.KindFunc, fn.Kind())
	assert.Equal(t, []ir.NodeID{one.ID(), two.ID()}, fn.Operands())
}

func TestCreateFuncRejectsDanglingOperand(t *testing.T) {
	a := ir.NewArena()
	_, err := a.CreateFunc(diagnostics.Position{}, ir.OpMap["+"], []ir.NodeID{999})
	assert.Error(t, err)
}

func TestDeleteNodeFailsWithLiveConsumer(t *testing.T) {
	a := ir.NewArena()
	one := a.CreateInt(diagnostics.Position{}, 1)
	two := a.CreateInt(diagnostics.Position{}, 2)
	_, err := a.CreateFunc(diagnostics.Position{}, ir.OpMap["+"], []ir.NodeID{one.ID(), two.ID()})
	require.NoError(t, err)

	err = a.DeleteNode(one.ID())
	assert.Error(t, err, "deleting an operand with a live consumer must fail")
}

func TestDeleteNodeRemovesReverseEdges(t *testing.T) {
	a := ir.NewArena()
	one := a.CreateInt(diagnostics.Position{}, 1)
	two := a.CreateInt(diagnostics.Position{}, 2)
	fn, err := a.CreateFunc(diagnostics.Position{}, ir.OpMap["+"], []ir.NodeID{one.ID(), two.ID()})
	require.NoError(t, err)

	require.NoError(t, a.DeleteNode(fn.ID()))
	require.NoError(t, a.DeleteNode(one.ID()))
	require.NoError(t, a.DeleteNode(two.ID()))

	_, ok := a.Get(fn.ID())
	assert.False(t, ok)
}

func TestNodeIDsNeverReused(t *testing.T) {
	a := ir.NewArena()
	one := a.CreateInt(diagnostics.Position{}, 1)
	require.NoError(t, a.DeleteNode(one.ID()))
	two := a.CreateInt(diagnostics.Position{}, 2)
	assert.NotEqual(t, one.ID(), two.ID())
}

func TestUnaryOpMapHasItsOwnSentinel(t *testing.T) {
	// A lookup miss in UnaryOpMap must not silently fall through to a
	// hit in the binary OpMap, even though both tables share some
	// symbols (e.g. "-"). The two are deliberately separate maps.
	_, ok := ir.UnaryOpMap["and"]
	assert.False(t, ok, "'and' is a binary-only operator")
	op, ok := ir.UnaryOpMap["-"]
	require.True(t, ok)
	assert.Equal(t, ir.OpNegate, op.Opcode)
}
