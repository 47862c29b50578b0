package object

import (
	"github.com/flowql/compiler/ir"
)

// Expr wraps an IR expression node. It carries no state of its own
// beyond the id and the arena needed to resolve it (spec.md §3).
type Expr struct {
	Base
	arena *ir.Arena
	id    ir.NodeID
}

func NewExpr(arena *ir.Arena, id ir.NodeID) *Expr {
	return &Expr{arena: arena, id: id}
}

func (e *Expr) Kind() Kind       { return KindExpr }
func (e *Expr) HasNode() bool    { return true }
func (e *Expr) Node() ir.NodeID  { return e.id }

func (e *Expr) NodeKind() (ir.NodeKind, bool) {
	n, ok := e.arena.Get(e.id)
	if !ok {
		return 0, false
	}
	return n.Kind(), true
}
