package compiler

import (
	"github.com/pkg/errors"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

func (e *Evaluator) evalExpr(ctx *Context, oc OperatorContext, expr ast.Expr) (object.Object, error) {
	switch ex := expr.(type) {
	case *ast.Name:
		return ctx.Scope.Get(ex.Pos(), ex.ID)
	case *ast.Number:
		return e.evalNumber(ctx, ex)
	case *ast.Str:
		n := ctx.Arena.CreateString(ex.Pos(), ex.Value)
		return object.NewExpr(ctx.Arena, n.ID()), nil
	case *ast.List:
		return e.evalSequence(ctx, oc, object.ListCollection, ex.Elts)
	case *ast.Tuple:
		return e.evalSequence(ctx, oc, object.TupleCollection, ex.Elts)
	case *ast.Attribute:
		lhs, err := e.evalExpr(ctx, oc, ex.Value)
		if err != nil {
			return nil, err
		}
		return lhs.GetAttribute(ex.Pos(), ex.Attribute)
	case *ast.Subscript:
		return e.evalSubscript(ctx, oc, ex)
	case *ast.Call:
		return e.evalCall(ctx, oc, ex)
	case *ast.BinOp:
		return e.evalOpNode(ctx, oc, ex.Pos(), ex.Op, []ast.Expr{ex.Left, ex.Right}, ir.OpMap)
	case *ast.BoolOp:
		return e.evalOpNode(ctx, oc, ex.Pos(), ex.Op, []ast.Expr{ex.Left, ex.Right}, ir.OpMap)
	case *ast.Compare:
		// ast.Compare already models exactly one operator and one
		// right-hand comparator, so the source's chained-compare case
		// (spec.md §9) cannot arise here by construction.
		return e.evalOpNode(ctx, oc, ex.Pos(), ex.Op, []ast.Expr{ex.Left, ex.Comparator}, ir.OpMap)
	case *ast.UnaryOp:
		return e.evalUnaryOp(ctx, oc, ex)
	default:
		return nil, diagnostics.SyntaxishErrorf(expr.Pos(), "unsupported expression kind")
	}
}

func (e *Evaluator) evalNumber(ctx *Context, n *ast.Number) (object.Object, error) {
	if n.NumKind == ast.FloatNumber {
		node := ctx.Arena.CreateFloat(n.Pos(), n.Float)
		return object.NewExpr(ctx.Arena, node.ID()), nil
	}
	node := ctx.Arena.CreateInt(n.Pos(), n.Int)
	return object.NewExpr(ctx.Arena, node.ID()), nil
}

func (e *Evaluator) evalSequence(ctx *Context, oc OperatorContext, kind object.CollectionKind, elts []ast.Expr) (object.Object, error) {
	items := make([]object.Object, 0, len(elts))
	for _, el := range elts {
		v, err := e.evalExpr(ctx, oc, el)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return object.NewCollection(kind, items), nil
}

// evalSubscript widens the index expression's operator context with
// the LHS's own name when the LHS is a bare Name, so a predicate like
// `df[df['a'] > 3]` can reference df's columns inside the index
// (spec.md §4.3). Before evaluating the base it validates that base
// against oc, the context the subscript itself was reached under.
func (e *Evaluator) evalSubscript(ctx *Context, oc OperatorContext, sub *ast.Subscript) (object.Object, error) {
	if sub.SliceKind != ast.IndexSlice {
		return nil, diagnostics.SyntaxishErrorf(sub.Pos(), "slice ranges are not supported")
	}
	if err := e.validateSubscriptValue(oc, sub.Value); err != nil {
		return nil, err
	}
	lhs, err := e.evalExpr(ctx, oc, sub.Value)
	if err != nil {
		return nil, err
	}
	if !lhs.HasSubscript() {
		return nil, diagnostics.TypeErrorf(sub.Pos(), "object does not support subscripting")
	}
	idxOC := oc
	if name, ok := sub.Value.(*ast.Name); ok {
		idxOC = oc.WithReferenceable(name.ID)
	}
	idxFn, err := lhs.GetSubscript(sub.Pos())
	if err != nil {
		return nil, err
	}
	idxVal, err := e.evalExpr(ctx, idxOC, sub.Index)
	if err != nil {
		return nil, err
	}
	return idxFn.Invoke(sub.Pos(), object.ArgMap{Positional: []object.Object{idxVal}})
}

// validateSubscriptValue ports ast_visitor.cc's ValidateSubscriptValue:
// outside a map-assignment RHS, any subscript base is fine. Inside one,
// a bare-Name base must be in oc.Referenceable, and an Attribute base
// is validated through its own value so a chain like `df.ctx['service']`
// is checked against its eventual Name (spec.md §4.3).
func (e *Evaluator) validateSubscriptValue(oc OperatorContext, base ast.Expr) error {
	if oc.Role != RoleMapAssignment {
		return nil
	}
	switch v := base.(type) {
	case *ast.Attribute:
		return e.validateSubscriptValue(oc, v.Value)
	case *ast.Name:
		if !oc.CanReference(v.ID) {
			return diagnostics.NameErrorf(v.Pos(), "name '%s' is not available in this context", v.ID)
		}
	}
	return nil
}

// evalOpNode backs BinOp, BoolOp, and Compare: map the operator symbol
// through table to an opcode, evaluate every operand, and build a Func
// IR node application.
func (e *Evaluator) evalOpNode(ctx *Context, oc OperatorContext, pos diagnostics.Position, sym string, operands []ast.Expr, table map[string]ir.Op) (object.Object, error) {
	op, ok := table[sym]
	if !ok {
		return nil, diagnostics.SyntaxishErrorf(pos, "unsupported operator '%s'", sym)
	}
	ids := make([]ir.NodeID, 0, len(operands))
	for _, o := range operands {
		v, err := e.evalExpr(ctx, oc, o)
		if err != nil {
			return nil, err
		}
		if !v.HasNode() {
			return nil, diagnostics.TypeErrorf(o.Pos(), "operand does not produce an expression")
		}
		ids = append(ids, v.Node())
	}
	n, err := ctx.Arena.CreateFunc(pos, op, ids)
	if err != nil {
		return nil, errors.Wrap(err, "operator application")
	}
	return object.NewExpr(ctx.Arena, n.ID()), nil
}

// evalUnaryOp looks the operator up in UnaryOpMap directly, never
// falling back to the binary OpMap's miss path (spec.md §9's fix for
// the source's cut-and-paste sentinel bug). A unary '+' is the identity
// and creates no new node (spec.md §8's tested invariant).
func (e *Evaluator) evalUnaryOp(ctx *Context, oc OperatorContext, expr *ast.UnaryOp) (object.Object, error) {
	op, ok := ir.UnaryOpMap[expr.Op]
	if !ok {
		return nil, diagnostics.SyntaxishErrorf(expr.Pos(), "unsupported unary operator '%s'", expr.Op)
	}
	v, err := e.evalExpr(ctx, oc, expr.Operand)
	if err != nil {
		return nil, err
	}
	if !v.HasNode() {
		return nil, diagnostics.TypeErrorf(expr.Operand.Pos(), "operand does not produce an expression")
	}
	if op.Opcode == ir.OpNonOp {
		return v, nil
	}
	n, err := ctx.Arena.CreateFunc(expr.Pos(), op, []ir.NodeID{v.Node()})
	if err != nil {
		return nil, errors.Wrap(err, "unary operator application")
	}
	return object.NewExpr(ctx.Arena, n.ID()), nil
}
