package compiler

import (
	"github.com/pkg/errors"

	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

func (e *Evaluator) evalImport(ctx *Context, s *ast.Import) error {
	mod, err := ctx.Modules.Lookup(s.Pos(), s.Alias.Name)
	if err != nil {
		return err
	}
	ctx.Scope.Define(s.Alias.Bound(), mod)
	return nil
}

func (e *Evaluator) evalImportFrom(ctx *Context, s *ast.ImportFrom) error {
	if s.Level != 0 {
		return diagnostics.SyntaxishErrorf(s.Pos(), "relative imports (level %d) are not supported", s.Level)
	}
	mod, err := ctx.Modules.Lookup(s.Pos(), s.Module)
	if err != nil {
		return err
	}
	for _, alias := range s.Aliases {
		attr, err := mod.GetAttribute(s.Pos(), alias.Name)
		if err != nil {
			return diagnostics.ImportErrorf(s.Pos(), "module '%s' has no attribute '%s'", s.Module, alias.Name)
		}
		ctx.Scope.Define(alias.Bound(), attr)
	}
	return nil
}

// evalAssign implements the three assignment forms of spec.md §4.3,
// distinguished by target kind.
func (e *Evaluator) evalAssign(ctx *Context, oc OperatorContext, s *ast.Assign) error {
	switch target := s.Target.(type) {
	case *ast.Name:
		val, err := e.evalExpr(ctx, oc, s.Value)
		if err != nil {
			return err
		}
		ctx.Scope.Define(target.ID, val)
		return nil

	case *ast.Subscript:
		if target.SliceKind != ast.IndexSlice {
			return diagnostics.SyntaxishErrorf(target.Pos(), "only index subscripts are supported as an assignment target")
		}
		name, ok := target.Value.(*ast.Name)
		if !ok {
			return diagnostics.SyntaxishErrorf(target.Pos(), "map-assignment target must be a bare name subscript")
		}
		df, err := e.dataframeNamed(ctx, name)
		if err != nil {
			return err
		}
		keyObj, err := e.evalExpr(ctx, oc, target.Index)
		if err != nil {
			return err
		}
		column, err := object.LiteralString(target.Pos(), ctx.Arena, keyObj)
		if err != nil {
			return err
		}
		return e.mapAssign(ctx, oc, name, df, column, target.Pos(), s.Value)

	case *ast.Attribute:
		lhs, err := e.evalExpr(ctx, oc, target.Value)
		if err != nil {
			return err
		}
		if df, ok := lhs.(*object.Dataframe); ok {
			name, ok := target.Value.(*ast.Name)
			if !ok {
				return diagnostics.SyntaxishErrorf(target.Pos(), "map-assignment target must be a bare name attribute")
			}
			return e.mapAssign(ctx, oc, name, df, target.Attribute, target.Pos(), s.Value)
		}
		// Attribute target on a non-Dataframe: evaluate the RHS
		// generically and dispatch to assign_attribute (spec.md §9's
		// graceful re-implementation of the source's Call-node bug).
		val, err := e.evalExpr(ctx, oc, s.Value)
		if err != nil {
			return err
		}
		return lhs.AssignAttribute(target.Pos(), target.Attribute, val)

	default:
		return diagnostics.SyntaxishErrorf(s.Pos(), "unsupported assignment target")
	}
}

func (e *Evaluator) dataframeNamed(ctx *Context, name *ast.Name) (*object.Dataframe, error) {
	base, err := ctx.Scope.Get(name.Pos(), name.ID)
	if err != nil {
		return nil, err
	}
	df, ok := base.(*object.Dataframe)
	if !ok {
		return nil, diagnostics.TypeErrorf(name.Pos(), "'%s' is not a dataframe", name.ID)
	}
	return df, nil
}

// mapAssign is the shared rewrite both the subscript and attribute
// assignment forms collapse into (spec.md §4.3, case 2): the RHS is
// evaluated in an operator context rooted at df's operator and widened
// to let bare names reference df's columns, a Map node is created over
// it, and the rewrite's own placeholder column reference is created
// and immediately deleted so no dangling LHS reference survives
// (spec.md §8's tested invariant).
func (e *Evaluator) mapAssign(ctx *Context, oc OperatorContext, name *ast.Name, df *object.Dataframe, column string, pos diagnostics.Position, rhs ast.Expr) error {
	placeholder := ctx.Arena.CreateColumn(pos, column)

	widened := oc.WithReferenceable(name.ID).WithParent(RoleMapAssignment, df.Operator())
	rhsVal, err := e.evalExpr(ctx, widened, rhs)
	if err != nil {
		return err
	}
	if !rhsVal.HasNode() {
		return diagnostics.TypeErrorf(rhs.Pos(), "map-assignment value must be an expression")
	}

	mapped, err := ctx.Arena.CreateMap(pos, df.Operator(), []string{column}, []ir.NodeID{rhsVal.Node()})
	if err != nil {
		return errors.Wrap(err, "map-assignment")
	}

	if err := ctx.Arena.DeleteNode(placeholder.ID()); err != nil {
		return errors.Wrap(err, "map-assignment cleanup")
	}

	ctx.Scope.Define(name.ID, object.NewDataframe(ctx.Arena, mapped.ID()))
	return nil
}
