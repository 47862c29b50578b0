package compiler

import (
	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

// evalCall evaluates the callee and arguments and invokes the result.
// A column-reference Expr as callee gets the "dataframe has no method"
// diagnostic; any other non-Function callee gets a generic "not
// callable" (spec.md §4.3).
func (e *Evaluator) evalCall(ctx *Context, oc OperatorContext, call *ast.Call) (object.Object, error) {
	callee, err := e.evalExpr(ctx, oc, call.Func)
	if err != nil {
		return nil, err
	}
	if k, ok := callee.NodeKind(); ok && k == ir.KindColumn {
		n, ok := ctx.Arena.Get(callee.Node())
		if !ok {
			return nil, diagnostics.InternalErrorf(call.Func.Pos(), "column reference does not name a live node")
		}
		return nil, diagnostics.TypeErrorf(call.Func.Pos(), "dataframe has no method '%s'", n.(*ir.ColumnNode).ColumnName)
	}

	fn, ok := callee.(*object.Function)
	if !ok {
		return nil, diagnostics.TypeErrorf(call.Func.Pos(), "object is not callable")
	}

	args, err := e.evalArgs(ctx, oc, call)
	if err != nil {
		return nil, err
	}
	return fn.Invoke(call.Pos(), args)
}

func (e *Evaluator) evalArgs(ctx *Context, oc OperatorContext, call *ast.Call) (object.ArgMap, error) {
	var args object.ArgMap
	for _, a := range call.Args {
		v, err := e.evalExpr(ctx, oc, a)
		if err != nil {
			return args, err
		}
		args.Positional = append(args.Positional, v)
	}
	for _, kw := range call.Keywords {
		v, err := e.evalExpr(ctx, oc, kw.Value)
		if err != nil {
			return args, err
		}
		args.Keyword = append(args.Keyword, object.Keyword{Name: kw.Name, Value: v})
	}
	return args, nil
}

// evalFunctionDef implements spec.md §4.3's function-definition
// semantics: annotations are evaluated eagerly in the enclosing scope,
// variadics/kwargs/defaults are rejected, the body is captured by
// reference (the suite plus the defining scope), and at most one
// decorator may wrap the result.
func (e *Evaluator) evalFunctionDef(ctx *Context, oc OperatorContext, def *ast.FunctionDef) error {
	if def.HasVarArgs || def.HasKwArgs {
		return diagnostics.SyntaxishErrorf(def.Pos(), "variadic and keyword-variadic parameters are not supported")
	}
	for _, d := range def.Defaults {
		if d != nil {
			return diagnostics.SyntaxishErrorf(def.Pos(), "default parameter values are not supported")
		}
	}

	params := make([]object.Param, len(def.Args))
	for i, a := range def.Args {
		var ann object.Object
		if a.Annotation != nil {
			v, err := e.evalExpr(ctx, oc, a.Annotation)
			if err != nil {
				return err
			}
			ann = v
		}
		params[i] = object.Param{Name: a.Name, Annotation: ann}
	}

	definingScope := ctx.Scope
	body := def.Body
	fnName := def.Name
	fn := object.NewFunction(def.Name, params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		ctx.Log.Debug("inlining call to '%s' at %s", fnName, pos)
		childScope := NewChildScope(definingScope)
		for i, p := range params {
			childScope.Define(p.Name, args[i])
		}
		childCtx := ctx.WithScope(childScope)
		value, _, err := e.EvalSuite(childCtx, EmptyOperatorContext(), body, FunctionSuite)
		if err != nil {
			ctx.Log.Error("call to '%s' failed: %v", fnName, err)
		}
		return value, err
	})

	var doc string
	if len(body.Items) > 0 {
		if ds, ok := body.Items[0].(*ast.DocString); ok {
			doc = ds.Value
		}
	}

	var bound object.Object = fn
	if def.Decorator != nil {
		decObj, err := e.evalExpr(ctx, oc, def.Decorator)
		if err != nil {
			return err
		}
		decFn, ok := decObj.(*object.Function)
		if !ok {
			return diagnostics.TypeErrorf(def.Decorator.Pos(), "decorator must be callable")
		}
		result, err := decFn.Invoke(def.Pos(), object.ArgMap{Positional: []object.Object{fn}})
		if err != nil {
			return err
		}
		bound = result
	}

	// The doc string attaches to the final, post-decoration object
	// (ast_visitor.cc's ProcessFunctionDefNode runs AddDocString after
	// the decorator loop, on the defined_func it ends with). Annotations
	// stay on the defined function's Params; when the decorator returns
	// a different Function, that Function keeps its own Params.
	if boundFn, ok := bound.(*object.Function); ok {
		boundFn.Doc = doc
	}

	ctx.Scope.Define(def.Name, bound)
	return nil
}
