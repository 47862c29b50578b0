// Package platform builds the native "px" module registered before
// evaluation starts (spec.md §6, Input 3). The full pre-built module of
// built-in functions is out of scope; this is the minimal, explicitly
// scoped slice SPEC_FULL.md §4.6 carves out: dataframe construction,
// aggregation helpers, a time helper, a sink constructor, and a
// visualization-tagging decorator grounded on original_source's
// vis_spec/GetVisFuncsInfo (ast_visitor.cc).
package platform

import (
	"time"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

// New builds the px module bound to arena: every native function it
// exposes creates nodes in arena directly, since the platform module is
// shared across exactly one compile (spec.md §5).
func New(arena *ir.Arena) *object.Module {
	mod := object.NewModule("px")
	mod.Define("DataFrame", dataFrameFunc(arena))
	mod.Define("mean", aggHelper(arena, "mean", ir.OpMean))
	mod.Define("sum", aggHelper(arena, "sum", ir.OpSum))
	mod.Define("count", aggHelper(arena, "count", ir.OpCount))
	mod.Define("max", aggHelper(arena, "max", ir.OpMax))
	mod.Define("min", aggHelper(arena, "min", ir.OpMin))
	mod.Define("now", nowFunc(arena))
	mod.Define("display", displayFunc(arena))
	mod.Define("vis", visFunc(arena))
	return mod
}

// dataFrameFunc implements px.DataFrame(table=<str>, select=<list[str]>),
// constructing a Dataframe wrapping a source-scan operator.
func dataFrameFunc(arena *ir.Arena) *object.Function {
	params := []object.Param{{Name: "table"}, {Name: "select"}}
	return object.NewFunction("DataFrame", params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		table, err := object.LiteralString(pos, arena, args[0])
		if err != nil {
			return nil, err
		}
		var columns []string
		if coll, ok := args[1].(*object.Collection); ok {
			for _, item := range coll.Items {
				name, err := object.LiteralString(pos, arena, item)
				if err != nil {
					return nil, err
				}
				columns = append(columns, name)
			}
		}
		n := arena.CreateScan(pos, table, columns)
		return object.NewDataframe(arena, n.ID()), nil
	})
}

// aggHelper implements px.mean/sum/count/max/min(col): each wraps its
// single operand in a Func IR node with the matching aggregate opcode,
// for use inside a Dataframe's agg(...) call.
func aggHelper(arena *ir.Arena, name string, opcode ir.Opcode) *object.Function {
	params := []object.Param{{Name: "column"}}
	op := ir.Op{Opcode: opcode, Symbol: name}
	return object.NewFunction(name, params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		operand := args[0]
		if !operand.HasNode() {
			return nil, diagnostics.TypeErrorf(pos, "%s() argument must be an expression", name)
		}
		n, err := arena.CreateFunc(pos, op, []ir.NodeID{operand.Node()})
		if err != nil {
			return nil, err
		}
		return object.NewExpr(arena, n.ID()), nil
	})
}

// nowFunc implements px.now(): a Time literal evaluated eagerly at
// compile time, consistent with the synchronous evaluation model
// (spec.md §5).
func nowFunc(arena *ir.Arena) *object.Function {
	return object.NewFunction("now", nil, func(pos diagnostics.Position, _ []object.Object) (object.Object, error) {
		n := arena.CreateTime(pos, time.Now().UnixNano())
		return object.NewExpr(arena, n.ID()), nil
	})
}

// displayFunc implements px.display(df, name): equivalent to
// constructing a MemorySink operator named name over df's operator.
func displayFunc(arena *ir.Arena) *object.Function {
	params := []object.Param{{Name: "df"}, {Name: "name"}}
	return object.NewFunction("display", params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		df, ok := args[0].(*object.Dataframe)
		if !ok {
			return nil, diagnostics.TypeErrorf(pos, "display() first argument must be a dataframe")
		}
		name, err := object.LiteralString(pos, arena, args[1])
		if err != nil {
			return nil, err
		}
		if _, err := arena.CreateMemorySink(pos, df.Operator(), name, nil); err != nil {
			return nil, err
		}
		return object.None, nil
	})
}

// visFunc implements px.vis(vega_spec=<str>), a decorator factory:
// called with the Vega-Lite spec string, it returns the actual
// decorator, a native Function that tags the defined function with a
// VizSpec and returns it unchanged. Grounded on original_source's
// vis_spec()/GetVisFuncsInfo, which surfaces exactly one field per
// tagged function: a vega_spec string (ast_visitor.cc).
func visFunc(arena *ir.Arena) *object.Function {
	params := []object.Param{{Name: "vega_spec"}}
	return object.NewFunction("vis", params, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
		specObj := args[0]
		decoratorParams := []object.Param{{Name: "fn"}}
		decorator := object.NewFunction("vis_decorator", decoratorParams, func(pos diagnostics.Position, args []object.Object) (object.Object, error) {
			fn, ok := args[0].(*object.Function)
			if !ok {
				return nil, diagnostics.TypeErrorf(pos, "@px.vis(...) may only decorate a function")
			}
			vegaSpec, err := object.LiteralString(pos, arena, specObj)
			if err != nil {
				return nil, err
			}
			fn.Viz = &object.VizSpec{VegaSpec: vegaSpec}
			return fn, nil
		})
		return decorator, nil
	})
}
