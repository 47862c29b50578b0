package object

import (
	"github.com/pkg/errors"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
)

// Dataframe wraps a relational operator IR node. Every operator method
// below rewrites immutably: it creates a new operator node over this
// dataframe's own and returns a fresh Dataframe wrapping it (groupby
// creates no node itself; the agg on its result does), the same
// pattern map-assignment uses (spec.md §4.3) and that the Carnot
// original applies uniformly across select/filter/agg/merge.
type Dataframe struct {
	Base
	arena    *ir.Arena
	operator ir.NodeID
}

func NewDataframe(arena *ir.Arena, operator ir.NodeID) *Dataframe {
	return &Dataframe{arena: arena, operator: operator}
}

func (d *Dataframe) Kind() Kind         { return KindDataframe }
func (d *Dataframe) Operator() ir.NodeID { return d.operator }
func (d *Dataframe) Arena() *ir.Arena    { return d.arena }

// AssignAttribute is forbidden on Dataframe (spec.md §4.2): column
// rewrites go through the evaluator's special map-assignment path, not
// through a generic attribute mutation.
func (d *Dataframe) AssignAttribute(pos diagnostics.Position, name string, _ Object) error {
	return errors.Wrapf(ErrNoAssignAttribute, "%s: dataframe column %q must be assigned through map-assignment, not directly", pos, name)
}

// HasAttribute is unconditionally true: a Dataframe attribute is either
// one of the fixed operator methods (select/filter/agg/groupby/merge)
// or, for any other name, a column reference.
func (d *Dataframe) HasAttribute(string) bool { return true }

func (d *Dataframe) GetAttribute(pos diagnostics.Position, name string) (Object, error) {
	switch name {
	case "select":
		return d.selectMethod(), nil
	case "filter":
		return d.filterMethod(), nil
	case "agg":
		return d.aggMethod(nil), nil
	case "groupby":
		return d.groupbyMethod(), nil
	case "merge":
		return d.mergeMethod(), nil
	default:
		return d.column(pos, name)
	}
}

func (d *Dataframe) HasSubscript() bool { return true }

// GetSubscript returns a Function that, called with a single string
// key, produces the column reference (spec.md §4.2: "has_subscript() /
// get_subscript() — index-style access returning a Function that
// performs the indexing when called").
func (d *Dataframe) GetSubscript(pos diagnostics.Position) (*Function, error) {
	return NewFunction("__getitem__", []Param{{Name: "key"}}, func(pos diagnostics.Position, args []Object) (Object, error) {
		key, err := d.literalString(pos, args[0])
		if err != nil {
			return nil, err
		}
		return d.column(pos, key)
	}), nil
}

func (d *Dataframe) column(pos diagnostics.Position, name string) (Object, error) {
	n := d.arena.CreateColumn(pos, name)
	return NewExpr(d.arena, n.ID()), nil
}

func (d *Dataframe) literalString(pos diagnostics.Position, o Object) (string, error) {
	return LiteralString(pos, d.arena, o)
}

// LiteralString extracts the Go string value backing a String-kind
// Expr. Used anywhere a script value must resolve to a compile-time
// constant name: dataframe subscript keys, merge() keyword arguments.
func LiteralString(pos diagnostics.Position, arena *ir.Arena, o Object) (string, error) {
	k, ok := o.NodeKind()
	if !ok || k != ir.KindString {
		return "", diagnostics.TypeErrorf(pos, "expected a string literal")
	}
	n, ok := arena.Get(o.Node())
	if !ok {
		return "", diagnostics.InternalErrorf(pos, "string literal expr does not name a live node")
	}
	return n.(*ir.StringNode).Value, nil
}

func stringSlice(pos diagnostics.Position, arena *ir.Arena, o Object) ([]string, error) {
	coll, ok := o.(*Collection)
	if !ok {
		return nil, diagnostics.TypeErrorf(pos, "expected a list of column names")
	}
	out := make([]string, 0, len(coll.Items))
	for _, item := range coll.Items {
		k, ok := item.NodeKind()
		if !ok || k != ir.KindString {
			return nil, diagnostics.TypeErrorf(pos, "expected a list of string column names")
		}
		n, ok := arena.Get(item.Node())
		if !ok {
			return nil, diagnostics.InternalErrorf(pos, "column name expr does not name a live node")
		}
		out = append(out, n.(*ir.StringNode).Value)
	}
	return out, nil
}

func (d *Dataframe) selectMethod() *Function {
	return NewFunction("select", []Param{{Name: "columns"}}, func(pos diagnostics.Position, args []Object) (Object, error) {
		cols, err := stringSlice(pos, d.arena, args[0])
		if err != nil {
			return nil, err
		}
		n, err := d.arena.CreateSelect(pos, d.operator, cols)
		if err != nil {
			return nil, errors.Wrap(err, "select")
		}
		return NewDataframe(d.arena, n.ID()), nil
	})
}

func (d *Dataframe) filterMethod() *Function {
	return NewFunction("filter", []Param{{Name: "predicate"}}, func(pos diagnostics.Position, args []Object) (Object, error) {
		pred := args[0]
		if !pred.HasNode() {
			return nil, diagnostics.TypeErrorf(pos, "filter predicate must be an expression")
		}
		n, err := d.arena.CreateFilter(pos, d.operator, pred.Node())
		if err != nil {
			return nil, errors.Wrap(err, "filter")
		}
		return NewDataframe(d.arena, n.ID()), nil
	})
}

// aggMethod builds the native agg(out1=expr1, out2=expr2, ...) callable.
// groupBy is nil unless this agg follows a groupby() call.
func (d *Dataframe) aggMethod(groupBy []string) *Function {
	return NewVarKeywordFunction("agg", func(pos diagnostics.Position, args ArgMap) (Object, error) {
		if len(args.Positional) > 0 {
			return nil, diagnostics.TypeErrorf(pos, "agg() takes only keyword arguments naming each output column")
		}
		if len(args.Keyword) == 0 {
			return nil, diagnostics.TypeErrorf(pos, "agg() requires at least one output column")
		}
		names := make([]string, 0, len(args.Keyword))
		exprs := make([]ir.NodeID, 0, len(args.Keyword))
		for _, kw := range args.Keyword {
			if !kw.Value.HasNode() {
				return nil, diagnostics.TypeErrorf(pos, "agg() output %q must be an expression", kw.Name)
			}
			names = append(names, kw.Name)
			exprs = append(exprs, kw.Value.Node())
		}
		n, err := d.arena.CreateAggregate(pos, d.operator, groupBy, names, exprs)
		if err != nil {
			return nil, errors.Wrap(err, "agg")
		}
		return NewDataframe(d.arena, n.ID()), nil
	})
}

// groupbyMethod returns a Function whose result exposes only agg,
// matching the Carnot original's groupby(...).agg(...) chain
// (original_source's ast_visitor.cc GroupBy handling).
func (d *Dataframe) groupbyMethod() *Function {
	return NewFunction("groupby", []Param{{Name: "columns"}}, func(pos diagnostics.Position, args []Object) (Object, error) {
		cols, err := stringSlice(pos, d.arena, args[0])
		if err != nil {
			return nil, err
		}
		return newGroupedFrame(d, cols), nil
	})
}

func (d *Dataframe) mergeMethod() *Function {
	params := []Param{{Name: "other"}, {Name: "how"}, {Name: "left_on"}, {Name: "right_on"}}
	return NewFunction("merge", params, func(pos diagnostics.Position, args []Object) (Object, error) {
		other, ok := args[0].(*Dataframe)
		if !ok {
			return nil, diagnostics.TypeErrorf(pos, "merge() argument 'other' must be a dataframe")
		}
		how, err := d.literalString(pos, args[1])
		if err != nil {
			return nil, errors.Wrap(err, "merge() argument 'how'")
		}
		leftOn, err := stringSlice(pos, d.arena, args[2])
		if err != nil {
			return nil, errors.Wrap(err, "merge() argument 'left_on'")
		}
		rightOn, err := stringSlice(pos, d.arena, args[3])
		if err != nil {
			return nil, errors.Wrap(err, "merge() argument 'right_on'")
		}
		n, err := d.arena.CreateJoin(pos, d.operator, other.operator, how, leftOn, rightOn)
		if err != nil {
			return nil, errors.Wrap(err, "merge")
		}
		return NewDataframe(d.arena, n.ID()), nil
	})
}

// groupedFrame is the intermediate object df.groupby(...) produces; it
// exposes only .agg(...), mirroring the original's narrow GroupBy
// helper rather than a full Dataframe.
type groupedFrame struct {
	Base
	df      *Dataframe
	groupBy []string
}

func newGroupedFrame(df *Dataframe, groupBy []string) *groupedFrame {
	return &groupedFrame{df: df, groupBy: groupBy}
}

func (g *groupedFrame) Kind() Kind { return KindDataframe }

func (g *groupedFrame) HasAttribute(name string) bool { return name == "agg" }

func (g *groupedFrame) GetAttribute(pos diagnostics.Position, name string) (Object, error) {
	if name != "agg" {
		return nil, errors.Wrapf(ErrNoAttribute, "%s: grouped dataframe has no attribute %q (only agg() is valid here)", pos, name)
	}
	return g.df.aggMethod(g.groupBy), nil
}
