package compiler

import (
	"strconv"
	"strings"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/object"
)

// ExecArg is one coerced-at-call-time argument: the parameter name and
// the external string value to parse against that parameter's
// annotation. It stands in for the wire-level argument message spec.md
// §1 excludes ("protobuf wire definitions ... only their semantic shape
// matters").
type ExecArg struct {
	Name        string
	StringValue string
}

// ExecDescriptor names a function to invoke, the table-name prefix its
// results are sunk under, and the external arguments to coerce and
// bind (spec.md §4.4, Input 4).
type ExecDescriptor struct {
	FuncName          string
	OutputTablePrefix string
	ArgValues         []ExecArg
}

// ExecEntry realizes a set of ExecDescriptors against a completed
// compile's module: it coerces arguments, invokes each named function,
// and wires Dataframe results to MemorySink operators.
type ExecEntry struct {
	ctx *Context
	mod *object.Module
}

func NewExecEntry(ctx *Context, mod *object.Module) *ExecEntry {
	return &ExecEntry{ctx: ctx, mod: mod}
}

// Run executes every descriptor in order and returns one Dataframe
// wrapping each MemorySink operator created, or the first error
// encountered.
func (x *ExecEntry) Run(descriptors []ExecDescriptor) ([]*object.Dataframe, error) {
	var sinks []*object.Dataframe
	for _, d := range descriptors {
		s, err := x.runOne(d)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s...)
	}
	return sinks, nil
}

func (x *ExecEntry) runOne(d ExecDescriptor) ([]*object.Dataframe, error) {
	pos := diagnostics.Position{}
	obj, err := x.mod.GetAttribute(pos, d.FuncName)
	if err != nil {
		return nil, diagnostics.NameErrorf(pos, "name '%s' is not defined", d.FuncName)
	}
	fn, ok := obj.(*object.Function)
	if !ok {
		return nil, diagnostics.ValueErrorf(pos, "'%s' is not a function", d.FuncName)
	}

	var keywords []object.Keyword
	for _, av := range d.ArgValues {
		param, ok := findParam(fn, av.Name)
		if !ok {
			return nil, diagnostics.ValueErrorf(pos, "function '%s' has no parameter '%s'", d.FuncName, av.Name)
		}
		t, ok := param.Annotation.(*object.Type)
		if !ok {
			return nil, diagnostics.ValueErrorf(pos, "parameter '%s' of '%s' has no type annotation to coerce against", av.Name, d.FuncName)
		}
		val, err := x.coerce(pos, t, av.StringValue)
		if err != nil {
			return nil, diagnostics.ValueErrorf(pos, "failed to parse arg '%s' as %s: %v", av.Name, t.Prim, err)
		}
		keywords = append(keywords, object.Keyword{Name: av.Name, Value: val})
	}

	result, err := fn.Invoke(pos, object.ArgMap{Keyword: keywords})
	if err != nil {
		return nil, err
	}

	return x.sink(pos, d.OutputTablePrefix, result)
}

func findParam(fn *object.Function, name string) (object.Param, bool) {
	for _, p := range fn.Params {
		if p.Name == name {
			return p, true
		}
	}
	return object.Param{}, false
}

// coerce parses value according to t using the permissive rules of
// spec.md §4.4: bool literal words, decimal int, decimal float,
// integer nanoseconds for Time/Duration; UInt128 is unsupported.
func (x *ExecEntry) coerce(pos diagnostics.Position, t *object.Type, value string) (object.Object, error) {
	switch t.Prim {
	case object.PrimBool:
		b, err := parseBoolLiteral(value)
		if err != nil {
			return nil, err
		}
		n := x.ctx.Arena.CreateBool(pos, b)
		return object.NewExpr(x.ctx.Arena, n.ID()), nil
	case object.PrimInt:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, err
		}
		n := x.ctx.Arena.CreateInt(pos, i)
		return object.NewExpr(x.ctx.Arena, n.ID()), nil
	case object.PrimFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, err
		}
		n := x.ctx.Arena.CreateFloat(pos, f)
		return object.NewExpr(x.ctx.Arena, n.ID()), nil
	case object.PrimTime, object.PrimDuration:
		ns, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, err
		}
		n := x.ctx.Arena.CreateTime(pos, ns)
		return object.NewExpr(x.ctx.Arena, n.ID()), nil
	case object.PrimString:
		n := x.ctx.Arena.CreateString(pos, value)
		return object.NewExpr(x.ctx.Arena, n.ID()), nil
	case object.PrimUInt128:
		return nil, diagnostics.ValueErrorf(pos, "uint128 arguments are not supported")
	default:
		return nil, diagnostics.ValueErrorf(pos, "unknown annotation type")
	}
}

func parseBoolLiteral(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}

// sink wires a function's result to MemorySink operators named by
// prefix: a single Dataframe sinks directly under prefix; a Collection
// sinks each Dataframe element under "prefix[index]" (spec.md §4.4).
func (x *ExecEntry) sink(pos diagnostics.Position, prefix string, result object.Object) ([]*object.Dataframe, error) {
	switch v := result.(type) {
	case *object.Dataframe:
		return x.sinkOne(pos, prefix, v)
	case *object.Collection:
		var out []*object.Dataframe
		for i, item := range v.Items {
			df, ok := item.(*object.Dataframe)
			if !ok {
				return nil, diagnostics.ValueErrorf(pos, "exec result collection element %d is not a dataframe", i)
			}
			sunk, err := x.sinkOne(pos, prefixWithIndex(prefix, i), df)
			if err != nil {
				return nil, err
			}
			out = append(out, sunk...)
		}
		return out, nil
	default:
		return nil, diagnostics.ValueErrorf(pos, "exec result must be a dataframe or a collection of dataframes")
	}
}

func (x *ExecEntry) sinkOne(pos diagnostics.Position, name string, df *object.Dataframe) ([]*object.Dataframe, error) {
	n, err := x.ctx.Arena.CreateMemorySink(pos, df.Operator(), name, nil)
	if err != nil {
		return nil, err
	}
	return []*object.Dataframe{object.NewDataframe(x.ctx.Arena, n.ID())}, nil
}

func prefixWithIndex(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}
