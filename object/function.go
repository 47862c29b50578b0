package object

import (
	"github.com/flowql/compiler/diagnostics"
)

// Param is one declared function parameter: a name with an optional
// type annotation Object (usually a *Type, but annotations are
// evaluated generically so anything is retained as written).
type Param struct {
	Name       string
	Annotation Object // nil if unannotated
}

// Keyword is one `name=value` argument at a call site.
type Keyword struct {
	Name  string
	Value Object
}

// ArgMap is the argument bundle a call site hands to Invoke, mirroring
// spec.md §4.2's "{positional: [...], keyword: [(name, value), ...]}".
type ArgMap struct {
	Positional []Object
	Keyword    []Keyword
}

// VizSpec is a visualization function's rendering metadata, surfaced
// verbatim by introspection (spec.md §4.5). original_source's
// ast_visitor.cc carries exactly one field here, a Vega-Lite spec
// string (VisSpec.vega_spec); this repository keeps that shape.
type VizSpec struct {
	VegaSpec string
}

// Function is a named callable: either a native closure or a
// user-defined function whose body the evaluator captured at
// definition time. Both variants look identical from here on — Call is
// already bound to whichever body applies (spec.md §9: "native
// functions are one variant whose body is a host-language closure;
// user functions are another").
type Function struct {
	Base
	Name   string
	Params []Param
	Doc    string
	Viz    *VizSpec

	// VarKeyword marks a handful of native methods (Dataframe.agg) that
	// accept an arbitrary set of named arguments rather than a fixed
	// parameter list. When set, Params is empty and Invoke skips
	// positional/keyword binding entirely, handing the raw ArgMap to
	// rawCall.
	VarKeyword bool

	call    func(pos diagnostics.Position, args []Object) (Object, error)
	rawCall func(pos diagnostics.Position, args ArgMap) (Object, error)
}

// NewFunction builds a Function with a fixed parameter list, bound to
// call. Used for both native builtins and user-defined functions; the
// evaluator supplies the closure in either case.
func NewFunction(name string, params []Param, call func(diagnostics.Position, []Object) (Object, error)) *Function {
	return &Function{Name: name, Params: params, call: call}
}

// NewVarKeywordFunction builds a Function that receives its full
// ArgMap unbound, for natives like agg() whose argument names are
// caller-chosen output column names rather than a fixed parameter list.
func NewVarKeywordFunction(name string, call func(diagnostics.Position, ArgMap) (Object, error)) *Function {
	return &Function{Name: name, VarKeyword: true, rawCall: call}
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) paramIndex(name string) int {
	for i, p := range f.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Invoke binds args to the declared parameters, checks annotations,
// and runs the body (spec.md §4.2's function-call semantics).
func (f *Function) Invoke(pos diagnostics.Position, args ArgMap) (Object, error) {
	if f.VarKeyword {
		return f.rawCall(pos, args)
	}

	if len(args.Positional) > len(f.Params) {
		return nil, diagnostics.TypeErrorf(pos, "%s() takes %d argument(s) but %d were given", f.Name, len(f.Params), len(args.Positional))
	}

	bound := make([]Object, len(f.Params))
	used := make([]bool, len(f.Params))
	for i, v := range args.Positional {
		bound[i] = v
		used[i] = true
	}
	for _, kw := range args.Keyword {
		idx := f.paramIndex(kw.Name)
		if idx < 0 {
			return nil, diagnostics.TypeErrorf(pos, "%s() got an unexpected keyword argument '%s'", f.Name, kw.Name)
		}
		if used[idx] {
			return nil, diagnostics.TypeErrorf(pos, "%s() got multiple values for argument '%s'", f.Name, kw.Name)
		}
		bound[idx] = kw.Value
		used[idx] = true
	}
	for i, ok := range used {
		if !ok {
			return nil, diagnostics.TypeErrorf(pos, "%s() missing required argument '%s'", f.Name, f.Params[i].Name)
		}
	}

	for i, p := range f.Params {
		if p.Annotation == nil {
			continue
		}
		t, ok := p.Annotation.(*Type)
		if !ok {
			continue
		}
		if !t.NodeMatches(bound[i]) {
			return nil, diagnostics.TypeErrorf(pos, "argument '%s' to %s() does not match annotated type %s", p.Name, f.Name, t.Name)
		}
	}

	return f.call(pos, bound)
}
