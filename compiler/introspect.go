package compiler

import (
	"sort"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/object"
)

// ArgSpec is one parameter's name and annotated type name (empty if
// unannotated), the shape both Output 2 and Output 3 of spec.md §6
// need.
type ArgSpec struct {
	Name       string
	Annotation string
}

// VisualizationInfo is what Introspect emits per visualization
// function: its doc string, its rendering spec, and its argument spec
// (spec.md §4.5).
type VisualizationInfo struct {
	Name string
	Doc  string
	Viz  *object.VizSpec
	Args []ArgSpec
}

// Introspect walks a compiled module's top level and emits
// VisualizationInfo for every binding whose value is a Function
// carrying a Viz spec. Results are sorted by name so tooling gets a
// stable ordering across runs.
func Introspect(mod *object.Module) []VisualizationInfo {
	var out []VisualizationInfo
	for name, val := range mod.Attributes() {
		fn, ok := val.(*object.Function)
		if !ok || fn.Viz == nil {
			continue
		}
		out = append(out, VisualizationInfo{
			Name: name,
			Doc:  fn.Doc,
			Viz:  fn.Viz,
			Args: argSpecs(fn),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MainArgSpec answers Output 2: the parameters and annotations of the
// well-known "main" entrypoint, in declaration order.
func MainArgSpec(mod *object.Module) ([]ArgSpec, error) {
	pos := diagnostics.Position{}
	obj, err := mod.GetAttribute(pos, "main")
	if err != nil {
		return nil, diagnostics.NameErrorf(pos, "name 'main' is not defined")
	}
	fn, ok := obj.(*object.Function)
	if !ok {
		return nil, diagnostics.ValueErrorf(pos, "'main' is not a function")
	}
	return argSpecs(fn), nil
}

func argSpecs(fn *object.Function) []ArgSpec {
	specs := make([]ArgSpec, len(fn.Params))
	for i, p := range fn.Params {
		ann := ""
		if t, ok := p.Annotation.(*object.Type); ok {
			ann = t.Name
		}
		specs[i] = ArgSpec{Name: p.Name, Annotation: ann}
	}
	return specs
}
