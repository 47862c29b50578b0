package object

import (
	"github.com/pkg/errors"

	"github.com/flowql/compiler/diagnostics"
)

// Module is a namespace object: either the pre-built platform module
// populated from native code, or a user module produced by evaluating
// a source text in a fresh child scope (spec.md §3).
type Module struct {
	Base
	Name  string
	attrs map[string]Object
}

func NewModule(name string) *Module {
	return &Module{Name: name, attrs: make(map[string]Object)}
}

func (m *Module) Kind() Kind { return KindModule }

// Define registers name under this module, overwriting any prior
// binding. Used both to populate the platform module at startup and to
// materialize a user module's top-level bindings after evaluation.
func (m *Module) Define(name string, obj Object) {
	m.attrs[name] = obj
}

func (m *Module) HasAttribute(name string) bool {
	_, ok := m.attrs[name]
	return ok
}

func (m *Module) GetAttribute(pos diagnostics.Position, name string) (Object, error) {
	v, ok := m.attrs[name]
	if !ok {
		return nil, errors.Wrapf(ErrNoAttribute, "%s: module %q has no attribute %q", pos, m.Name, name)
	}
	return v, nil
}

// Attributes returns every name bound in this module, for callers that
// walk a compiled module's top level (introspection, exec entry).
func (m *Module) Attributes() map[string]Object {
	return m.attrs
}
