package compiler

import (
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/object"
)

// Scope is a lexically nested name to Object binding. Lookup walks
// parents; Define writes only to the current scope, so a name bound in
// a child never mutates its parent (spec.md §3's VarTable).
type Scope struct {
	parent *Scope
	vars   map[string]object.Object
}

// NewRootScope builds an empty scope with no parent. Callers almost
// always want NewContext instead, whose root scope (built by
// newRootVarTable) also seeds the built-in names spec.md §3 requires.
func NewRootScope() *Scope {
	return &Scope{vars: make(map[string]object.Object)}
}

// NewChildScope creates a scope for a function body or module
// evaluation, nested under parent.
func NewChildScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]object.Object)}
}

// Define binds name in this scope, shadowing any parent binding of the
// same name for lookups rooted here.
func (s *Scope) Define(name string, val object.Object) {
	s.vars[name] = val
}

// Lookup walks from this scope up through its parents.
func (s *Scope) Lookup(name string) (object.Object, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Get is Lookup with a NameError on miss, the form most evaluator call
// sites want.
func (s *Scope) Get(pos diagnostics.Position, name string) (object.Object, error) {
	v, ok := s.Lookup(name)
	if !ok {
		return nil, diagnostics.NameErrorf(pos, "name '%s' is not defined", name)
	}
	return v, nil
}
