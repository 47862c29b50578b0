package compiler

import "github.com/flowql/compiler/ir"

// Role tags which relational position an OperatorContext's subtree is
// being evaluated for.
type Role int

const (
	RoleNone Role = iota
	RoleMapAssignment
)

// OperatorContext is the evaluator-threaded ambient state naming which
// dataframes' columns are reference-able from the current subexpression
// (spec.md §3). It is immutable and propagated strictly by value: no
// evaluator entry point mutates a context it received, it only builds
// and passes a new one to its children (spec.md §9).
type OperatorContext struct {
	ParentOperators []ir.NodeID
	Role            Role
	// Referenceable names the dataframe-bound variable names whose
	// columns may be referenced as bare subscripts/attributes in the
	// current position.
	Referenceable []string
}

// EmptyOperatorContext returns the ambient context at the top of a
// suite: no parent operator, no widened column references.
func EmptyOperatorContext() OperatorContext {
	return OperatorContext{}
}

// WithReferenceable returns a copy of oc with name appended to the
// reference-able set, used when entering the RHS of a map-assignment
// or subscript whose LHS is a bare dataframe Name (spec.md §4.3).
func (oc OperatorContext) WithReferenceable(name string) OperatorContext {
	next := oc
	next.Referenceable = append(append([]string{}, oc.Referenceable...), name)
	return next
}

// WithParent returns a copy of oc rooted at operator instead of oc's
// current parents, used by mapAssign when descending into a
// map-assignment's RHS.
func (oc OperatorContext) WithParent(role Role, operator ir.NodeID) OperatorContext {
	next := oc
	next.ParentOperators = []ir.NodeID{operator}
	next.Role = role
	return next
}

// CanReference reports whether name is one of the dataframes this
// context widened visibility to. evalSubscript consults this through
// validateSubscriptValue to reject a foreign dataframe's column inside
// a map-assignment RHS (spec.md §4.3; ast_visitor.cc's
// ValidateSubscriptValue).
func (oc OperatorContext) CanReference(name string) bool {
	for _, n := range oc.Referenceable {
		if n == name {
			return true
		}
	}
	return false
}
