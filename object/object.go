// Package object defines the script-visible value model the evaluator
// produces and consumes: expressions backed by IR nodes, callables,
// type markers, collections, namespaces, and dataframes. Every variant
// answers the same small capability surface (spec.md §4.2) so the
// evaluator can treat them uniformly.
package object

import (
	"github.com/pkg/errors"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
)

// Kind tags which concrete variant an Object is.
type Kind int

const (
	KindExpr Kind = iota
	KindFunction
	KindType
	KindCollection
	KindModule
	KindNone
	KindDataframe
)

func (k Kind) String() string {
	switch k {
	case KindExpr:
		return "Expr"
	case KindFunction:
		return "Function"
	case KindType:
		return "Type"
	case KindCollection:
		return "Collection"
	case KindModule:
		return "Module"
	case KindNone:
		return "None"
	case KindDataframe:
		return "Dataframe"
	default:
		return "Unknown"
	}
}

// Sentinel errors for unsupported capabilities. Base's defaults (and
// Module, Dataframe and the grouped dataframe) return them wrapped with
// the source Position in the message text; they are plain errors, not
// diagnostics.Error values. ErrNotCallable is not returned by any code
// in this module.
var (
	ErrNoAttribute       = errors.New("object has no such attribute")
	ErrNoSubscript       = errors.New("object does not support subscripting")
	ErrNoAssignAttribute = errors.New("object does not support attribute assignment")
	ErrNotCallable       = errors.New("object is not callable")
)

// Object is the uniform capability surface every script-visible value
// satisfies (spec.md §4.2).
type Object interface {
	Kind() Kind

	HasAttribute(name string) bool
	GetAttribute(pos diagnostics.Position, name string) (Object, error)

	HasSubscript() bool
	GetSubscript(pos diagnostics.Position) (*Function, error)

	AssignAttribute(pos diagnostics.Position, name string, value Object) error

	HasNode() bool
	Node() ir.NodeID
	// NodeKind reports the backing IR node's kind, for Type's
	// node-matches predicate and for the evaluator's "dataframe has no
	// method" special case. ok is false when HasNode is false.
	NodeKind() (ir.NodeKind, bool)
}

// Base supplies the "unsupported" default for every capability; concrete
// variants embed it and override only what they actually support.
type Base struct{}

func (Base) HasAttribute(string) bool { return false }

func (Base) GetAttribute(pos diagnostics.Position, name string) (Object, error) {
	return nil, errors.Wrapf(ErrNoAttribute, "%s: attribute %q", pos, name)
}

func (Base) HasSubscript() bool { return false }

func (Base) GetSubscript(pos diagnostics.Position) (*Function, error) {
	return nil, errors.Wrapf(ErrNoSubscript, "%s", pos)
}

func (Base) AssignAttribute(pos diagnostics.Position, name string, _ Object) error {
	return errors.Wrapf(ErrNoAssignAttribute, "%s: attribute %q", pos, name)
}

func (Base) HasNode() bool                      { return false }
func (Base) Node() ir.NodeID                    { return 0 }
func (Base) NodeKind() (ir.NodeKind, bool)      { return 0, false }
