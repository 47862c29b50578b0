package compiler

import (
	"github.com/segmentio/ksuid"

	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/ir"
	"github.com/flowql/compiler/object"
)

// Context threads the ambient state every evaluator entry point needs:
// the arena nodes are created in, the current scope, the module
// registry, the diagnostics engine, and a logger tagged with this
// compile's session id. One Context (plus its scope-swapped children)
// is used for the whole of one compile (spec.md §5).
type Context struct {
	SessionID string
	Arena     *ir.Arena
	Scope     *Scope
	Modules   *ModuleHandler
	Diags     *diagnostics.Engine
	Log       *diagnostics.Logger
}

// NewContext builds the Context for a fresh compile: a new arena, a
// freshly seeded root scope, and the given module handler. Callers
// register the platform module into that handler after this returns,
// since platform.New needs the new ctx.Arena.
func NewContext(modules *ModuleHandler) *Context {
	sessionID := ksuid.New().String()
	arena := ir.NewArena()
	ctx := &Context{
		SessionID: sessionID,
		Arena:     arena,
		Modules:   modules,
		Diags:     diagnostics.NewEngine(),
		Log:       diagnostics.NewLogger("compiler").WithSession(sessionID),
	}
	ctx.Scope = newRootVarTable(arena)
	return ctx
}

// WithScope returns a shallow copy of ctx using scope in place of the
// current one; used when entering a function body or module suite.
func (c *Context) WithScope(scope *Scope) *Context {
	next := *c
	next.Scope = scope
	return &next
}

// newRootVarTable seeds the names spec.md §3 requires be present in a
// fresh compile: the four primitive type sentinels, None, and
// pre-materialized True/False Exprs.
func newRootVarTable(arena *ir.Arena) *Scope {
	root := NewRootScope()
	root.Define("bool", object.NewType("bool", object.PrimBool))
	root.Define("int", object.NewType("int", object.PrimInt))
	root.Define("float", object.NewType("float", object.PrimFloat))
	root.Define("string", object.NewType("string", object.PrimString))
	root.Define("None", object.None)

	truePos := diagnostics.Position{}
	trueNode := arena.CreateBool(truePos, true)
	falseNode := arena.CreateBool(truePos, false)
	root.Define("True", object.NewExpr(arena, trueNode.ID()))
	root.Define("False", object.NewExpr(arena, falseNode.ID()))

	return root
}
