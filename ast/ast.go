// Package ast declares the syntax-tree shapes the evaluator dispatches
// over. A real parser is an external collaborator (spec.md §6, Input 1);
// this package is the contract that collaborator's output satisfies.
package ast

import "github.com/flowql/compiler/diagnostics"

// Node is the interface every syntax-tree node satisfies.
type Node interface {
	Pos() diagnostics.Position
}

// Stmt is implemented by every top-level-or-suite statement kind.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression kind.
type Expr interface {
	Node
	exprNode()
}

// Base carries the source position every node embeds. It is exported so
// other packages can build ast nodes with plain struct literals (used
// extensively by the evaluator's own tests and fixtures).
type Base struct {
	Position diagnostics.Position
}

func (b Base) Pos() diagnostics.Position { return b.Position }

// NewBase is a small convenience constructor; equivalent to
// ast.Base{Position: pos}.
func NewBase(pos diagnostics.Position) Base { return Base{Position: pos} }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Suite is an ordered list of statements: a module body or a function
// body.
type Suite struct {
	Base
	Items []Stmt
}

func NewSuite(pos diagnostics.Position, items []Stmt) *Suite {
	return &Suite{Base: NewBase(pos), Items: items}
}

// Module is the root of a parsed source file.
type Module struct {
	Base
	Body *Suite
}

func NewModule(pos diagnostics.Position, body *Suite) *Module {
	return &Module{Base: NewBase(pos), Body: body}
}

// Alias is a single `name [as as_name]` entry, shared by Import and
// ImportFrom.
type Alias struct {
	Name   string
	AsName string // "" if no "as" clause
}

func (a Alias) Bound() string {
	if a.AsName != "" {
		return a.AsName
	}
	return a.Name
}

type Import struct {
	Base
	Alias Alias
}

func (*Import) stmtNode() {}

// ImportFrom supports only level-0 (absolute) imports; Level is carried
// so the evaluator can reject anything else with a diagnostic that
// names the offending level, per spec.md §4.3.
type ImportFrom struct {
	Base
	Module  string
	Level   int
	Aliases []Alias
}

func (*ImportFrom) stmtNode() {}

type ExpressionStatement struct {
	Base
	Expr Expr
}

func (*ExpressionStatement) stmtNode() {}

// Assign supports exactly one target (spec.md Non-goals: no
// multiple-target assignment).
type Assign struct {
	Base
	Target Expr
	Value  Expr
}

func (*Assign) stmtNode() {}

// Arg is one function-definition parameter: a bare name with an
// optional type annotation expression.
type Arg struct {
	Name       string
	Annotation Expr // nil if unannotated
}

// FunctionDef supports at most one decorator and rejects variadic
// params, keyword-variadic params, and default values (spec.md
// Non-goals / §4.3).
type FunctionDef struct {
	Base
	Name      string
	Args      []Arg
	Body      *Suite
	Decorator Expr // nil if undecorated
	// HasVarArgs/HasKwArgs/Defaults let a parser report the unsupported
	// constructs it saw so the evaluator can reject them with a precise
	// diagnostic instead of silently dropping them.
	HasVarArgs bool
	HasKwArgs  bool
	Defaults   []Expr // non-nil entries are rejected
}

func (*FunctionDef) stmtNode() {}

// DocString is only legal as the first statement of a module or
// function suite.
type DocString struct {
	Base
	Value string
}

func (*DocString) stmtNode() {}

// Return is only legal inside a function body.
type Return struct {
	Base
	Value Expr // nil for a bare "return"
}

func (*Return) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

type Name struct {
	Base
	ID string
}

func (*Name) exprNode() {}

// NumberKind distinguishes integer and floating-point literals, mirroring
// the distinction a real tokenizer makes.
type NumberKind int

const (
	IntNumber NumberKind = iota
	FloatNumber
)

type Number struct {
	Base
	NumKind NumberKind
	Int     int64
	Float   float64
}

func (*Number) exprNode() {}

type Str struct {
	Base
	Value string
}

func (*Str) exprNode() {}

type Attribute struct {
	Base
	Value     Expr
	Attribute string
}

func (*Attribute) exprNode() {}

// SliceKind distinguishes a plain index from a range slice; only Index
// is supported (spec.md §4.3: "ranges are not").
type SliceKind int

const (
	IndexSlice SliceKind = iota
	RangeSlice
)

type Subscript struct {
	Base
	Value     Expr
	SliceKind SliceKind
	Index     Expr // meaningful only when SliceKind == IndexSlice
}

func (*Subscript) exprNode() {}

type Keyword struct {
	Name  string
	Value Expr
}

type Call struct {
	Base
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (*Call) exprNode() {}

type List struct {
	Base
	Elts []Expr
}

func (*List) exprNode() {}

type Tuple struct {
	Base
	Elts []Expr
}

func (*Tuple) exprNode() {}

type BinOp struct {
	Base
	Op          string
	Left, Right Expr
}

func (*BinOp) exprNode() {}

// BoolOp takes exactly two operands (spec.md §4.3: chained boolean
// combinators are not folded here).
type BoolOp struct {
	Base
	Op          string
	Left, Right Expr
}

func (*BoolOp) exprNode() {}

// Compare supports exactly one operator and one right-hand comparator;
// chained comparisons (`a < b < c`) are not supported (spec.md §4.3,
// §9 Open Questions).
type Compare struct {
	Base
	Op               string
	Left, Comparator Expr
}

func (*Compare) exprNode() {}

type UnaryOp struct {
	Base
	Op      string
	Operand Expr
}

func (*UnaryOp) exprNode() {}
