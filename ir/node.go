// Package ir defines the intermediate-representation graph that the
// compiler's evaluator emits: scalar literals, column references,
// function applications, and the handful of relational operators this
// front-end owns directly (the rest belong to the downstream planner).
package ir

import "github.com/flowql/compiler/diagnostics"

// NodeID is a stable, never-reused handle into an Arena. The zero value
// is not a valid id; Arena.CreateXxx always returns ids starting at 1.
type NodeID uint64

// NodeKind tags which concrete variant a Node is, letting callers
// type-switch without importing every concrete type.
type NodeKind int

const (
	KindBool NodeKind = iota
	KindInt
	KindFloat
	KindString
	KindTime
	KindColumn
	KindFunc
	KindScan
	KindSelect
	KindFilter
	KindMap
	KindAggregate
	KindJoin
	KindMemorySink
)

func (k NodeKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindTime:
		return "Time"
	case KindColumn:
		return "Column"
	case KindFunc:
		return "Func"
	case KindScan:
		return "Scan"
	case KindSelect:
		return "Select"
	case KindFilter:
		return "Filter"
	case KindMap:
		return "Map"
	case KindAggregate:
		return "Aggregate"
	case KindJoin:
		return "Join"
	case KindMemorySink:
		return "MemorySink"
	default:
		return "Unknown"
	}
}

// Node is the common interface every IR node variant satisfies. Operands
// reports the ids this node reads from, which the Arena uses to track
// consumers for deletion.
type Node interface {
	ID() NodeID
	Kind() NodeKind
	Pos() diagnostics.Position
	Operands() []NodeID
}

type base struct {
	id  NodeID
	pos diagnostics.Position
}

func (b base) ID() NodeID                  { return b.id }
func (b base) Pos() diagnostics.Position    { return b.pos }

// --- scalar literals ---

type BoolNode struct {
	base
	Value bool
}

func (n *BoolNode) Kind() NodeKind     { return KindBool }
func (n *BoolNode) Operands() []NodeID { return nil }

type IntNode struct {
	base
	Value int64
}

func (n *IntNode) Kind() NodeKind     { return KindInt }
func (n *IntNode) Operands() []NodeID { return nil }

type FloatNode struct {
	base
	Value float64
}

func (n *FloatNode) Kind() NodeKind     { return KindFloat }
func (n *FloatNode) Operands() []NodeID { return nil }

type StringNode struct {
	base
	Value string
}

func (n *StringNode) Kind() NodeKind     { return KindString }
func (n *StringNode) Operands() []NodeID { return nil }

// TimeNode holds a nanosecond timestamp; Duration values reuse the same
// shape (the distinction is carried by the Type object that annotated
// the value, not by the IR node itself).
type TimeNode struct {
	base
	Value int64
}

func (n *TimeNode) Kind() NodeKind     { return KindTime }
func (n *TimeNode) Operands() []NodeID { return nil }

// --- column reference ---

type ColumnNode struct {
	base
	ColumnName string
}

func (n *ColumnNode) Kind() NodeKind     { return KindColumn }
func (n *ColumnNode) Operands() []NodeID { return nil }

// --- scalar function application ---

type Opcode int

const (
	OpNonOp Opcode = iota // unary '+': identity, never materialized
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpNegate
	OpNot
	OpMean
	OpSum
	OpCount
	OpMax
	OpMin
)

// Op pairs an opcode with the source-language operator token that
// produced it, mirroring the teacher-domain's op_map/unary_op_map
// lookup tables.
type Op struct {
	Opcode Opcode
	Symbol string
}

// OpMap covers binary BinOp/BoolOp/Compare tokens.
var OpMap = map[string]Op{
	"+":   {OpAdd, "+"},
	"-":   {OpSub, "-"},
	"*":   {OpMul, "*"},
	"/":   {OpDiv, "/"},
	"%":   {OpMod, "%"},
	"and": {OpAnd, "and"},
	"or":  {OpOr, "or"},
	"==":  {OpEQ, "=="},
	"!=":  {OpNE, "!="},
	"<":   {OpLT, "<"},
	"<=":  {OpLE, "<="},
	">":   {OpGT, ">"},
	">=":  {OpGE, ">="},
}

// UnaryOpMap covers UnaryOp tokens. Unlike the original_source this map
// is searched with its own sentinel: a lookup miss here is a genuine
// "operator not handled" error, not a fallthrough into OpMap's miss
// (see DESIGN.md's note on the spec's cut-and-paste sentinel bug).
var UnaryOpMap = map[string]Op{
	"-":   {OpNegate, "-"},
	"+":   {OpNonOp, "+"},
	"not": {OpNot, "not"},
}

type FuncNode struct {
	base
	Op   Op
	Args []NodeID
}

func (n *FuncNode) Kind() NodeKind     { return KindFunc }
func (n *FuncNode) Operands() []NodeID { return n.Args }

// --- relational operators this front-end owns ---

type ScanNode struct {
	base
	Table   string
	Columns []string
}

func (n *ScanNode) Kind() NodeKind     { return KindScan }
func (n *ScanNode) Operands() []NodeID { return nil }

type SelectNode struct {
	base
	Parent  NodeID
	Columns []string
}

func (n *SelectNode) Kind() NodeKind     { return KindSelect }
func (n *SelectNode) Operands() []NodeID { return []NodeID{n.Parent} }

type FilterNode struct {
	base
	Parent    NodeID
	Predicate NodeID
}

func (n *FilterNode) Kind() NodeKind     { return KindFilter }
func (n *FilterNode) Operands() []NodeID { return []NodeID{n.Parent, n.Predicate} }

// MapNode projects/augments its parent's columns with scalar
// expressions. Columns[i] is the output name of Exprs[i].
type MapNode struct {
	base
	Parent  NodeID
	Columns []string
	Exprs   []NodeID
}

func (n *MapNode) Kind() NodeKind { return KindMap }
func (n *MapNode) Operands() []NodeID {
	ops := make([]NodeID, 0, len(n.Exprs)+1)
	ops = append(ops, n.Parent)
	ops = append(ops, n.Exprs...)
	return ops
}

// AggregateNode groups by GroupBy and evaluates Exprs[i] to produce
// output column Names[i].
type AggregateNode struct {
	base
	Parent  NodeID
	GroupBy []string
	Names   []string
	Exprs   []NodeID
}

func (n *AggregateNode) Kind() NodeKind { return KindAggregate }
func (n *AggregateNode) Operands() []NodeID {
	ops := make([]NodeID, 0, len(n.Exprs)+1)
	ops = append(ops, n.Parent)
	ops = append(ops, n.Exprs...)
	return ops
}

type JoinNode struct {
	base
	Left, Right      NodeID
	How              string
	LeftOn, RightOn  []string
}

func (n *JoinNode) Kind() NodeKind     { return KindJoin }
func (n *JoinNode) Operands() []NodeID { return []NodeID{n.Left, n.Right} }

// MemorySinkNode is a terminal operator naming an output table.
type MemorySinkNode struct {
	base
	Parent  NodeID
	Name    string
	Columns []string
}

func (n *MemorySinkNode) Kind() NodeKind     { return KindMemorySink }
func (n *MemorySinkNode) Operands() []NodeID { return []NodeID{n.Parent} }
