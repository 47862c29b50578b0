package ir

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/flowql/compiler/diagnostics"
)

// Arena owns every IR node created during one compile. Objects hold
// NodeIDs, never pointers into the arena's storage, so the arena is
// free to move nodes around internally; callers always go through
// Get.
//
// Deletion only succeeds when no live node still references the
// deleted node as an operand — the consumers map tracks that without
// requiring a full graph scan on every delete.
type Arena struct {
	nodes     []Node // nodes[id-1] is the slot for NodeID(id); nil once deleted
	consumers map[NodeID]map[NodeID]struct{}
	nextID    NodeID
}

// NewArena creates an empty arena. One Arena is owned by exactly one
// compile (see spec.md §5).
func NewArena() *Arena {
	return &Arena{consumers: make(map[NodeID]map[NodeID]struct{})}
}

func (a *Arena) allocID() NodeID {
	a.nextID++
	a.nodes = append(a.nodes, nil)
	return a.nextID
}

// validateOperands fails creation if any referenced id doesn't name a
// live node in this arena — the spec's "creation fails on invalid
// operand types" failure kind.
func (a *Arena) validateOperands(ids ...NodeID) error {
	for _, id := range ids {
		if _, ok := a.Get(id); !ok {
			return diagnostics.InternalErrorf(diagnostics.Position{}, "operand %d does not name a live node in this arena", id)
		}
	}
	return nil
}

func (a *Arena) register(n Node) {
	a.nodes[n.ID()-1] = n
	for _, operand := range n.Operands() {
		set, ok := a.consumers[operand]
		if !ok {
			set = make(map[NodeID]struct{})
			a.consumers[operand] = set
		}
		set[n.ID()] = struct{}{}
	}
}

func (a *Arena) CreateBool(pos diagnostics.Position, value bool) *BoolNode {
	n := &BoolNode{base: base{id: a.allocID(), pos: pos}, Value: value}
	a.register(n)
	return n
}

func (a *Arena) CreateInt(pos diagnostics.Position, value int64) *IntNode {
	n := &IntNode{base: base{id: a.allocID(), pos: pos}, Value: value}
	a.register(n)
	return n
}

func (a *Arena) CreateFloat(pos diagnostics.Position, value float64) *FloatNode {
	n := &FloatNode{base: base{id: a.allocID(), pos: pos}, Value: value}
	a.register(n)
	return n
}

func (a *Arena) CreateString(pos diagnostics.Position, value string) *StringNode {
	n := &StringNode{base: base{id: a.allocID(), pos: pos}, Value: value}
	a.register(n)
	return n
}

func (a *Arena) CreateTime(pos diagnostics.Position, value int64) *TimeNode {
	n := &TimeNode{base: base{id: a.allocID(), pos: pos}, Value: value}
	a.register(n)
	return n
}

func (a *Arena) CreateColumn(pos diagnostics.Position, name string) *ColumnNode {
	n := &ColumnNode{base: base{id: a.allocID(), pos: pos}, ColumnName: name}
	a.register(n)
	return n
}

func (a *Arena) CreateFunc(pos diagnostics.Position, op Op, args []NodeID) (*FuncNode, error) {
	if err := a.validateOperands(args...); err != nil {
		return nil, err
	}
	n := &FuncNode{base: base{id: a.allocID(), pos: pos}, Op: op, Args: args}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateScan(pos diagnostics.Position, table string, columns []string) *ScanNode {
	n := &ScanNode{base: base{id: a.allocID(), pos: pos}, Table: table, Columns: columns}
	a.register(n)
	return n
}

func (a *Arena) CreateSelect(pos diagnostics.Position, parent NodeID, columns []string) (*SelectNode, error) {
	if err := a.validateOperands(parent); err != nil {
		return nil, err
	}
	n := &SelectNode{base: base{id: a.allocID(), pos: pos}, Parent: parent, Columns: columns}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateFilter(pos diagnostics.Position, parent, predicate NodeID) (*FilterNode, error) {
	if err := a.validateOperands(parent, predicate); err != nil {
		return nil, err
	}
	n := &FilterNode{base: base{id: a.allocID(), pos: pos}, Parent: parent, Predicate: predicate}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateMap(pos diagnostics.Position, parent NodeID, columns []string, exprs []NodeID) (*MapNode, error) {
	if len(columns) != len(exprs) {
		return nil, diagnostics.InternalErrorf(pos, "map node column/expr count mismatch: %d columns, %d exprs", len(columns), len(exprs))
	}
	if err := a.validateOperands(parent); err != nil {
		return nil, err
	}
	if err := a.validateOperands(exprs...); err != nil {
		return nil, err
	}
	n := &MapNode{base: base{id: a.allocID(), pos: pos}, Parent: parent, Columns: columns, Exprs: exprs}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateAggregate(pos diagnostics.Position, parent NodeID, groupBy, names []string, exprs []NodeID) (*AggregateNode, error) {
	if len(names) != len(exprs) {
		return nil, diagnostics.InternalErrorf(pos, "aggregate node name/expr count mismatch: %d names, %d exprs", len(names), len(exprs))
	}
	if err := a.validateOperands(parent); err != nil {
		return nil, err
	}
	if err := a.validateOperands(exprs...); err != nil {
		return nil, err
	}
	n := &AggregateNode{base: base{id: a.allocID(), pos: pos}, Parent: parent, GroupBy: groupBy, Names: names, Exprs: exprs}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateJoin(pos diagnostics.Position, left, right NodeID, how string, leftOn, rightOn []string) (*JoinNode, error) {
	if err := a.validateOperands(left, right); err != nil {
		return nil, err
	}
	n := &JoinNode{base: base{id: a.allocID(), pos: pos}, Left: left, Right: right, How: how, LeftOn: leftOn, RightOn: rightOn}
	a.register(n)
	return n, nil
}

func (a *Arena) CreateMemorySink(pos diagnostics.Position, parent NodeID, name string, columns []string) (*MemorySinkNode, error) {
	if err := a.validateOperands(parent); err != nil {
		return nil, err
	}
	n := &MemorySinkNode{base: base{id: a.allocID(), pos: pos}, Parent: parent, Name: name, Columns: columns}
	a.register(n)
	return n, nil
}

// Get returns the live node for id, or ok=false if id was never
// allocated in this arena or has since been deleted.
func (a *Arena) Get(id NodeID) (Node, bool) {
	if id == 0 || int(id) > len(a.nodes) {
		return nil, false
	}
	n := a.nodes[id-1]
	return n, n != nil
}

// DeleteNode removes a node from the arena. It fails if the node has
// live consumers — callers that want to delete a whole subgraph must
// delete consumers before their operands.
func (a *Arena) DeleteNode(id NodeID) error {
	n, ok := a.Get(id)
	if !ok {
		return diagnostics.InternalErrorf(diagnostics.Position{}, "cannot delete unknown node %d", id)
	}
	if consumers := a.consumers[id]; len(consumers) > 0 {
		return errors.Wrapf(
			diagnostics.InternalErrorf(n.Pos(), "cannot delete node %d: %d live consumer(s) remain", id, len(consumers)),
			"arena inconsistency")
	}
	for _, operand := range n.Operands() {
		delete(a.consumers[operand], id)
	}
	delete(a.consumers, id)
	a.nodes[id-1] = nil
	return nil
}

// All returns every live node, in creation order.
func (a *Arena) All() []Node {
	out := make([]Node, 0, len(a.nodes))
	for _, n := range a.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// String renders a compact human-readable dump of live nodes, used by
// the CLI's --dump-ir flag.
func (a *Arena) String() string {
	s := ""
	for _, n := range a.All() {
		s += fmt.Sprintf("%%%d = %s %s\n", n.ID(), n.Kind(), describe(n))
	}
	return s
}

func describe(n Node) string {
	switch v := n.(type) {
	case *BoolNode:
		return fmt.Sprintf("%v", v.Value)
	case *IntNode:
		return fmt.Sprintf("%d", v.Value)
	case *FloatNode:
		return fmt.Sprintf("%g", v.Value)
	case *StringNode:
		return fmt.Sprintf("%q", v.Value)
	case *TimeNode:
		return fmt.Sprintf("%dns", v.Value)
	case *ColumnNode:
		return fmt.Sprintf("%q", v.ColumnName)
	case *FuncNode:
		return fmt.Sprintf("%s%v", v.Op.Symbol, v.Args)
	case *ScanNode:
		return fmt.Sprintf("table=%q columns=%v", v.Table, v.Columns)
	case *SelectNode:
		return fmt.Sprintf("parent=%%%d columns=%v", v.Parent, v.Columns)
	case *FilterNode:
		return fmt.Sprintf("parent=%%%d predicate=%%%d", v.Parent, v.Predicate)
	case *MapNode:
		return fmt.Sprintf("parent=%%%d columns=%v exprs=%v", v.Parent, v.Columns, v.Exprs)
	case *AggregateNode:
		return fmt.Sprintf("parent=%%%d groupBy=%v names=%v exprs=%v", v.Parent, v.GroupBy, v.Names, v.Exprs)
	case *JoinNode:
		return fmt.Sprintf("left=%%%d right=%%%d how=%q", v.Left, v.Right, v.How)
	case *MemorySinkNode:
		return fmt.Sprintf("parent=%%%d name=%q", v.Parent, v.Name)
	default:
		return ""
	}
}
