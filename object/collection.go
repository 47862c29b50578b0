package object

// CollectionKind distinguishes List from Tuple; the two share every
// behavior and differ only by this tag (spec.md §3).
type CollectionKind int

const (
	ListCollection CollectionKind = iota
	TupleCollection
)

func (k CollectionKind) String() string {
	if k == TupleCollection {
		return "tuple"
	}
	return "list"
}

// Collection is an ordered sequence of Objects produced by evaluating a
// List or Tuple expression's elements in order.
type Collection struct {
	Base
	CollKind CollectionKind
	Items    []Object
}

func NewCollection(kind CollectionKind, items []Object) *Collection {
	return &Collection{CollKind: kind, Items: items}
}

func (c *Collection) Kind() Kind { return KindCollection }
