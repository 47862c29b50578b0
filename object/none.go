package object

// NoneValue is the unit value. Every suite that falls off the end, and
// every native function with nothing useful to return, produces it.
type NoneValue struct {
	Base
}

// None is the single shared instance; None carries no state so there is
// no reason to allocate more than one.
var None = &NoneValue{}

func (*NoneValue) Kind() Kind { return KindNone }
