package checker

import (
	"github.com/hashicorp/go-set/v3"
)

// Value is a handle to a producer node: the type an expression has.
type Value int

// Use is a handle to a consumer node: the type a context requires of
// whatever flows into it.
type Use int

// Kind is the head constructor of a node.
type Kind int

const (
	KindVar Kind = iota
	KindBool
	KindInteger
	KindUnit
	KindFunc
)

// String returns the source-level name of the kind
func (k Kind) String() string {
	switch k {
	case KindVar:
		return "variable"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindUnit:
		return "Unit"
	case KindFunc:
		return "function"
	default:
		return "unknown"
	}
}

// typeNames maps annotation names to the base kinds they denote
var typeNames = map[string]Kind{
	"Bool":    KindBool,
	"Integer": KindInteger,
	"Unit":    KindUnit,
}

// LookupTypeName resolves a type annotation name
func LookupTypeName(name string) (Kind, bool) {
	k, ok := typeNames[name]
	return k, ok
}

type valueNode struct {
	kind   Kind
	params []Use // KindFunc
	result Value // KindFunc
	slot   int   // KindVar
}

type useNode struct {
	kind   Kind
	args   []Value // KindFunc
	result Use     // KindFunc
	slot   int     // KindVar
}

// slot is the shared state of one type variable. The slices keep
// insertion order for deterministic propagation; the sets dedupe.
type slot struct {
	lower    []Value
	upper    []Use
	lowerSet *set.Set[Value]
	upperSet *set.Set[Use]
}

func newSlot() *slot {
	return &slot{
		lowerSet: set.New[Value](4),
		upperSet: set.New[Use](4),
	}
}

// edge is one asserted flow from a producer into a consumer
type edge struct {
	value Value
	use   Use
}
