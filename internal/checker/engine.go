package checker

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Engine owns the constraint graph: two append-only arenas of producer
// and consumer nodes plus the bound sets of every type variable.
//
// The bound sets are kept closed: whenever a lower bound l and an upper
// bound u share a variable, Flow(l, u) has been asserted. An Engine is
// not safe for concurrent use.
type Engine struct {
	values []valueNode
	uses   []useNode
	slots  []*slot

	// seen holds every pair Flow has started on; failed holds the ones
	// that did not hold, with the error they produced.
	seen   *set.Set[edge]
	failed map[edge]error

	// pairs started by the current top-level Flow call
	depth int
	trail []edge

	boolValue, integerValue, unitValue Value
	boolUse, integerUse, unitUse       Use

	logger *slog.Logger
}

// Stats summarizes the size of the graph
type Stats struct {
	Values int
	Uses   int
	Vars   int
	Flows  int
}

// NewEngine creates an empty graph. A nil logger discards output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = discardLogger()
	}
	e := &Engine{
		seen:   set.New[edge](64),
		failed: make(map[edge]error),
		logger: logger,
	}
	e.boolValue = e.newValue(valueNode{kind: KindBool})
	e.integerValue = e.newValue(valueNode{kind: KindInteger})
	e.unitValue = e.newValue(valueNode{kind: KindUnit})
	e.boolUse = e.newUse(useNode{kind: KindBool})
	e.integerUse = e.newUse(useNode{kind: KindInteger})
	e.unitUse = e.newUse(useNode{kind: KindUnit})
	return e
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (e *Engine) newValue(n valueNode) Value {
	e.values = append(e.values, n)
	return Value(len(e.values) - 1)
}

func (e *Engine) newUse(n useNode) Use {
	e.uses = append(e.uses, n)
	return Use(len(e.uses) - 1)
}

// Var creates a fresh type variable and returns its producer and
// consumer halves. Both halves share one pair of bound sets.
func (e *Engine) Var() (Value, Use) {
	e.slots = append(e.slots, newSlot())
	id := len(e.slots) - 1
	return e.newValue(valueNode{kind: KindVar, slot: id}), e.newUse(useNode{kind: KindVar, slot: id})
}

// Bool returns the producer node of Bool
func (e *Engine) Bool() Value { return e.boolValue }

// BoolUse returns the consumer node that accepts Bool
func (e *Engine) BoolUse() Use { return e.boolUse }

// Integer returns the producer node of Integer
func (e *Engine) Integer() Value { return e.integerValue }

// IntegerUse returns the consumer node that accepts Integer
func (e *Engine) IntegerUse() Use { return e.integerUse }

// Unit returns the producer node of Unit
func (e *Engine) Unit() Value { return e.unitValue }

// UnitUse returns the consumer node that accepts Unit
func (e *Engine) UnitUse() Use { return e.unitUse }

// BaseValue returns the producer node for a base kind
func (e *Engine) BaseValue(k Kind) (Value, bool) {
	switch k {
	case KindBool:
		return e.boolValue, true
	case KindInteger:
		return e.integerValue, true
	case KindUnit:
		return e.unitValue, true
	}
	return 0, false
}

// BaseUse returns the consumer node for a base kind
func (e *Engine) BaseUse(k Kind) (Use, bool) {
	switch k {
	case KindBool:
		return e.boolUse, true
	case KindInteger:
		return e.integerUse, true
	case KindUnit:
		return e.unitUse, true
	}
	return 0, false
}

// Func creates a function producer. Parameters are consumers because a
// function consumes its arguments.
func (e *Engine) Func(params []Use, result Value) Value {
	return e.newValue(valueNode{kind: KindFunc, params: slices.Clone(params), result: result})
}

// FuncUse creates a call-site consumer. Arguments are producers because
// the caller supplies them.
func (e *Engine) FuncUse(args []Value, result Use) Use {
	return e.newUse(useNode{kind: KindFunc, args: slices.Clone(args), result: result})
}

// Flow asserts that values produced at v may reach the consumer u.
//
// Flow terminates on cyclic graphs and is idempotent: asserting a pair a
// second time returns the outcome of the first assertion and leaves the
// graph unchanged.
//
// A pair met again while it is still being checked is assumed to hold.
// When a top-level call fails, the pairs it settled under that
// assumption are forgotten, so a later Flow checks them again instead of
// reporting a stale success. Bounds recorded before the failure stay.
func (e *Engine) Flow(v Value, u Use) error {
	key := edge{value: v, use: u}
	if err, ok := e.failed[key]; ok {
		return err
	}
	if !e.seen.Insert(key) {
		return nil
	}
	e.trail = append(e.trail, key)

	e.depth++
	err := e.constrain(v, u)
	e.depth--

	if err != nil {
		e.failed[key] = err
	}
	if e.depth == 0 {
		if err != nil {
			e.forget()
		}
		e.trail = e.trail[:0]
	}
	return err
}

// forget drops the pairs of the trail from the memo. Failed pairs stay
// in failed and keep returning their error.
func (e *Engine) forget() {
	for _, key := range e.trail {
		e.seen.Remove(key)
	}
}

func (e *Engine) constrain(v Value, u Use) error {
	value, use := e.values[v], e.uses[u]

	if value.kind == KindVar || use.kind == KindVar {
		if value.kind == KindVar {
			if err := e.addUpper(value.slot, u); err != nil {
				return err
			}
		}
		if use.kind == KindVar {
			if err := e.addLower(use.slot, v); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case value.kind == KindFunc && use.kind == KindFunc:
		return e.constrainFunc(value, use)
	case value.kind == use.kind:
		return nil
	default:
		return &TypeMismatchError{Expected: use.kind, Found: value.kind}
	}
}

// constrainFunc checks a function against a call site: arguments flow
// into parameters and the result flows into the call's result.
func (e *Engine) constrainFunc(fn valueNode, call useNode) error {
	if len(fn.params) != len(call.args) {
		return &ArityMismatchError{Expected: len(fn.params), Found: len(call.args)}
	}
	for i, param := range fn.params {
		if err := e.Flow(call.args[i], param); err != nil {
			return err
		}
	}
	return e.Flow(fn.result, call.result)
}

// addUpper records u as an upper bound of the slot and pushes every
// lower bound into it. Ranging over the slice header snapshots the
// bounds present on entry; bounds appended during propagation are
// handled by their own insertion.
func (e *Engine) addUpper(id int, u Use) error {
	s := e.slots[id]
	if s.upperSet.Insert(u) {
		s.upper = append(s.upper, u)
		e.logger.Debug("flow: adding upper bound", "var", id, "use", u, "kind", e.uses[u].kind)
	}
	for _, lower := range s.lower {
		if err := e.Flow(lower, u); err != nil {
			return err
		}
	}
	return nil
}

// addLower records v as a lower bound of the slot and pushes it into
// every upper bound.
func (e *Engine) addLower(id int, v Value) error {
	s := e.slots[id]
	if s.lowerSet.Insert(v) {
		s.lower = append(s.lower, v)
		e.logger.Debug("flow: adding lower bound", "var", id, "value", v, "kind", e.values[v].kind)
	}
	for _, upper := range s.upper {
		if err := e.Flow(v, upper); err != nil {
			return err
		}
	}
	return nil
}

// ValueKind returns the head constructor of a producer
func (e *Engine) ValueKind(v Value) Kind {
	return e.values[v].kind
}

// UseKind returns the head constructor of a consumer
func (e *Engine) UseKind(u Use) Kind {
	return e.uses[u].kind
}

// Bounds returns copies of the lower and upper bounds of the variable
// behind v. Both are nil when v is not a variable.
func (e *Engine) Bounds(v Value) ([]Value, []Use) {
	n := e.values[v]
	if n.kind != KindVar {
		return nil, nil
	}
	s := e.slots[n.slot]
	return slices.Clone(s.lower), slices.Clone(s.upper)
}

// UseBounds is Bounds for the consumer half of a variable
func (e *Engine) UseBounds(u Use) ([]Value, []Use) {
	n := e.uses[u]
	if n.kind != KindVar {
		return nil, nil
	}
	s := e.slots[n.slot]
	return slices.Clone(s.lower), slices.Clone(s.upper)
}

// Stats returns the current size of the graph
func (e *Engine) Stats() Stats {
	return Stats{
		Values: len(e.values),
		Uses:   len(e.uses),
		Vars:   len(e.slots),
		Flows:  e.seen.Size() + len(e.failed),
	}
}

// DescribeValue renders a producer, e.g. "fn(Integer, 't2) -> Bool".
// Variables print as their slot number and are not expanded.
func (e *Engine) DescribeValue(v Value) string {
	n := e.values[v]
	switch n.kind {
	case KindVar:
		return fmt.Sprintf("'t%d", n.slot)
	case KindFunc:
		params := make([]string, len(n.params))
		for i, p := range n.params {
			params[i] = e.DescribeUse(p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), e.DescribeValue(n.result))
	default:
		return n.kind.String()
	}
}

// DescribeUse renders a consumer the same way DescribeValue renders a producer
func (e *Engine) DescribeUse(u Use) string {
	n := e.uses[u]
	switch n.kind {
	case KindVar:
		return fmt.Sprintf("'t%d", n.slot)
	case KindFunc:
		args := make([]string, len(n.args))
		for i, a := range n.args {
			args[i] = e.DescribeValue(a)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(args, ", "), e.DescribeUse(n.result))
	default:
		return n.kind.String()
	}
}
