package selectors

import (
	"errors"
	"fmt"
)

// A Builder assembles a Selector from components supplied in parse
// order (left to right, as written in a stylesheet). It is the seam a
// selector parser plugs into, and enforces the structural invariants
// the matcher relies on: a combinator never opens a selector, never
// ends one, and combinators always separate non-empty compounds.
type Builder struct {
	parseOrder []Component
	err        error
}

// PushSimple appends one simple selector to the current compound.
func (b *Builder) PushSimple(c Component) *Builder {
	if b.err != nil {
		return b
	}
	if _, ok := c.(Combinator); ok {
		b.err = errors.New("selectors: PushSimple called with a combinator")
		return b
	}
	if c == nil {
		b.err = errors.New("selectors: PushSimple called with nil component")
		return b
	}
	b.parseOrder = append(b.parseOrder, c)
	return b
}

// PushCombinator ends the current compound and starts the next one.
func (b *Builder) PushCombinator(c Combinator) *Builder {
	if b.err != nil {
		return b
	}
	if c == CombinatorNone {
		b.err = errors.New("selectors: CombinatorNone is not a valid combinator")
		return b
	}
	if len(b.parseOrder) == 0 {
		b.err = errors.New("selectors: combinator at the start of a selector")
		return b
	}
	if _, ok := b.parseOrder[len(b.parseOrder)-1].(Combinator); ok {
		b.err = fmt.Errorf("selectors: adjacent combinators %s and %s",
			b.parseOrder[len(b.parseOrder)-1], c)
		return b
	}
	b.parseOrder = append(b.parseOrder, c)
	return b
}

// Build finalizes the selector. The Builder must not be reused after
// Build.
func (b *Builder) Build() (*Selector, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.parseOrder) == 0 {
		return nil, errors.New("selectors: empty selector")
	}
	if _, ok := b.parseOrder[len(b.parseOrder)-1].(Combinator); ok {
		return nil, errors.New("selectors: combinator at the end of a selector")
	}
	return &Selector{
		matchOrder: reverseCombinatorOrder(b.parseOrder),
		parseOrder: b.parseOrder,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Selector {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
