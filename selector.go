// Package selectors implements CSS selector matching over a generic
// element tree.
//
// The package does not parse selector text. Callers construct Selector
// values through a Builder (the natural target for a CSS parser) and
// hand them to the matching entry points together with an
// implementation of the Element interface.
package selectors

// A Combinator joins two compound selectors within a complex selector.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorLaterSibling
	// CombinatorPseudoElement is the implicit combinator between a
	// pseudo-element and its originating element, e.g. in "div::before".
	CombinatorPseudoElement
	// CombinatorSlotAssignment is the implicit combinator between a
	// ::slotted() compound and the <slot> compound to its left.
	CombinatorSlotAssignment
	// CombinatorPart is the implicit combinator between a ::part()
	// compound and its shadow host.
	CombinatorPart
)

// IsAncestor reports whether the combinator walks toward ancestors in
// the (flattened) tree.
func (c Combinator) IsAncestor() bool {
	switch c {
	case CombinatorChild, CombinatorDescendant, CombinatorPseudoElement,
		CombinatorSlotAssignment, CombinatorPart:
		return true
	}
	return false
}

// IsSibling reports whether the combinator walks toward preceding
// siblings.
func (c Combinator) IsSibling() bool {
	return c == CombinatorNextSibling || c == CombinatorLaterSibling
}

// A Component is one simple selector, or a combinator, within a
// Selector.
type Component interface {
	String() string
}

// LocalName matches elements with a given tag name. LowerName carries
// the ASCII-lowercased form used when matching HTML elements in HTML
// documents.
type LocalName struct {
	Name      string
	LowerName string
}

// NewLocalName builds a LocalName with its lowercased form filled in.
func NewLocalName(name string) LocalName {
	return LocalName{Name: name, LowerName: asciiLower(name)}
}

// ExplicitUniversalType is the universal selector "*".
type ExplicitUniversalType struct{}

// ExplicitAnyNamespace is the "*|" namespace prefix.
type ExplicitAnyNamespace struct{}

// ExplicitNoNamespace is the "|" namespace prefix (no namespace).
type ExplicitNoNamespace struct{}

// DefaultNamespace constrains the element to the stylesheet's default
// namespace.
type DefaultNamespace struct {
	URL string
}

// Namespace constrains the element to an explicitly prefixed namespace.
type Namespace struct {
	Prefix string
	URL    string
}

// ID matches elements by id attribute.
type ID struct {
	Name string
}

// Class matches elements by one entry of the class attribute.
type Class struct {
	Name string
}

// AttrSelectorOperator is the comparison operator of an attribute
// selector.
type AttrSelectorOperator int

const (
	AttrExists    AttrSelectorOperator = iota // [attr]
	AttrEqual                                 // [attr=val]
	AttrIncludes                              // [attr~=val]
	AttrDashMatch                             // [attr|=val]
	AttrPrefix                                // [attr^=val]
	AttrSuffix                                // [attr$=val]
	AttrSubstring                             // [attr*=val]
)

// ParsedCaseSensitivity is the case sensitivity of an attribute value
// comparison as written in the selector, before document context is
// known.
type ParsedCaseSensitivity int

const (
	ParsedCaseSensitive ParsedCaseSensitivity = iota
	ParsedASCIICaseInsensitive
	// ASCIICaseInsensitiveIfInHTMLElementInHTMLDocument covers the
	// legacy HTML attributes whose values compare case-insensitively
	// on HTML elements in HTML documents.
	ASCIICaseInsensitiveIfInHTMLElementInHTMLDocument
)

// ToCaseSensitivity resolves the parsed sensitivity against the element
// the comparison runs on.
func (s ParsedCaseSensitivity) ToCaseSensitivity(isHTMLElementInHTMLDocument bool) CaseSensitivity {
	switch s {
	case ParsedASCIICaseInsensitive:
		return ASCIICaseInsensitive
	case ASCIICaseInsensitiveIfInHTMLElementInHTMLDocument:
		if isHTMLElementInHTMLDocument {
			return ASCIICaseInsensitive
		}
	}
	return CaseSensitive
}

// Attribute matches elements by attribute presence or value.
type Attribute struct {
	// Namespace is nil for attributes in no namespace (the common
	// case).
	Namespace       *NamespaceConstraint
	LocalName       string
	LocalNameLower  string
	Operator        AttrSelectorOperator
	Value           string
	CaseSensitivity ParsedCaseSensitivity
	// NeverMatches is precomputed by the parser for comparisons that
	// cannot succeed, e.g. [attr~=""].
	NeverMatches bool
}

func (a Attribute) lowerName() string {
	if a.LocalNameLower != "" {
		return a.LocalNameLower
	}
	return a.LocalName
}

// Root matches the document root element.
type Root struct{}

// Empty matches elements without child content.
type Empty struct{}

// Scope matches the contextual reference element.
type Scope struct{}

// FirstChild matches elements with no preceding sibling element.
type FirstChild struct{}

// LastChild matches elements with no following sibling element.
type LastChild struct{}

// OnlyChild matches elements with no sibling elements.
type OnlyChild struct{}

// FirstOfType matches the first sibling of its type.
type FirstOfType struct{}

// LastOfType matches the last sibling of its type.
type LastOfType struct{}

// OnlyOfType matches the only sibling of its type.
type OnlyOfType struct{}

// NthChild matches elements whose 1-based sibling index i satisfies
// A*n + B == i for some n >= 0.
type NthChild struct {
	A, B int32
}

// NthLastChild is NthChild counted from the end.
type NthLastChild struct {
	A, B int32
}

// NthOfType is NthChild restricted to siblings of the same type.
type NthOfType struct {
	A, B int32
}

// NthLastOfType is NthOfType counted from the end.
type NthLastOfType struct {
	A, B int32
}

// NonTSPseudoClass is a non-tree-structural pseudo-class such as
// :hover or :visited. Its interpretation is delegated to the Element
// implementation.
type NonTSPseudoClass struct {
	Name string
}

// IsActiveOrHover reports whether the pseudo-class participates in the
// quirks-mode :hover/:active quirk.
func (p NonTSPseudoClass) IsActiveOrHover() bool {
	return p.Name == "active" || p.Name == "hover"
}

// PseudoElement is a pseudo-element selector such as ::before.
type PseudoElement struct {
	Name string
}

// Negation is :not() over a list of simple selectors.
type Negation struct {
	Simples []Component
}

// Is is the :is() pseudo-class: matches if any selector in the list
// matches.
type Is struct {
	List SelectorList
}

// Where is :where(); it matches like Is (specificity, which differs,
// is out of scope here).
type Where struct {
	List SelectorList
}

// Host is :host or :host(<selector>).
type Host struct {
	Selector *Selector
}

// Slotted is ::slotted(<selector>).
type Slotted struct {
	Selector *Selector
}

// Part is ::part(<ident>+).
type Part struct {
	Names []string
}

// A Selector is an immutable parsed complex selector. Components are
// stored in right-to-left match order: the rightmost (subject)
// compound first, with combinators separating compounds. The same
// components are also kept in left-to-right parse order for
// serialization and partial matching.
type Selector struct {
	matchOrder []Component
	parseOrder []Component
}

// A SelectorList is a comma-separated selector group.
type SelectorList []*Selector

// Len returns the number of components, counting combinators.
func (s *Selector) Len() int {
	return len(s.matchOrder)
}

// ParseOrderComponent returns the i-th component in parse order. Used
// together with MatchesCompoundSelectorFrom for partial matching.
func (s *Selector) ParseOrderComponent(i int) Component {
	return s.parseOrder[i]
}

func (s *Selector) iter() selectorIter {
	return selectorIter{components: s.matchOrder}
}

// iterFrom starts iteration at the given match-order offset, which must
// be the start of a compound.
func (s *Selector) iterFrom(offset int) selectorIter {
	return selectorIter{components: s.matchOrder[offset:]}
}

// selectorIter walks a selector in match order, one compound at a
// time. next returns the simple selectors of the current compound and
// nil at its end; nextSequence then consumes the combinator leading to
// the following compound. Copying the iterator snapshots its position.
type selectorIter struct {
	components []Component
	index      int
}

func (it *selectorIter) next() Component {
	if it.index >= len(it.components) {
		return nil
	}
	if _, ok := it.components[it.index].(Combinator); ok {
		return nil
	}
	c := it.components[it.index]
	it.index++
	return c
}

// peek returns the next simple selector of the current compound
// without consuming it.
func (it *selectorIter) peek() Component {
	if it.index >= len(it.components) {
		return nil
	}
	if _, ok := it.components[it.index].(Combinator); ok {
		return nil
	}
	return it.components[it.index]
}

func (it *selectorIter) nextSequence() (Combinator, bool) {
	if it.index >= len(it.components) {
		return CombinatorNone, false
	}
	c, ok := it.components[it.index].(Combinator)
	if !ok {
		return CombinatorNone, false
	}
	it.index++
	return c, true
}

// isFeaturelessHostSelector reports whether the rest of the current
// compound consists solely of :host-family selectors. Such a compound
// may match a shadow host from inside its shadow tree.
func (it selectorIter) isFeaturelessHostSelector() bool {
	seen := false
	for c := it.next(); c != nil; c = it.next() {
		if _, ok := c.(Host); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// reverseCombinatorOrder flips a component sequence between parse order
// and match order: compound order is reversed, the order of simple
// selectors within each compound is kept. The transformation is its
// own inverse.
func reverseCombinatorOrder(components []Component) []Component {
	out := make([]Component, 0, len(components))
	end := len(components)
	for end > 0 {
		start := end
		for start > 0 {
			if _, ok := components[start-1].(Combinator); ok {
				break
			}
			start--
		}
		out = append(out, components[start:end]...)
		if start == 0 {
			break
		}
		out = append(out, components[start-1])
		end = start - 1
	}
	return out
}

func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
