package selectors

// OpaqueElement is a stable, comparable identity for an element, used
// as a cache key and for scope comparisons without holding on to the
// element itself.
type OpaqueElement struct {
	key any
}

// NewOpaqueElement wraps a comparable key, typically the pointer to
// the underlying tree node.
func NewOpaqueElement(key any) OpaqueElement {
	return OpaqueElement{key: key}
}

// ElementSelectorFlags records, as a side effect of matching, which
// structural dependencies a selector placed on an element. The restyle
// invalidation system ORs them into its own per-element storage to
// know which DOM mutations require re-matching which elements. The
// matcher only ever writes them.
type ElementSelectorFlags uint8

const (
	// HasSlowSelector: a from-end :nth-* selector depends on this
	// element's later siblings; any sibling change re-matches it.
	HasSlowSelector ElementSelectorFlags = 1 << iota
	// HasSlowSelectorLaterSiblings: a from-start :nth-* selector or a
	// failed sibling-combinator chain depends on earlier siblings.
	HasSlowSelectorLaterSiblings
	// HasEdgeChildSelector: :first-child/:last-child/:only-child was
	// evaluated against this element.
	HasEdgeChildSelector
	// HasEmptySelector: :empty was evaluated against this element.
	HasEmptySelector
)

// FlagsSetter receives structural-dependency flags as they are
// discovered. It is invoked during matching regardless of the match
// outcome.
type FlagsSetter func(Element, ElementSelectorFlags)

func noopFlagsSetter(Element, ElementSelectorFlags) {}

// NamespaceConstraint restricts an attribute selector to a namespace.
type NamespaceConstraint struct {
	// Any accepts attributes in any namespace ("*|attr").
	Any bool
	// URL is the namespace URL; empty means no namespace.
	URL string
}

// AttrSelectorOperation is a resolved attribute value comparison,
// handed to Element.AttrMatches.
type AttrSelectorOperation struct {
	Operator        AttrSelectorOperator
	Value           string
	CaseSensitivity CaseSensitivity
}

// Eval applies the operation to one attribute value.
func (op AttrSelectorOperation) Eval(value string) bool {
	cs := op.CaseSensitivity
	switch op.Operator {
	case AttrExists:
		return true
	case AttrEqual:
		return cs.Eq(value, op.Value)
	case AttrIncludes:
		return matchInclude(op.Value, value, cs)
	case AttrDashMatch:
		if cs.Eq(value, op.Value) {
			return true
		}
		if len(value) <= len(op.Value) {
			return false
		}
		return cs.Eq(value[:len(op.Value)], op.Value) && value[len(op.Value)] == '-'
	case AttrPrefix:
		return op.Value != "" && len(value) >= len(op.Value) &&
			cs.Eq(value[:len(op.Value)], op.Value)
	case AttrSuffix:
		return op.Value != "" && len(value) >= len(op.Value) &&
			cs.Eq(value[len(value)-len(op.Value):], op.Value)
	case AttrSubstring:
		return op.Value != "" && containsFold(value, op.Value, cs)
	default:
		panic("selectors: unknown attribute operator")
	}
}

// matchInclude reports whether list, split on CSS whitespace, contains
// val.
func matchInclude(val, list string, cs CaseSensitivity) bool {
	for list != "" {
		i := indexAnySpace(list)
		if i == -1 {
			return cs.Eq(list, val)
		}
		if cs.Eq(list[:i], val) {
			return true
		}
		list = list[i+1:]
	}
	return false
}

func indexAnySpace(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\f':
			return i
		}
	}
	return -1
}

func containsFold(s, substr string, cs CaseSensitivity) bool {
	if len(substr) > len(s) {
		return false
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if cs.Eq(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

// Element is the capability interface a tree-node type implements to
// be matched against. Navigation methods return nil when there is no
// such element. Implementations must be cheap to copy; the matcher
// holds them only for the duration of one call.
type Element interface {
	// Opaque returns a stable identity for caching and scope
	// comparisons.
	Opaque() OpaqueElement

	// ParentElement returns the parent, skipping non-element nodes.
	ParentElement() Element
	// ParentNodeIsShadowRoot reports whether the parent node (not
	// element) is a shadow root.
	ParentNodeIsShadowRoot() bool
	// ContainingShadowHost returns the host of the shadow tree the
	// element lives in, if any.
	ContainingShadowHost() Element
	// PseudoElementOriginatingElement returns the element a
	// pseudo-element was generated for. Only called on elements
	// reached across a pseudo-element combinator.
	PseudoElementOriginatingElement() Element
	PrevSiblingElement() Element
	NextSiblingElement() Element

	// IsHTMLElementInHTMLDocument gates the HTML case-folding rules
	// for tag and attribute names.
	IsHTMLElementInHTMLDocument() bool
	HasLocalName(name string) bool
	// HasNamespace compares against a namespace URL.
	HasNamespace(url string) bool
	// IsSameType reports same local name and namespace, for the
	// of-type selector family.
	IsSameType(other Element) bool

	HasID(id string, cs CaseSensitivity) bool
	HasClass(class string, cs CaseSensitivity) bool
	// AttrMatches finds attributes satisfying the namespace constraint
	// and local name and applies the operation to their values.
	AttrMatches(ns NamespaceConstraint, localName string, op AttrSelectorOperation) bool

	// MatchNonTSPseudoClass evaluates a non-tree-structural
	// pseudo-class; the context supplies visited handling and quirks
	// mode.
	MatchNonTSPseudoClass(pc NonTSPseudoClass, ctx *MatchingContext) bool
	// MatchPseudoElement evaluates a pseudo-element selector in
	// MatchingModeNormal.
	MatchPseudoElement(pe PseudoElement, ctx *MatchingContext) bool

	IsLink() bool
	IsHTMLSlotElement() bool
	// AssignedSlot returns the <slot> this element is assigned to, if
	// any.
	AssignedSlot() Element
	// IsPart reports whether the element's part list contains name.
	IsPart(name string) bool
	// ImportedPart translates an inner part name through the host's
	// exportparts mapping.
	ImportedPart(name string) (string, bool)

	IsRoot() bool
	IsEmpty() bool
	// IgnoresNthChildSelectors marks elements that never match the
	// :nth-* family, e.g. certain non-element shadow participants.
	IgnoresNthChildSelectors() bool
}
