package selectors

// MatchingMode selects how a trailing pseudo-element component is
// treated by the matching entry points.
type MatchingMode int

const (
	// MatchingModeNormal matches the selector as written; a
	// pseudo-element component is dispatched to the element like any
	// other simple selector.
	MatchingModeNormal MatchingMode = iota
	// MatchingModeForStatelessPseudoElement consumes the rightmost
	// pseudo-element component through the context's
	// PseudoElementMatchingFn before matching the rest of the selector
	// against the originating element.
	MatchingModeForStatelessPseudoElement
)

// VisitedHandlingMode controls whether :visited-sensitive state is
// observable during a match.
type VisitedHandlingMode int

const (
	// AllLinksUnvisited treats every link as unvisited.
	AllLinksUnvisited VisitedHandlingMode = iota
	// AllLinksVisited treats every link as visited.
	AllLinksVisited
	// RelevantLinkVisited treats the link under consideration as
	// visited. Once the backtracking walk crosses a link or a sibling
	// combinator the mode degrades to AllLinksUnvisited, so :visited
	// state is never observable through two distinct links.
	RelevantLinkVisited
)

// MatchesVisited reports whether :visited may match under this mode.
func (m VisitedHandlingMode) MatchesVisited() bool {
	return m == AllLinksVisited || m == RelevantLinkVisited
}

// MatchesUnvisited reports whether :link may match under this mode.
func (m VisitedHandlingMode) MatchesUnvisited() bool {
	return m == AllLinksUnvisited
}

// QuirksMode is the document compatibility mode.
type QuirksMode int

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

// ClassesAndIDsCaseSensitivity returns how class and id selectors
// compare under this mode.
func (q QuirksMode) ClassesAndIDsCaseSensitivity() CaseSensitivity {
	if q == Quirks {
		return ASCIICaseInsensitive
	}
	return CaseSensitive
}

// CaseSensitivity is a resolved string comparison mode.
type CaseSensitivity int

const (
	CaseSensitive CaseSensitivity = iota
	ASCIICaseInsensitive
)

// Eq compares two strings under the sensitivity.
func (cs CaseSensitivity) Eq(a, b string) bool {
	if cs == ASCIICaseInsensitive {
		return asciiEqualFold(a, b)
	}
	return a == b
}

// MatchingContext is the per-matching-operation state. Create one per
// top-level matching call (one querySelectorAll, or one style
// resolution pass over one element) and thread it through; it is
// mutated during matching and must not be shared across concurrent
// matches without external synchronization.
type MatchingContext struct {
	// MatchingMode is fixed for the lifetime of the context.
	MatchingMode MatchingMode

	// BloomFilter, when non-nil, is the caller-maintained filter of
	// ancestor hashes consulted by MatchesSelector for fast rejection.
	BloomFilter *BloomFilter

	// NthIndexCache, when non-nil, memoizes structural indices for the
	// :nth-* family within one style pass. Any tree mutation
	// invalidates it; discarding it is the caller's responsibility.
	NthIndexCache *NthIndexCache

	// VisitedHandling may be set before matching starts; the matcher
	// saves and restores it around backtracking steps.
	VisitedHandling VisitedHandlingMode

	// CurrentHost is the shadow host whose tree is the current scope,
	// for :host, ::slotted() and ::part() resolution.
	CurrentHost *OpaqueElement

	// ScopeElement anchors :scope. When nil, :scope falls back to the
	// root element.
	ScopeElement *OpaqueElement

	// PseudoElementMatchingFn decides whether a pseudo-element selector
	// is active for the current request, in
	// MatchingModeForStatelessPseudoElement. A nil function accepts
	// every pseudo-element.
	PseudoElementMatchingFn func(PseudoElement) bool

	quirksMode                   QuirksMode
	classesAndIDsCaseSensitivity CaseSensitivity
	nestingLevel                 int
	inNegation                   bool
}

// NewMatchingContext builds a context. filter and cache may be nil.
func NewMatchingContext(mode MatchingMode, filter *BloomFilter, cache *NthIndexCache, quirks QuirksMode) *MatchingContext {
	return &MatchingContext{
		MatchingMode:                 mode,
		BloomFilter:                  filter,
		NthIndexCache:                cache,
		quirksMode:                   quirks,
		classesAndIDsCaseSensitivity: quirks.ClassesAndIDsCaseSensitivity(),
	}
}

// QuirksMode returns the document mode the context was built with.
func (c *MatchingContext) QuirksMode() QuirksMode {
	return c.quirksMode
}

// ClassesAndIDsCaseSensitivity returns the comparison mode for class
// and id selectors, derived from the quirks mode.
func (c *MatchingContext) ClassesAndIDsCaseSensitivity() CaseSensitivity {
	return c.classesAndIDsCaseSensitivity
}

// IsNested reports whether matching is currently inside :is(),
// :where(), :not(), :host() or ::slotted(). Several special rules
// (pseudo-element consumption, the hover/active quirk) are disabled in
// nested contexts.
func (c *MatchingContext) IsNested() bool {
	return c.nestingLevel != 0
}

// InNegation reports whether matching is currently inside :not().
func (c *MatchingContext) InNegation() bool {
	return c.inNegation
}

// Nest runs f with the nesting level raised, restoring it on every
// exit path.
func (c *MatchingContext) Nest(f func() bool) bool {
	c.nestingLevel++
	defer func() { c.nestingLevel-- }()
	return f()
}

// NestForNegation is Nest plus the in-negation marker.
func (c *MatchingContext) NestForNegation(f func() bool) bool {
	saved := c.inNegation
	c.inNegation = true
	defer func() { c.inNegation = saved }()
	return c.Nest(f)
}

// withVisitedHandling runs f under the given mode and restores the
// previous one afterwards.
func (c *MatchingContext) withVisitedHandling(mode VisitedHandlingMode, f func() selectorMatchingResult) selectorMatchingResult {
	saved := c.VisitedHandling
	c.VisitedHandling = mode
	defer func() { c.VisitedHandling = saved }()
	return f()
}

func (c *MatchingContext) nthIndexCacheFor(isOfType, isFromEnd bool) *nthIndexCacheInner {
	if c.NthIndexCache == nil {
		return nil
	}
	return c.NthIndexCache.get(isOfType, isFromEnd)
}
