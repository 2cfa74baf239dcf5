package selectors

// selectorMatchingResult is the four-valued outcome of matching one
// complex-selector suffix against one candidate element. The failure
// kinds are distinguished so the backtracking loop can skip candidate
// elements that provably cannot help.
type selectorMatchingResult int

const (
	// selectorMatched: the compound matched and no combinator remains.
	selectorMatched selectorMatchingResult = iota
	// notMatchedAndRestartFromClosestLaterSibling: the current
	// compound failed; a different sibling further out may still
	// match.
	notMatchedAndRestartFromClosestLaterSibling
	// notMatchedAndRestartFromClosestDescendant: a sibling-combinator
	// chain failed; give up on siblings and resume the enclosing
	// descendant search.
	notMatchedAndRestartFromClosestDescendant
	// notMatchedGlobally: no amount of backtracking can help; abort
	// the selector.
	notMatchedGlobally
)

// MatchesSelectorList reports whether any selector in the list matches
// the element, short-circuiting on the first match. No flags are
// recorded.
func MatchesSelectorList(list SelectorList, element Element, ctx *MatchingContext) bool {
	for _, s := range list {
		if matchesComplexSelector(s.iter(), element, ctx, noopFlagsSetter) {
			return true
		}
	}
	return false
}

// MatchesSelector reports whether the selector, starting at the given
// match-order offset (0 for the whole selector), matches the element.
// When hashes and a bloom filter are available the selector may be
// rejected without touching the tree. flagsSetter may be nil.
func MatchesSelector(selector *Selector, offset int, hashes *AncestorHashes, element Element, ctx *MatchingContext, flagsSetter FlagsSetter) bool {
	if hashes != nil && ctx.BloomFilter != nil && !MayMatch(hashes, ctx.BloomFilter) {
		return false
	}
	if flagsSetter == nil {
		flagsSetter = noopFlagsSetter
	}
	return matchesComplexSelector(selector.iterFrom(offset), element, ctx, flagsSetter)
}

// CompoundSelectorMatchingResult is the outcome of matching a single
// compound selector in parse order, for partial/incremental matching.
type CompoundSelectorMatchingResult struct {
	// Matched reports whether every simple selector up to the next
	// combinator (or the end) matched.
	Matched bool
	// FullyMatched reports that the end of the selector was reached.
	FullyMatched bool
	// NextCombinatorOffset is the parse-order offset of the combinator
	// that ended the compound. Valid when Matched and not
	// FullyMatched.
	NextCombinatorOffset int
}

// MatchesCompoundSelectorFrom matches the compound selector starting
// at the given parse-order offset against the element. fromOffset must
// be 0 or the offset just past an ancestor combinator. No flags are
// recorded and the hover/active quirk does not apply.
func MatchesCompoundSelectorFrom(selector *Selector, fromOffset int, ctx *MatchingContext, element Element) CompoundSelectorMatchingResult {
	if fromOffset != 0 {
		if c, ok := selector.parseOrder[fromOffset-1].(Combinator); !ok || !c.IsAncestor() {
			panic("selectors: fromOffset does not follow an ancestor combinator")
		}
	}
	local := localMatchingContext{shared: ctx}
	for i := fromOffset; i < len(selector.parseOrder); i++ {
		if _, ok := selector.parseOrder[i].(Combinator); ok {
			return CompoundSelectorMatchingResult{Matched: true, NextCombinatorOffset: i}
		}
		if !matchesSimpleSelector(selector.parseOrder[i], element, &local, noopFlagsSetter) {
			return CompoundSelectorMatchingResult{}
		}
	}
	return CompoundSelectorMatchingResult{Matched: true, FullyMatched: true}
}

// matchesComplexSelector is the top-level entry for one selector. In
// stateless-pseudo-element mode (and only outside nested contexts) it
// first consumes the rightmost pseudo-element component through the
// context's predicate, skips the state pseudo-classes that may trail
// it, and advances past the pseudo-element combinator before running
// the general algorithm.
func matchesComplexSelector(it selectorIter, element Element, ctx *MatchingContext, flagsSetter FlagsSetter) bool {
	if ctx.MatchingMode == MatchingModeForStatelessPseudoElement && !ctx.IsNested() {
		pe, ok := it.next().(PseudoElement)
		if !ok {
			panic("selectors: stateless pseudo-element matching on a selector without a pseudo-element")
		}
		if f := ctx.PseudoElementMatchingFn; f != nil && !f(pe) {
			return false
		}
		for c := it.next(); c != nil; c = it.next() {
			// The parser only allows state pseudo-classes after a
			// pseudo-element; they carry no meaning in stateless mode.
			if _, ok := c.(NonTSPseudoClass); !ok {
				return false
			}
		}
		if comb, ok := it.nextSequence(); !ok || comb != CombinatorPseudoElement {
			return true
		}
	}
	return matchesComplexSelectorInternal(it, element, ctx, flagsSetter, true) == selectorMatched
}

func matchesComplexSelectorInternal(it selectorIter, element Element, ctx *MatchingContext, flagsSetter FlagsSetter, rightmost bool) selectorMatchingResult {
	compoundMatched := matchesCompoundSelector(&it, element, ctx, flagsSetter, rightmost)

	combinator, hasCombinator := it.nextSequence()
	if hasCombinator && combinator.IsSibling() {
		// Whatever the outcome, the element now structurally depends
		// on its earlier siblings.
		flagsSetter(element, HasSlowSelectorLaterSiblings)
	}

	if !compoundMatched {
		return notMatchedAndRestartFromClosestLaterSibling
	}
	if !hasCombinator {
		return selectorMatched
	}

	candidateNotFound := notMatchedGlobally
	if combinator.IsSibling() {
		candidateNotFound = notMatchedAndRestartFromClosestDescendant
	}

	// Crossing a link, or a sibling combinator, makes :visited state
	// unobservable further left: two distinct links must never both
	// report as visited within one match.
	visited := ctx.VisitedHandling
	if element.IsLink() || combinator.IsSibling() {
		visited = AllLinksUnvisited
	}

	nextElement := nextElementForCombinator(element, combinator, it, ctx)
	for {
		if nextElement == nil {
			return candidateNotFound
		}
		candidate := nextElement
		result := ctx.withVisitedHandling(visited, func() selectorMatchingResult {
			return matchesComplexSelectorInternal(it, candidate, ctx, flagsSetter, false)
		})
		switch {
		case result == selectorMatched || result == notMatchedGlobally ||
			combinator == CombinatorNextSibling:
			return result
		case combinator == CombinatorChild || combinator == CombinatorPseudoElement:
			return notMatchedAndRestartFromClosestDescendant
		case result == notMatchedAndRestartFromClosestDescendant &&
			combinator == CombinatorLaterSibling:
			return result
		}
		nextElement = nextElementForCombinator(candidate, combinator, it, ctx)
	}
}

// nextElementForCombinator finds the next candidate element to match
// the following compound against.
func nextElementForCombinator(element Element, combinator Combinator, it selectorIter, ctx *MatchingContext) Element {
	switch combinator {
	case CombinatorNextSibling, CombinatorLaterSibling:
		return element.PrevSiblingElement()
	case CombinatorChild, CombinatorDescendant:
		if p := element.ParentElement(); p != nil {
			return p
		}
		// An element at the top of a shadow tree can still match a
		// featureless :host compound against its shadow host.
		if !element.ParentNodeIsShadowRoot() {
			return nil
		}
		if !it.isFeaturelessHostSelector() {
			return nil
		}
		return element.ContainingShadowHost()
	case CombinatorPart:
		return element.ContainingShadowHost()
	case CombinatorSlotAssignment:
		if ctx.CurrentHost == nil {
			return nil
		}
		// Walk the assigned-slot chain until reaching a slot whose
		// containing host is the current scope.
		for slot := element.AssignedSlot(); slot != nil; slot = slot.AssignedSlot() {
			host := slot.ContainingShadowHost()
			if host == nil {
				return nil
			}
			if host.Opaque() == *ctx.CurrentHost {
				return slot
			}
		}
		return nil
	case CombinatorPseudoElement:
		return element.PseudoElementOriginatingElement()
	default:
		panic("selectors: unknown combinator")
	}
}

// localMatchingContext carries per-compound state alongside the shared
// context.
type localMatchingContext struct {
	shared *MatchingContext
	// quirkApplies is the precomputed hover/active quirk decision for
	// the compound currently being matched.
	quirkApplies bool
}

// matchesCompoundSelector matches every simple selector of the current
// compound, left to right, short-circuiting on the first failure. The
// iterator is left at the compound's end. The inlined tag, id and
// class checks ahead of the generic dispatch are a fast path only;
// semantics are identical.
func matchesCompoundSelector(it *selectorIter, element Element, ctx *MatchingContext, flagsSetter FlagsSetter, rightmost bool) bool {
	quirkApplies := matchesHoverAndActiveQuirk(*it, ctx, rightmost)

	if ln, ok := it.peek().(LocalName); ok {
		if !matchesLocalName(element, ln) {
			return false
		}
		it.next()
	}
	if id, ok := it.peek().(ID); ok {
		if !element.HasID(id.Name, ctx.ClassesAndIDsCaseSensitivity()) {
			return false
		}
		it.next()
	}
	for {
		class, ok := it.peek().(Class)
		if !ok {
			break
		}
		if !element.HasClass(class.Name, ctx.ClassesAndIDsCaseSensitivity()) {
			return false
		}
		it.next()
	}

	local := localMatchingContext{shared: ctx, quirkApplies: quirkApplies}
	for c := it.next(); c != nil; c = it.next() {
		if !matchesSimpleSelector(c, element, &local, flagsSetter) {
			return false
		}
	}
	return true
}

// matchesHoverAndActiveQuirk decides whether the legacy quirks-mode
// rule applies to the compound the iterator is positioned at: in
// quirks mode, outside nested contexts, a compound made up only of
// "always fine" simple selectors plus :hover/:active must not match
// non-link elements through those two pseudo-classes.
func matchesHoverAndActiveQuirk(it selectorIter, ctx *MatchingContext, rightmost bool) bool {
	if ctx.QuirksMode() != Quirks || ctx.IsNested() {
		return false
	}
	// The compound a pseudo-element hangs off is exempt.
	if ctx.MatchingMode == MatchingModeForStatelessPseudoElement && rightmost {
		return false
	}
	for c := it.next(); c != nil; c = it.next() {
		switch s := c.(type) {
		case LocalName, ID, Class, PseudoElement, Negation,
			Root, Empty, FirstChild, LastChild, OnlyChild,
			FirstOfType, LastOfType, OnlyOfType,
			NthChild, NthLastChild, NthOfType, NthLastOfType:
		case Attribute:
			if s.Operator != AttrExists {
				return false
			}
		case NonTSPseudoClass:
			if !s.IsActiveOrHover() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchesLocalName(element Element, ln LocalName) bool {
	name := ln.Name
	if element.IsHTMLElementInHTMLDocument() {
		name = ln.LowerName
	}
	return element.HasLocalName(name)
}

// matchesSimpleSelector is the per-component-kind evaluation.
func matchesSimpleSelector(component Component, element Element, local *localMatchingContext, flagsSetter FlagsSetter) bool {
	ctx := local.shared
	switch s := component.(type) {
	case Combinator:
		panic("selectors: combinator in simple-selector position")

	case LocalName:
		return matchesLocalName(element, s)
	case ExplicitUniversalType, ExplicitAnyNamespace:
		return true
	case ExplicitNoNamespace:
		return element.HasNamespace("")
	case DefaultNamespace:
		return element.HasNamespace(s.URL)
	case Namespace:
		return element.HasNamespace(s.URL)

	case ID:
		return element.HasID(s.Name, ctx.ClassesAndIDsCaseSensitivity())
	case Class:
		return element.HasClass(s.Name, ctx.ClassesAndIDsCaseSensitivity())

	case Attribute:
		if s.NeverMatches {
			return false
		}
		name := s.LocalName
		if element.IsHTMLElementInHTMLDocument() {
			name = s.lowerName()
		}
		ns := NamespaceConstraint{}
		if s.Namespace != nil {
			ns = *s.Namespace
		}
		return element.AttrMatches(ns, name, AttrSelectorOperation{
			Operator:        s.Operator,
			Value:           s.Value,
			CaseSensitivity: s.CaseSensitivity.ToCaseSensitivity(element.IsHTMLElementInHTMLDocument()),
		})

	case NonTSPseudoClass:
		if local.quirkApplies && !element.IsLink() && s.IsActiveOrHover() {
			return false
		}
		return element.MatchNonTSPseudoClass(s, ctx)

	case PseudoElement:
		return element.MatchPseudoElement(s, ctx)

	case FirstChild:
		return matchesFirstChild(element, flagsSetter)
	case LastChild:
		return matchesLastChild(element, flagsSetter)
	case OnlyChild:
		return matchesFirstChild(element, flagsSetter) &&
			matchesLastChild(element, flagsSetter)

	case Root:
		return element.IsRoot()
	case Empty:
		flagsSetter(element, HasEmptySelector)
		return element.IsEmpty()
	case Scope:
		if ctx.ScopeElement != nil {
			return element.Opaque() == *ctx.ScopeElement
		}
		return element.IsRoot()

	case NthChild:
		return matchesGenericNthChild(element, ctx, s.A, s.B, false, false, flagsSetter)
	case NthLastChild:
		return matchesGenericNthChild(element, ctx, s.A, s.B, false, true, flagsSetter)
	case NthOfType:
		return matchesGenericNthChild(element, ctx, s.A, s.B, true, false, flagsSetter)
	case NthLastOfType:
		return matchesGenericNthChild(element, ctx, s.A, s.B, true, true, flagsSetter)
	case FirstOfType:
		return matchesGenericNthChild(element, ctx, 0, 1, true, false, flagsSetter)
	case LastOfType:
		return matchesGenericNthChild(element, ctx, 0, 1, true, true, flagsSetter)
	case OnlyOfType:
		return matchesGenericNthChild(element, ctx, 0, 1, true, false, flagsSetter) &&
			matchesGenericNthChild(element, ctx, 0, 1, true, true, flagsSetter)

	case Negation:
		return ctx.NestForNegation(func() bool {
			inner := localMatchingContext{shared: ctx}
			for _, simple := range s.Simples {
				if !matchesSimpleSelector(simple, element, &inner, flagsSetter) {
					return true
				}
			}
			return false
		})
	case Is:
		return matchesAnySelectorInList(s.List, element, ctx, flagsSetter)
	case Where:
		return matchesAnySelectorInList(s.List, element, ctx, flagsSetter)

	case Host:
		if ctx.CurrentHost == nil || *ctx.CurrentHost != element.Opaque() {
			return false
		}
		if s.Selector == nil {
			return true
		}
		return ctx.Nest(func() bool {
			return matchesComplexSelector(s.Selector.iter(), element, ctx, flagsSetter)
		})

	case Slotted:
		// <slot> elements are never themselves slottables, and
		// unassigned light-tree elements are not slotted anywhere.
		if element.IsHTMLSlotElement() || element.AssignedSlot() == nil {
			return false
		}
		return ctx.Nest(func() bool {
			return matchesComplexSelector(s.Selector.iter(), element, ctx, flagsSetter)
		})

	case Part:
		return matchesPart(s, element, ctx)

	default:
		panic("selectors: unknown selector component")
	}
}

// matchesPart walks outward through shadow-host boundaries until
// reaching the context's current scope, translating part names
// level by level through each host's exported-part mapping.
func matchesPart(part Part, element Element, ctx *MatchingContext) bool {
	host := element.ContainingShadowHost()
	if host == nil {
		return false
	}
	var hosts []Element
	if !sameOpaque(host, ctx.CurrentHost) {
		for {
			outer := host.ContainingShadowHost()
			if sameOpaque(outer, ctx.CurrentHost) {
				break
			}
			if outer == nil {
				return false
			}
			hosts = append(hosts, host)
			host = outer
		}
	}
	for _, name := range part.Names {
		translated := name
		for i := len(hosts) - 1; i >= 0; i-- {
			var ok bool
			translated, ok = hosts[i].ImportedPart(translated)
			if !ok {
				return false
			}
		}
		if !element.IsPart(translated) {
			return false
		}
	}
	return true
}

func sameOpaque(e Element, o *OpaqueElement) bool {
	if e == nil {
		return o == nil
	}
	return o != nil && e.Opaque() == *o
}

func matchesAnySelectorInList(list SelectorList, element Element, ctx *MatchingContext, flagsSetter FlagsSetter) bool {
	return ctx.Nest(func() bool {
		for _, s := range list {
			if matchesComplexSelector(s.iter(), element, ctx, flagsSetter) {
				return true
			}
		}
		return false
	})
}

func matchesFirstChild(element Element, flagsSetter FlagsSetter) bool {
	flagsSetter(element, HasEdgeChildSelector)
	return element.PrevSiblingElement() == nil
}

func matchesLastChild(element Element, flagsSetter FlagsSetter) bool {
	flagsSetter(element, HasEdgeChildSelector)
	return element.NextSiblingElement() == nil
}

// matchesGenericNthChild implements the whole :nth-* family: compute
// the element's 1-based index along the relevant axis (with caching)
// and test whether a non-negative n satisfies a*n + b == index. The
// structural flag is recorded regardless of the outcome, since sibling
// insertion or removal can change the index either way.
func matchesGenericNthChild(element Element, ctx *MatchingContext, a, b int32, isOfType, isFromEnd bool, flagsSetter FlagsSetter) bool {
	if element.IgnoresNthChildSelectors() {
		return false
	}
	if isFromEnd {
		flagsSetter(element, HasSlowSelector)
	} else {
		flagsSetter(element, HasSlowSelectorLaterSiblings)
	}

	index := nthChildIndex(element, isOfType, isFromEnd, ctx.nthIndexCacheFor(isOfType, isFromEnd))

	an := index - b
	if a == 0 {
		return an == 0
	}
	n := an / a
	return n >= 0 && a*n == an
}

// nthChildIndex returns the element's 1-based index among its
// qualifying siblings, counting from the start or the end of the
// sibling list.
func nthChildIndex(element Element, isOfType, isFromEnd bool, cache *nthIndexCacheInner) int32 {
	if cache != nil {
		if i, ok := cache.lookup(element.Opaque()); ok {
			return i
		}
	}

	next := func(e Element) Element {
		if isFromEnd {
			return e.NextSiblingElement()
		}
		return e.PrevSiblingElement()
	}

	index := int32(1)
	for curr := next(element); curr != nil; curr = next(curr) {
		if isOfType && !element.IsSameType(curr) {
			continue
		}
		// Sequential tree walks usually compute sibling indices left
		// to right, so a preceding qualifying sibling is often cached
		// already; from-end indices get no such help.
		if !isFromEnd && cache != nil {
			if i, ok := cache.lookup(curr.Opaque()); ok {
				index += i
				break
			}
		}
		index++
	}
	if cache != nil {
		cache.insert(element.Opaque(), index)
	}
	return index
}
