package selectors

// A hand-built element tree for the tests that need capabilities a
// parsed HTML document cannot provide: shadow hosts, slot assignment,
// part mappings, link/visited state and interactivity pseudo-classes.

type testElement struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string
	states  map[string]bool
	isLink  bool

	parent *testElement
	prev   *testElement
	next   *testElement

	children []*testElement

	parentIsShadowRoot bool
	shadowHost         *testElement
	assignedSlot       *testElement
	parts              []string
	importedParts      map[string]string

	ignoresNth bool
}

func elem(tag string, mods ...func(*testElement)) *testElement {
	e := &testElement{tag: tag}
	for _, mod := range mods {
		mod(e)
	}
	return e
}

func withClasses(classes ...string) func(*testElement) {
	return func(e *testElement) { e.classes = classes }
}

func withAttr(name, value string) func(*testElement) {
	return func(e *testElement) {
		if e.attrs == nil {
			e.attrs = map[string]string{}
		}
		e.attrs[name] = value
	}
}

func withState(name string) func(*testElement) {
	return func(e *testElement) {
		if e.states == nil {
			e.states = map[string]bool{}
		}
		e.states[name] = true
	}
}

func asLink() func(*testElement) {
	return func(e *testElement) { e.isLink = true }
}

func withParts(names ...string) func(*testElement) {
	return func(e *testElement) { e.parts = names }
}

func appendChild(parent, child *testElement) *testElement {
	child.parent = parent
	if n := len(parent.children); n > 0 {
		last := parent.children[n-1]
		last.next = child
		child.prev = last
	}
	parent.children = append(parent.children, child)
	return child
}

// attachShadowChild places child at the top of host's shadow tree.
func attachShadowChild(host, child *testElement) *testElement {
	child.parentIsShadowRoot = true
	child.shadowHost = host
	return child
}

func (e *testElement) Opaque() OpaqueElement {
	return NewOpaqueElement(e)
}

func (e *testElement) ParentElement() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *testElement) ParentNodeIsShadowRoot() bool {
	return e.parentIsShadowRoot
}

func (e *testElement) ContainingShadowHost() Element {
	if e.shadowHost == nil {
		return nil
	}
	return e.shadowHost
}

func (e *testElement) PseudoElementOriginatingElement() Element {
	return e.ParentElement()
}

func (e *testElement) PrevSiblingElement() Element {
	if e.prev == nil {
		return nil
	}
	return e.prev
}

func (e *testElement) NextSiblingElement() Element {
	if e.next == nil {
		return nil
	}
	return e.next
}

func (e *testElement) IsHTMLElementInHTMLDocument() bool { return true }

func (e *testElement) HasLocalName(name string) bool {
	return e.tag == name
}

func (e *testElement) HasNamespace(url string) bool {
	return url == HTMLNamespace
}

func (e *testElement) IsSameType(other Element) bool {
	o, ok := other.(*testElement)
	return ok && o.tag == e.tag
}

func (e *testElement) HasID(id string, cs CaseSensitivity) bool {
	return e.id != "" && cs.Eq(e.id, id)
}

func (e *testElement) HasClass(class string, cs CaseSensitivity) bool {
	for _, c := range e.classes {
		if cs.Eq(c, class) {
			return true
		}
	}
	return false
}

func (e *testElement) AttrMatches(ns NamespaceConstraint, localName string, op AttrSelectorOperation) bool {
	if !ns.Any && ns.URL != "" {
		return false
	}
	v, ok := e.attrs[localName]
	return ok && op.Eval(v)
}

func (e *testElement) MatchNonTSPseudoClass(pc NonTSPseudoClass, ctx *MatchingContext) bool {
	switch pc.Name {
	case "link":
		return e.isLink && ctx.VisitedHandling.MatchesUnvisited()
	case "visited":
		return e.isLink && ctx.VisitedHandling.MatchesVisited()
	case "any-link":
		return e.isLink
	default:
		return e.states[pc.Name]
	}
}

func (e *testElement) MatchPseudoElement(PseudoElement, *MatchingContext) bool {
	return false
}

func (e *testElement) IsLink() bool { return e.isLink }

func (e *testElement) IsHTMLSlotElement() bool { return e.tag == "slot" }

func (e *testElement) AssignedSlot() Element {
	if e.assignedSlot == nil {
		return nil
	}
	return e.assignedSlot
}

func (e *testElement) IsPart(name string) bool {
	for _, p := range e.parts {
		if p == name {
			return true
		}
	}
	return false
}

func (e *testElement) ImportedPart(name string) (string, bool) {
	inner, ok := e.importedParts[name]
	return inner, ok
}

func (e *testElement) IsRoot() bool {
	return e.parent == nil && !e.parentIsShadowRoot
}

func (e *testElement) IsEmpty() bool {
	return len(e.children) == 0
}

func (e *testElement) IgnoresNthChildSelectors() bool { return e.ignoresNth }

// mustSel builds a selector from parse-order parts: Components and
// Combinators in the order they would be written.
func mustSel(parts ...any) *Selector {
	var b Builder
	for _, p := range parts {
		switch v := p.(type) {
		case Combinator:
			b.PushCombinator(v)
		case Component:
			b.PushSimple(v)
		default:
			panic("mustSel: not a component")
		}
	}
	return b.MustBuild()
}

func tag(name string) LocalName {
	return NewLocalName(name)
}

func normalContext() *MatchingContext {
	return NewMatchingContext(MatchingModeNormal, nil, nil, NoQuirks)
}
