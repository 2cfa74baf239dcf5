package selectors

import (
	"golang.org/x/net/html"
)

// Namespace URLs used by the HTML binding.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// HTMLElement adapts a golang.org/x/net/html node to the Element
// interface. It covers the light DOM only: the html package has no
// shadow trees, so the shadow navigation hooks report nothing.
type HTMLElement struct {
	Node *html.Node
}

// NewHTMLElement wraps an element node. It panics on non-element
// nodes; selector matching is defined over elements only.
func NewHTMLElement(n *html.Node) HTMLElement {
	if n.Type != html.ElementNode {
		panic("selectors: NewHTMLElement on a non-element node")
	}
	return HTMLElement{Node: n}
}

func (e HTMLElement) Opaque() OpaqueElement {
	return NewOpaqueElement(e.Node)
}

func (e HTMLElement) ParentElement() Element {
	for p := e.Node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return HTMLElement{Node: p}
		}
	}
	return nil
}

func (e HTMLElement) ParentNodeIsShadowRoot() bool { return false }
func (e HTMLElement) ContainingShadowHost() Element {
	return nil
}

func (e HTMLElement) PseudoElementOriginatingElement() Element {
	return e.ParentElement()
}

func (e HTMLElement) PrevSiblingElement() Element {
	for s := e.Node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return HTMLElement{Node: s}
		}
	}
	return nil
}

func (e HTMLElement) NextSiblingElement() Element {
	for s := e.Node.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return HTMLElement{Node: s}
		}
	}
	return nil
}

func (e HTMLElement) IsHTMLElementInHTMLDocument() bool {
	return e.Node.Namespace == ""
}

func (e HTMLElement) HasLocalName(name string) bool {
	return e.Node.Data == name
}

func (e HTMLElement) namespaceURL() string {
	switch e.Node.Namespace {
	case "":
		return HTMLNamespace
	case "svg":
		return SVGNamespace
	case "math":
		return MathMLNamespace
	default:
		return e.Node.Namespace
	}
}

func (e HTMLElement) HasNamespace(url string) bool {
	return e.namespaceURL() == url
}

func (e HTMLElement) IsSameType(other Element) bool {
	o, ok := other.(HTMLElement)
	return ok && o.Node.Data == e.Node.Data && o.Node.Namespace == e.Node.Namespace
}

func (e HTMLElement) attr(name string) (string, bool) {
	for _, a := range e.Node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e HTMLElement) HasID(id string, cs CaseSensitivity) bool {
	v, ok := e.attr("id")
	return ok && cs.Eq(v, id)
}

func (e HTMLElement) HasClass(class string, cs CaseSensitivity) bool {
	v, ok := e.attr("class")
	return ok && matchInclude(class, v, cs)
}

func (e HTMLElement) AttrMatches(ns NamespaceConstraint, localName string, op AttrSelectorOperation) bool {
	for _, a := range e.Node.Attr {
		if a.Key != localName {
			continue
		}
		// Attributes without a prefix are in no namespace, even on
		// namespaced elements.
		if !ns.Any && a.Namespace != ns.URL {
			continue
		}
		if op.Eval(a.Val) {
			return true
		}
	}
	return false
}

// MatchNonTSPseudoClass covers the pseudo-classes observable on a
// static parsed document. Interactivity state (:hover, :active,
// :focus) never matches here.
func (e HTMLElement) MatchNonTSPseudoClass(pc NonTSPseudoClass, ctx *MatchingContext) bool {
	switch pc.Name {
	case "link", "any-link":
		if pc.Name == "link" {
			return e.IsLink() && ctx.VisitedHandling.MatchesUnvisited()
		}
		return e.IsLink()
	case "visited":
		return e.IsLink() && ctx.VisitedHandling.MatchesVisited()
	case "checked":
		_, ok := e.attr("checked")
		return ok
	case "disabled":
		_, ok := e.attr("disabled")
		return ok && isFormElement(e.Node.Data)
	case "enabled":
		_, ok := e.attr("disabled")
		return !ok && isFormElement(e.Node.Data)
	default:
		return false
	}
}

func isFormElement(tag string) bool {
	switch tag {
	case "input", "select", "textarea", "button", "option", "optgroup", "fieldset":
		return true
	}
	return false
}

// MatchPseudoElement always fails: a parsed document carries no
// pseudo-element tree.
func (e HTMLElement) MatchPseudoElement(PseudoElement, *MatchingContext) bool {
	return false
}

func (e HTMLElement) IsLink() bool {
	switch e.Node.Data {
	case "a", "area", "link":
		_, ok := e.attr("href")
		return ok
	}
	return false
}

func (e HTMLElement) IsHTMLSlotElement() bool {
	return e.Node.Data == "slot" && e.Node.Namespace == ""
}

func (e HTMLElement) AssignedSlot() Element { return nil }

func (e HTMLElement) IsPart(name string) bool {
	v, ok := e.attr("part")
	return ok && matchInclude(name, v, CaseSensitive)
}

func (e HTMLElement) ImportedPart(string) (string, bool) {
	return "", false
}

func (e HTMLElement) IsRoot() bool {
	return e.Node.Parent != nil && e.Node.Parent.Type == html.DocumentNode
}

func (e HTMLElement) IsEmpty() bool {
	for c := e.Node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.TextNode:
			return false
		}
	}
	return true
}

func (e HTMLElement) IgnoresNthChildSelectors() bool { return false }

// AddToBloomFilter pushes the element's ancestor-qualifying
// fingerprints (local name, namespace, id, classes) into a
// caller-owned filter. Callers walking the tree push on descent and
// must RemoveFromBloomFilter on ascent, mirroring pre/post-order
// traversal exactly.
func (e HTMLElement) AddToBloomFilter(f *BloomFilter) {
	for _, h := range e.bloomHashes() {
		f.InsertHash(h)
	}
}

// RemoveFromBloomFilter undoes AddToBloomFilter.
func (e HTMLElement) RemoveFromBloomFilter(f *BloomFilter) {
	for _, h := range e.bloomHashes() {
		f.RemoveHash(h)
	}
}

func (e HTMLElement) bloomHashes() []uint32 {
	hashes := []uint32{
		hashString(e.Node.Data) & BloomHashMask,
		hashString(e.namespaceURL()) & BloomHashMask,
	}
	if id, ok := e.attr("id"); ok {
		hashes = append(hashes, hashString(id)&BloomHashMask)
	}
	if classes, ok := e.attr("class"); ok {
		for _, c := range splitSpace(classes) {
			hashes = append(hashes, hashString(c)&BloomHashMask)
		}
	}
	return hashes
}

func splitSpace(s string) []string {
	var out []string
	for s != "" {
		i := indexAnySpace(s)
		if i == -1 {
			out = append(out, s)
			break
		}
		if i > 0 {
			out = append(out, s[:i])
		}
		s = s[i+1:]
	}
	return out
}
