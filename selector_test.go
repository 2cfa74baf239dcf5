package selectors

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return doc
}

func nodeString(n *html.Node) string {
	tok := html.Token{Type: html.StartTagToken, Data: n.Data, Attr: n.Attr}
	return tok.String()
}

// matchAll runs the selector against every element of the document and
// returns the start tags of the matching ones, in document order.
func matchAll(t *testing.T, src string, sel *Selector, quirks QuirksMode) []string {
	t.Helper()
	doc := parseDoc(t, src)
	ctx := NewMatchingContext(MatchingModeNormal, nil, &NthIndexCache{}, quirks)
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if MatchesSelector(sel, 0, nil, NewHTMLElement(n), ctx, nil) {
				out = append(out, nodeString(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attrSel(name string, op AttrSelectorOperator, value string) Attribute {
	return Attribute{
		LocalName:      name,
		LocalNameLower: asciiLower(name),
		Operator:       op,
		Value:          value,
	}
}

type selectorTest struct {
	name string
	html string
	sel  *Selector
	want []string
}

var selectorTests = []selectorTest{
	{
		name: "tag",
		html: `<body><address>This address...</address></body>`,
		sel:  mustSel(tag("address")),
		want: []string{"<address>"},
	},
	{
		name: "id",
		html: `<p id="foo"><p id="bar">`,
		sel:  mustSel(ID{Name: "foo"}),
		want: []string{`<p id="foo">`},
	},
	{
		name: "tag and id",
		html: `<ul><li id="t1"><p id="t1"><li id="t2">`,
		sel:  mustSel(tag("li"), ID{Name: "t1"}),
		want: []string{`<li id="t1">`},
	},
	{
		name: "class",
		html: `<p class="t1 t2">`,
		sel:  mustSel(Class{Name: "t1"}),
		want: []string{`<p class="t1 t2">`},
	},
	{
		name: "two classes",
		html: `<p class="t1 t2"><div class="t1">`,
		sel:  mustSel(tag("p"), Class{Name: "t1"}, Class{Name: "t2"}),
		want: []string{`<p class="t1 t2">`},
	},
	{
		name: "class is case sensitive outside quirks mode",
		html: `<p class="test">`,
		sel:  mustSel(Class{Name: "teST"}),
		want: nil,
	},
	{
		name: "attribute presence",
		html: `<p title="title"><p>`,
		sel:  mustSel(attrSel("title", AttrExists, "")),
		want: []string{`<p title="title">`},
	},
	{
		name: "attribute value",
		html: `<p title="tot"><p title="other">`,
		sel:  mustSel(attrSel("title", AttrEqual, "tot")),
		want: []string{`<p title="tot">`},
	},
	{
		name: "attribute includes",
		html: `<p title="one two"><p title="onetwo">`,
		sel:  mustSel(attrSel("title", AttrIncludes, "two")),
		want: []string{`<p title="one two">`},
	},
	{
		name: "attribute dash match",
		html: `<p lang="en-us"><p lang="en"><p lang="fr"><p lang="enus">`,
		sel:  mustSel(attrSel("lang", AttrDashMatch, "en")),
		want: []string{`<p lang="en-us">`, `<p lang="en">`},
	},
	{
		name: "attribute prefix",
		html: `<p title="foobar"><p title="barfoo">`,
		sel:  mustSel(attrSel("title", AttrPrefix, "foo")),
		want: []string{`<p title="foobar">`},
	},
	{
		name: "attribute suffix",
		html: `<p title="foobar"><p title="barfoo">`,
		sel:  mustSel(attrSel("title", AttrSuffix, "foo")),
		want: []string{`<p title="barfoo">`},
	},
	{
		name: "attribute substring",
		html: `<p title="xfoox"><p title="bar">`,
		sel:  mustSel(attrSel("title", AttrSubstring, "foo")),
		want: []string{`<p title="xfoox">`},
	},
	{
		name: "empty attribute value never prefix-matches",
		html: `<p title="anything">`,
		sel:  mustSel(attrSel("title", AttrPrefix, "")),
		want: nil,
	},
	{
		name: "descendant combinator skips levels",
		html: `<div class="grandparent"><div class="parent"><div class="child"></div></div></div>`,
		sel:  mustSel(Class{Name: "grandparent"}, CombinatorDescendant, Class{Name: "child"}),
		want: []string{`<div class="child">`},
	},
	{
		name: "child combinator does not skip levels",
		html: `<div class="grandparent"><div class="parent"><div class="child"></div></div></div>`,
		sel:  mustSel(Class{Name: "grandparent"}, CombinatorChild, Class{Name: "child"}),
		want: nil,
	},
	{
		name: "child combinator direct",
		html: `<div class="grandparent"><div class="parent"><div class="child"></div></div></div>`,
		sel:  mustSel(Class{Name: "parent"}, CombinatorChild, Class{Name: "child"}),
		want: []string{`<div class="child">`},
	},
	{
		name: "next sibling",
		html: `<p id="1"></p><address></address>`,
		sel:  mustSel(tag("p"), CombinatorNextSibling, tag("address")),
		want: []string{"<address>"},
	},
	{
		name: "next sibling requires adjacency",
		html: `<div><span class="a"></span><span class="x"></span><span class="c"></span></div>`,
		sel:  mustSel(Class{Name: "a"}, CombinatorNextSibling, Class{Name: "c"}),
		want: nil,
	},
	{
		name: "later sibling",
		html: `<div><span class="a"></span><span class="x"></span><span class="c"></span></div>`,
		sel:  mustSel(Class{Name: "a"}, CombinatorLaterSibling, Class{Name: "c"}),
		want: []string{`<span class="c">`},
	},
	{
		// The first .b candidate found walking leftwards from .c is not
		// preceded by .a; the match must back up and try the earlier .b.
		name: "later sibling backtracks over failed candidates",
		html: `<div><i class="a"></i><i class="b" id="good"></i><i class="x"></i><i class="b" id="bad"></i><i class="c"></i></div>`,
		sel: mustSel(Class{Name: "a"}, CombinatorNextSibling, Class{Name: "b"},
			CombinatorLaterSibling, Class{Name: "c"}),
		want: []string{`<i class="c">`},
	},
	{
		name: "first child",
		html: `<ul><li id="1"></li><li id="2"></li></ul>`,
		sel:  mustSel(tag("ul"), CombinatorChild, tag("li"), FirstChild{}),
		want: []string{`<li id="1">`},
	},
	{
		name: "last child",
		html: `<ul><li id="1"></li><li id="2"></li></ul>`,
		sel:  mustSel(tag("li"), LastChild{}),
		want: []string{`<li id="2">`},
	},
	{
		name: "only child",
		html: `<div><p id="lonely"></p></div><div><p id="a"></p><p id="b"></p></div>`,
		sel:  mustSel(tag("p"), OnlyChild{}),
		want: []string{`<p id="lonely">`},
	},
	{
		name: "nth-of-type over mixed classes",
		html: `<section><div class="foo" id="1"></div><div class="bar" id="2"></div>` +
			`<div class="foo" id="3"></div><div class="bar" id="4"></div><div class="foo" id="5"></div></section>`,
		sel: mustSel(tag("div"), Class{Name: "foo"}, NthOfType{A: 2, B: 1}),
		want: []string{
			`<div class="foo" id="1">`,
			`<div class="foo" id="3">`,
			`<div class="foo" id="5">`,
		},
	},
	{
		name: "first-of-type ignores other tags",
		html: `<div><span></span><p id="x"></p><p id="y"></p></div>`,
		sel:  mustSel(tag("p"), FirstOfType{}),
		want: []string{`<p id="x">`},
	},
	{
		name: "nth-last-child",
		html: `<ul><li id="1"></li><li id="2"></li><li id="3"></li></ul>`,
		sel:  mustSel(tag("li"), NthLastChild{A: 0, B: 2}),
		want: []string{`<li id="2">`},
	},
	{
		name: "empty",
		html: `<div id="e"></div><div id="f">text</div><div id="g"><!-- quiet --></div>`,
		sel:  mustSel(tag("div"), Empty{}),
		want: []string{`<div id="e">`, `<div id="g">`},
	},
	{
		name: "root",
		html: `<p>`,
		sel:  mustSel(Root{}),
		want: []string{"<html>"},
	},
	{
		name: "negation",
		html: `<p class="t1"></p><p class="t2"></p>`,
		sel:  mustSel(tag("p"), Negation{Simples: []Component{Class{Name: "t1"}}}),
		want: []string{`<p class="t2">`},
	},
	{
		name: "negation of several simples requires all to match",
		html: `<p class="t1 t2"></p><p class="t1"></p>`,
		sel: mustSel(tag("p"), Negation{Simples: []Component{
			Class{Name: "t1"}, Class{Name: "t2"},
		}}),
		want: []string{`<p class="t1">`},
	},
	{
		name: "is list",
		html: `<p class="a"></p><p class="b"></p><p class="c"></p>`,
		sel: mustSel(tag("p"), Is{List: SelectorList{
			mustSel(Class{Name: "a"}),
			mustSel(Class{Name: "b"}),
		}}),
		want: []string{`<p class="a">`, `<p class="b">`},
	},
	{
		name: "where with complex argument",
		html: `<div class="outer"><p id="in"></p></div><p id="out"></p>`,
		sel: mustSel(tag("p"), Where{List: SelectorList{
			mustSel(Class{Name: "outer"}, CombinatorChild, ExplicitUniversalType{}),
		}}),
		want: []string{`<p id="in">`},
	},
	{
		name: "universal",
		html: `<p id="only">`,
		sel:  mustSel(ExplicitUniversalType{}, ID{Name: "only"}),
		want: []string{`<p id="only">`},
	},
	{
		name: "link pseudo-class",
		html: `<a href="/x" id="l"></a><a id="anchor"></a>`,
		sel:  mustSel(tag("a"), NonTSPseudoClass{Name: "link"}),
		want: []string{`<a href="/x" id="l">`},
	},
	{
		name: "visited never matches by default",
		html: `<a href="/x"></a>`,
		sel:  mustSel(tag("a"), NonTSPseudoClass{Name: "visited"}),
		want: nil,
	},
	{
		name: "disabled form control",
		html: `<input disabled="" id="d"><input id="e"><div disabled=""></div>`,
		sel:  mustSel(NonTSPseudoClass{Name: "disabled"}),
		want: []string{`<input disabled="" id="d">`},
	},
}

func TestSelectors(t *testing.T) {
	for _, tt := range selectorTests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchAll(t, tt.html, tt.sel, NoQuirks)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s matched wrong elements (-want +got):\n%s", tt.sel, diff)
			}
		})
	}
}

func TestQuirksModeClassAndIDCase(t *testing.T) {
	src := `<p class="test" id="Main">`
	byClass := mustSel(Class{Name: "teST"})
	byID := mustSel(ID{Name: "mAIN"})

	if got := matchAll(t, src, byClass, Quirks); len(got) != 1 {
		t.Errorf("quirks-mode class match = %v, want one element", got)
	}
	if got := matchAll(t, src, byID, Quirks); len(got) != 1 {
		t.Errorf("quirks-mode id match = %v, want one element", got)
	}
	if got := matchAll(t, src, byID, NoQuirks); len(got) != 0 {
		t.Errorf("no-quirks id match = %v, want none", got)
	}
}

// TestNthChildAgainstBruteForce cross-checks the An+B arithmetic,
// including negative steps, against a direct evaluation of a*n+b.
func TestNthChildAgainstBruteForce(t *testing.T) {
	const count = 12
	var b strings.Builder
	b.WriteString("<ul>")
	for i := 0; i < count; i++ {
		b.WriteString("<li></li>")
	}
	b.WriteString("</ul>")
	src := b.String()

	cases := []struct{ a, b int32 }{
		{2, 1}, {2, 0}, {3, 2}, {0, 3}, {0, 0}, {-2, 6}, {-1, 4}, {1, 0}, {4, -2},
	}
	for _, c := range cases {
		sel := mustSel(tag("li"), NthChild{A: c.a, B: c.b})
		got := len(matchAll(t, src, sel, NoQuirks))

		want := 0
		for index := int32(1); index <= count; index++ {
			for n := int32(0); n <= count; n++ {
				if c.a*n+c.b == index {
					want++
					break
				}
			}
		}
		if got != want {
			t.Errorf("%s: matched %d elements, want %d", sel, got, want)
		}
	}
}

func TestSelectorFlags(t *testing.T) {
	doc := parseDoc(t, `<ul><li id="1"></li><li id="2"></li></ul>`)
	sel := mustSel(tag("ul"), CombinatorChild, tag("li"), FirstChild{})

	flags := map[string]ElementSelectorFlags{}
	setter := func(e Element, f ElementSelectorFlags) {
		he := e.(HTMLElement)
		id, _ := he.attr("id")
		flags[he.Node.Data+id] |= f
	}

	ctx := normalContext()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			MatchesSelector(sel, 0, nil, NewHTMLElement(n), ctx, setter)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// :first-child is evaluated against both list items, so both carry
	// the edge-child dependency, including the one that failed to match.
	want := map[string]ElementSelectorFlags{
		"li1": HasEdgeChildSelector,
		"li2": HasEdgeChildSelector,
	}
	if diff := cmp.Diff(want, flags); diff != "" {
		t.Errorf("recorded flags (-want +got):\n%s", diff)
	}

	flags = map[string]ElementSelectorFlags{}
	sibling := mustSel(Class{Name: "a"}, CombinatorLaterSibling, tag("li"))
	walkSel := func(s *Selector) {
		var w func(*html.Node)
		w = func(n *html.Node) {
			if n.Type == html.ElementNode {
				MatchesSelector(s, 0, nil, NewHTMLElement(n), ctx, setter)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w(c)
			}
		}
		w(doc)
	}
	walkSel(sibling)

	// The later-siblings dependency is recorded for every element the
	// selector was evaluated against, whether or not its rightmost
	// compound matched: a sibling insertion could change the outcome
	// either way.
	want = map[string]ElementSelectorFlags{
		"html": HasSlowSelectorLaterSiblings,
		"head": HasSlowSelectorLaterSiblings,
		"body": HasSlowSelectorLaterSiblings,
		"ul":   HasSlowSelectorLaterSiblings,
		"li1":  HasSlowSelectorLaterSiblings,
		"li2":  HasSlowSelectorLaterSiblings,
	}
	if diff := cmp.Diff(want, flags); diff != "" {
		t.Errorf("sibling-combinator flags (-want +got):\n%s", diff)
	}
}

func TestEmptySelectorFlag(t *testing.T) {
	doc := parseDoc(t, `<div id="e"></div>`)
	sel := mustSel(tag("div"), Empty{})

	var sawEmptyFlag bool
	setter := func(e Element, f ElementSelectorFlags) {
		if f&HasEmptySelector != 0 {
			sawEmptyFlag = true
		}
	}
	ctx := normalContext()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			if !MatchesSelector(sel, 0, nil, NewHTMLElement(n), ctx, setter) {
				t.Error("div:empty should match an empty div")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if !sawEmptyFlag {
		t.Error("matching :empty recorded no HasEmptySelector flag")
	}
}

func TestMatchesSelectorList(t *testing.T) {
	doc := parseDoc(t, `<p class="a"></p>`)
	list := SelectorList{
		mustSel(Class{Name: "nope"}),
		mustSel(Class{Name: "a"}),
	}
	var target *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			target = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !MatchesSelectorList(list, NewHTMLElement(target), normalContext()) {
		t.Error("list should match via its second selector")
	}
	if MatchesSelectorList(SelectorList{mustSel(Class{Name: "nope"})}, NewHTMLElement(target), normalContext()) {
		t.Error("list with no matching selector should not match")
	}
}
