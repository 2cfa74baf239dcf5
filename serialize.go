package selectors

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector -> string, via parse-order navigation.

func (s *Selector) String() string {
	var b strings.Builder
	for _, c := range s.parseOrder {
		b.WriteString(c.String())
	}
	return b.String()
}

func (l SelectorList) String() string {
	chunks := make([]string, len(l))
	for i, s := range l {
		chunks[i] = s.String()
	}
	return strings.Join(chunks, ", ")
}

func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return " > "
	case CombinatorNextSibling:
		return " + "
	case CombinatorLaterSibling:
		return " ~ "
	case CombinatorPseudoElement, CombinatorSlotAssignment, CombinatorPart:
		// Implicit combinators; the component to their right
		// serializes the whole construct.
		return ""
	default:
		return ""
	}
}

func (c LocalName) String() string {
	return c.Name
}

func (c ExplicitUniversalType) String() string {
	return "*"
}

func (c ExplicitAnyNamespace) String() string {
	return "*|"
}

func (c ExplicitNoNamespace) String() string {
	return "|"
}

func (c DefaultNamespace) String() string {
	return ""
}

func (c Namespace) String() string {
	return c.Prefix + "|"
}

func (c ID) String() string {
	return "#" + c.Name
}

func (c Class) String() string {
	return "." + c.Name
}

func (op AttrSelectorOperator) String() string {
	switch op {
	case AttrExists:
		return ""
	case AttrEqual:
		return "="
	case AttrIncludes:
		return "~="
	case AttrDashMatch:
		return "|="
	case AttrPrefix:
		return "^="
	case AttrSuffix:
		return "$="
	case AttrSubstring:
		return "*="
	default:
		return ""
	}
}

func (c Attribute) String() string {
	name := c.LocalName
	if c.Namespace != nil {
		if c.Namespace.Any {
			name = "*|" + name
		} else if c.Namespace.URL != "" {
			name = c.Namespace.URL + "|" + name
		}
	}
	if c.Operator == AttrExists {
		return "[" + name + "]"
	}
	suffix := ""
	if c.CaseSensitivity == ParsedASCIICaseInsensitive {
		suffix = " i"
	}
	return fmt.Sprintf("[%s%s%q%s]", name, c.Operator, c.Value, suffix)
}

func (c Root) String() string        { return ":root" }
func (c Empty) String() string       { return ":empty" }
func (c Scope) String() string       { return ":scope" }
func (c FirstChild) String() string  { return ":first-child" }
func (c LastChild) String() string   { return ":last-child" }
func (c OnlyChild) String() string   { return ":only-child" }
func (c FirstOfType) String() string { return ":first-of-type" }
func (c LastOfType) String() string  { return ":last-of-type" }
func (c OnlyOfType) String() string  { return ":only-of-type" }

// formatNth serializes an An+B expression.
func formatNth(a, b int32) string {
	switch {
	case a == 0:
		return strconv.FormatInt(int64(b), 10)
	case b == 0:
		return fmt.Sprintf("%dn", a)
	case b < 0:
		return fmt.Sprintf("%dn%d", a, b)
	default:
		return fmt.Sprintf("%dn+%d", a, b)
	}
}

func (c NthChild) String() string {
	return ":nth-child(" + formatNth(c.A, c.B) + ")"
}

func (c NthLastChild) String() string {
	return ":nth-last-child(" + formatNth(c.A, c.B) + ")"
}

func (c NthOfType) String() string {
	return ":nth-of-type(" + formatNth(c.A, c.B) + ")"
}

func (c NthLastOfType) String() string {
	return ":nth-last-of-type(" + formatNth(c.A, c.B) + ")"
}

func (c NonTSPseudoClass) String() string {
	return ":" + c.Name
}

func (c PseudoElement) String() string {
	return "::" + c.Name
}

func (c Negation) String() string {
	chunks := make([]string, len(c.Simples))
	for i, s := range c.Simples {
		chunks[i] = s.String()
	}
	return ":not(" + strings.Join(chunks, "") + ")"
}

func (c Is) String() string {
	return ":is(" + c.List.String() + ")"
}

func (c Where) String() string {
	return ":where(" + c.List.String() + ")"
}

func (c Host) String() string {
	if c.Selector == nil {
		return ":host"
	}
	return ":host(" + c.Selector.String() + ")"
}

func (c Slotted) String() string {
	return "::slotted(" + c.Selector.String() + ")"
}

func (c Part) String() string {
	return "::part(" + strings.Join(c.Names, " ") + ")"
}
