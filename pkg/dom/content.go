package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TextContent concatenates every text node below node.
func TextContent(node *html.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == html.TextNode {
		return node.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(node)
	return sb.String()
}

// SetTextContent replaces the children of node with a single text node.
func SetTextContent(node *html.Node, text string) {
	if node.Type == html.TextNode {
		node.Data = text
		return
	}
	RemoveChildren(node)
	if text == "" {
		return
	}
	node.AppendChild(NewText(text))
}

// SetInnerHTML replaces the children of node with markup parsed in the
// context of node. The markup is trusted.
func SetInnerHTML(node *html.Node, markup string) error {
	nodes, err := ParseFragment(markup, node)
	if err != nil {
		return err
	}
	RemoveChildren(node)
	for _, child := range nodes {
		node.AppendChild(child)
	}
	return nil
}

// SetValue applies form-control value semantics: <textarea> receives text,
// <select> selects the matching option, everything else gets a value
// attribute.
func SetValue(node *html.Node, value string) {
	switch {
	case IsElement(node, "textarea"):
		SetTextContent(node, value)
	case IsElement(node, "select"):
		selectOption(node, value)
	default:
		SetAttr(node, "value", value)
	}
}

// Value mirrors SetValue for reading.
func Value(node *html.Node) string {
	switch {
	case IsElement(node, "textarea"):
		return TextContent(node)
	case IsElement(node, "select"):
		for _, option := range FindByTag(node, "option") {
			if HasAttr(option, "selected") {
				return optionValue(option)
			}
		}
		return ""
	default:
		value, _ := Attr(node, "value")
		return value
	}
}

func selectOption(sel *html.Node, value string) {
	for _, option := range FindByTag(sel, "option") {
		if optionValue(option) == value {
			SetAttr(option, "selected", "")
			continue
		}
		RemoveAttr(option, "selected")
	}
}

func optionValue(option *html.Node) string {
	if value, ok := Attr(option, "value"); ok {
		return value
	}
	return strings.TrimSpace(TextContent(option))
}
