// Package dom is the thin tree layer the binding engine mutates. It wraps
// golang.org/x/net/html nodes with the handful of operations the engine needs:
// parsing and rendering, attribute and class access, content replacement,
// structural paths, cloning and positional insertion.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a full HTML document. The returned node is the document node.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFragment parses markup as the inner content of context. A nil context
// parses as body content. The returned nodes are detached.
func ParseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// Render writes node (and its subtree) as HTML.
func Render(w io.Writer, node *html.Node) error {
	if node == nil {
		return nil
	}
	return html.Render(w, node)
}

// OuterHTML renders node including its own tag.
func OuterHTML(node *html.Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, node); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of node.
func InnerHTML(node *html.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// NewElement creates a detached element node.
func NewElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// IsElement reports whether node is an element, optionally with one of tags.
func IsElement(node *html.Node, tags ...string) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if node.Data == tag {
			return true
		}
	}
	return false
}

// DocumentElement returns the root element of a document node (normally
// <html>). Element nodes are returned as-is.
func DocumentElement(node *html.Node) *html.Node {
	if node == nil {
		return nil
	}
	if node.Type != html.DocumentNode {
		return node
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Children returns a snapshot of node's child nodes.
func Children(node *html.Node) []*html.Node {
	if node == nil {
		return nil
	}
	var out []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ElementChildren returns a snapshot of node's element children.
func ElementChildren(node *html.Node) []*html.Node {
	if node == nil {
		return nil
	}
	var out []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildCount returns the number of child nodes of node.
func ChildCount(node *html.Node) int {
	count := 0
	if node == nil {
		return count
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// FollowingCount returns the number of siblings after node.
func FollowingCount(node *html.Node) int {
	count := 0
	for s := node.NextSibling; s != nil; s = s.NextSibling {
		count++
	}
	return count
}

// Detach removes node from its parent, if any.
func Detach(node *html.Node) {
	if node == nil || node.Parent == nil {
		return
	}
	node.Parent.RemoveChild(node)
}

// RemoveChildren detaches every child of node.
func RemoveChildren(node *html.Node) {
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		node.RemoveChild(c)
		c = next
	}
}

// InsertAt inserts child into parent before the child currently at index. An
// index at or past the end appends.
func InsertAt(parent *html.Node, index int, child *html.Node) {
	if index < 0 {
		index = 0
	}
	ref := parent.FirstChild
	for i := 0; i < index && ref != nil; i++ {
		ref = ref.NextSibling
	}
	if ref == nil {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// Clone deep-copies node. The returned map relates every original node in the
// subtree to its copy.
func Clone(node *html.Node) (*html.Node, map[*html.Node]*html.Node) {
	mapping := make(map[*html.Node]*html.Node)
	return cloneInto(node, mapping), mapping
}

// CloneAll deep-copies a sequence of sibling-less roots into one mapping.
func CloneAll(nodes []*html.Node) ([]*html.Node, map[*html.Node]*html.Node) {
	mapping := make(map[*html.Node]*html.Node)
	out := make([]*html.Node, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, cloneInto(node, mapping))
	}
	return out, mapping
}

func cloneInto(node *html.Node, mapping map[*html.Node]*html.Node) *html.Node {
	if node == nil {
		return nil
	}
	copied := &html.Node{
		Type:      node.Type,
		DataAtom:  node.DataAtom,
		Data:      node.Data,
		Namespace: node.Namespace,
	}
	if len(node.Attr) > 0 {
		copied.Attr = append([]html.Attribute(nil), node.Attr...)
	}
	mapping[node] = copied
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		copied.AppendChild(cloneInto(c, mapping))
	}
	return copied
}
