package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Predicate selects nodes during a query.
type Predicate func(*html.Node) bool

// FindAll returns root (when it matches) and every matching descendant
// element in document order.
func FindAll(root *html.Node, match Predicate) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FindFirst returns the first match of FindAll, or nil.
func FindFirst(root *html.Node, match Predicate) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if root != nil {
		walk(root)
	}
	return found
}

// HasAttrPrefix matches elements carrying any attribute whose name starts
// with prefix.
func HasAttrPrefix(prefix string) Predicate {
	prefix = strings.ToLower(prefix)
	return func(n *html.Node) bool {
		for _, attr := range n.Attr {
			if strings.HasPrefix(attr.Key, prefix) {
				return true
			}
		}
		return false
	}
}

// HasAttrNamed matches elements carrying the named attribute.
func HasAttrNamed(name string) Predicate {
	return func(n *html.Node) bool {
		return HasAttr(n, name)
	}
}

// TagIs matches elements with the given tag name.
func TagIs(tag string) Predicate {
	tag = strings.ToLower(tag)
	return func(n *html.Node) bool {
		return n.Data == tag
	}
}

// FindByTag is FindAll with TagIs, excluding root itself.
func FindByTag(root *html.Node, tag string) []*html.Node {
	matches := FindAll(root, TagIs(tag))
	if len(matches) > 0 && matches[0] == root {
		return matches[1:]
	}
	return matches
}

// FindByID returns the element with the given id attribute.
func FindByID(root *html.Node, id string) *html.Node {
	return FindFirst(root, func(n *html.Node) bool {
		value, ok := Attr(n, "id")
		return ok && value == id
	})
}

// Closest walks from node up through its ancestors and returns the first
// element matching.
func Closest(node *html.Node, match Predicate) *html.Node {
	for n := node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

// Contains reports whether node lies inside root (or is root).
func Contains(root, node *html.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Path returns the structural path of node, e.g. /html/body/ul/li[2]. The
// [n] index is only written when the parent holds more than one element with
// the same tag. Detached subtrees are addressed from their topmost ancestor.
func Path(node *html.Node) string {
	if node == nil || node.Type == html.DocumentNode {
		return ""
	}
	var segments []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		segments = append(segments, segment(n))
	}
	var sb strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(segments[i])
	}
	return sb.String()
}

func segment(n *html.Node) string {
	name := n.Data
	switch n.Type {
	case html.TextNode:
		name = "text()"
	case html.CommentNode:
		name = "comment()"
	}
	if n.Parent == nil {
		return name
	}
	index, total := 0, 0
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if s.Type != n.Type {
			continue
		}
		if n.Type == html.ElementNode && s.Data != n.Data {
			continue
		}
		total++
		if s == n {
			index = total
		}
	}
	if total <= 1 {
		return name
	}
	return name + "[" + strconv.Itoa(index) + "]"
}
