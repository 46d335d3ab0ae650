package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute and whether it exists.
func Attr(node *html.Node, name string) (string, bool) {
	if node == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether node carries the named attribute.
func HasAttr(node *html.Node, name string) bool {
	_, ok := Attr(node, name)
	return ok
}

// SetAttr sets (or adds) the named attribute.
func SetAttr(node *html.Node, name, value string) {
	name = strings.ToLower(name)
	for i := range node.Attr {
		if node.Attr[i].Namespace == "" && node.Attr[i].Key == name {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes the named attribute. Missing attributes are ignored.
func RemoveAttr(node *html.Node, name string) {
	name = strings.ToLower(name)
	kept := node.Attr[:0]
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			continue
		}
		kept = append(kept, attr)
	}
	node.Attr = kept
}

// Attrs returns a copy of node's attributes, safe to range over while the
// node is mutated.
func Attrs(node *html.Node) []html.Attribute {
	if node == nil || len(node.Attr) == 0 {
		return nil
	}
	return append([]html.Attribute(nil), node.Attr...)
}

// Classes returns the tokens of the class attribute.
func Classes(node *html.Node) []string {
	value, _ := Attr(node, "class")
	return strings.Fields(value)
}

// HasClass reports whether the class attribute contains name.
func HasClass(node *html.Node, name string) bool {
	for _, class := range Classes(node) {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list unless already present.
func AddClass(node *html.Node, name string) {
	name = strings.TrimSpace(name)
	if name == "" || HasClass(node, name) {
		return
	}
	classes := append(Classes(node), name)
	SetAttr(node, "class", strings.Join(classes, " "))
}

// RemoveClass drops every occurrence of name from the class list. The class
// attribute itself is kept, possibly empty, when it existed before.
func RemoveClass(node *html.Node, name string) {
	if !HasAttr(node, "class") {
		return
	}
	classes := Classes(node)
	kept := classes[:0]
	for _, class := range classes {
		if class != name {
			kept = append(kept, class)
		}
	}
	SetAttr(node, "class", strings.Join(kept, " "))
}
