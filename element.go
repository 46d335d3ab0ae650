package domtemplate

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/dom"
)

// Element scopes bind calls to one element of a Document.
type Element struct {
	node *html.Node
	doc  *Document
}

// Node returns the underlying tree node.
func (e *Element) Node() *html.Node {
	return e.node
}

// BindKeyValue binds key inside the element.
func (e *Element) BindKeyValue(key string, value any) error {
	return e.doc.binder.BindKeyValue(e.node, key, value)
}

// BindValue binds value to empty-key directives inside the element.
func (e *Element) BindValue(value any) error {
	return e.doc.binder.BindValue(e.node, value)
}

// BindData binds each key of value inside the element.
func (e *Element) BindData(value any) error {
	return e.doc.binder.BindData(e.node, value)
}

// BindList expands the named template, or the single unnamed template
// authored below this element.
func (e *Element) BindList(rows any, name ...string) (int, error) {
	return e.doc.binder.BindList(e.node, rows, firstName(name))
}

// BindTable writes value into the element when it is a table, else into the
// tables it contains.
func (e *Element) BindTable(value any) error {
	return e.doc.binder.BindTable(e.node, value)
}

// Select returns the first element below this one matching `#id` or a tag.
func (e *Element) Select(selector string) *Element {
	return e.doc.wrap(selectFirst(e.node, selector))
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return dom.Attr(e.node, name)
}

// Text returns the text content of the element.
func (e *Element) Text() string {
	return dom.TextContent(e.node)
}

// InnerHTML renders the children of the element.
func (e *Element) InnerHTML() string {
	return dom.InnerHTML(e.node)
}

// OuterHTML renders the element itself.
func (e *Element) OuterHTML() string {
	return dom.OuterHTML(e.node)
}

// Path returns the structural path of the element.
func (e *Element) Path() string {
	return dom.Path(e.node)
}
