package dom

import (
	"golang.org/x/net/html"
)

// THead returns the first <thead> of table, or nil.
func THead(table *html.Node) *html.Node {
	for _, child := range ElementChildren(table) {
		if child.Data == "thead" {
			return child
		}
	}
	return nil
}

// TBodies returns the <tbody> sections of table in order.
func TBodies(table *html.Node) []*html.Node {
	var out []*html.Node
	for _, child := range ElementChildren(table) {
		if child.Data == "tbody" {
			out = append(out, child)
		}
	}
	return out
}

// Rows returns the <tr> children of a table section.
func Rows(section *html.Node) []*html.Node {
	var out []*html.Node
	for _, child := range ElementChildren(section) {
		if child.Data == "tr" {
			out = append(out, child)
		}
	}
	return out
}

// Cells returns the <th>/<td> children of a row.
func Cells(row *html.Node) []*html.Node {
	var out []*html.Node
	for _, child := range ElementChildren(row) {
		if child.Data == "td" || child.Data == "th" {
			out = append(out, child)
		}
	}
	return out
}

// CreateTHead inserts an empty <thead> into table, after any <caption> or
// <colgroup> children, and returns it.
func CreateTHead(table *html.Node) *html.Node {
	thead := NewElement("thead")
	ref := table.FirstChild
	for ref != nil && (ref.Type != html.ElementNode || ref.Data == "caption" || ref.Data == "colgroup") {
		ref = ref.NextSibling
	}
	if ref == nil {
		table.AppendChild(thead)
		return thead
	}
	table.InsertBefore(thead, ref)
	return thead
}

// CreateTBody appends an empty <tbody> to table, before any <tfoot>.
func CreateTBody(table *html.Node) *html.Node {
	tbody := NewElement("tbody")
	for _, child := range ElementChildren(table) {
		if child.Data == "tfoot" {
			table.InsertBefore(tbody, child)
			return tbody
		}
	}
	table.AppendChild(tbody)
	return tbody
}

// AppendRow appends a new <tr> to section.
func AppendRow(section *html.Node) *html.Node {
	tr := NewElement("tr")
	section.AppendChild(tr)
	return tr
}

// AppendCell appends a new cell (tag "td" or "th") holding text to row.
func AppendCell(row *html.Node, tag, text string) *html.Node {
	cell := NewElement(tag)
	SetTextContent(cell, text)
	row.AppendChild(cell)
	return cell
}
