package table

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/template"
)

// KeyAttr on a header cell overrides its text as the column name.
const KeyAttr = "data-table-key"

// RowBinder binds the data of one row into a row cloned from a template.
type RowBinder interface {
	BindRow(in *template.Instance, ctx data.Context) error
}

// Options carries the collaborators of Bind. All fields are optional.
type Options struct {
	// Registry supplies row templates registered under a tbody.
	Registry *template.Registry
	// RowBinder binds directives and placeholders in cloned rows.
	RowBinder RowBinder
	Logger    *slog.Logger
}

// Bind writes value into context when it is a <table>, else into every table
// below it. The data is normalised against the header of the first table
// before anything is changed.
func Bind(context *html.Node, value any, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tables := targets(context)
	if len(tables) == 0 {
		return ErrTableElementNotFound
	}

	matrix, err := Normalize(value, HeaderHint(tables[0]))
	if err != nil {
		return err
	}

	fragments := make([]*template.Fragment, len(tables))
	for i, table := range tables {
		fragment, err := rowTemplate(table, opts.Registry)
		if err != nil {
			return err
		}
		fragments[i] = fragment
	}

	var errs []error
	for i, table := range tables {
		if err := fill(table, matrix, fragments[i], opts.RowBinder); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Debug("table bound", "tables", len(tables), "columns", len(matrix.Header), "rows", len(matrix.Rows))
	return errors.Join(errs...)
}

func targets(context *html.Node) []*html.Node {
	if context == nil {
		return nil
	}
	if dom.IsElement(context, "table") {
		return []*html.Node{context}
	}
	return dom.FindByTag(context, "table")
}

// HeaderHint reads the column names from the first row of the table's thead.
func HeaderHint(table *html.Node) []string {
	thead := dom.THead(table)
	if thead == nil {
		return nil
	}
	rows := dom.Rows(thead)
	if len(rows) == 0 {
		return nil
	}
	var header []string
	for _, cell := range dom.Cells(rows[0]) {
		if key, ok := dom.Attr(cell, KeyAttr); ok {
			header = append(header, key)
			continue
		}
		header = append(header, strings.TrimSpace(dom.TextContent(cell)))
	}
	return header
}

// rowTemplate finds the unnamed template authored inside the first table
// body. Tables without one get synthesised rows.
func rowTemplate(table *html.Node, registry *template.Registry) (*template.Fragment, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, nil
	}
	bodies := dom.TBodies(table)
	if len(bodies) == 0 {
		return nil, nil
	}
	fragment, err := registry.ResolveUnnamed(bodies[0])
	if errors.Is(err, template.ErrTemplateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("table: row template: %w", err)
	}
	return fragment, nil
}

func fill(table *html.Node, m Matrix, fragment *template.Fragment, binder RowBinder) error {
	if len(m.Header) > 0 && dom.THead(table) == nil {
		row := dom.AppendRow(dom.CreateTHead(table))
		for _, name := range m.Header {
			dom.AppendCell(row, "th", name)
		}
	}

	var tbody *html.Node
	if bodies := dom.TBodies(table); len(bodies) > 0 {
		tbody = bodies[0]
	} else {
		tbody = dom.CreateTBody(table)
	}

	var errs []error
	for _, row := range m.Rows {
		if fragment == nil {
			appendRow(tbody, row, m.Width())
			continue
		}
		if err := cloneRow(tbody, fragment, row, m.Header, binder); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func appendRow(tbody *html.Node, row Row, width int) {
	tr := dom.AppendRow(tbody)
	for i := 0; i < width; i++ {
		tag := "td"
		if i == 0 && row.HeaderCell {
			tag = "th"
		}
		var text string
		if i < len(row.Cells) {
			text = data.String(row.Cells[i])
		}
		dom.AppendCell(tr, tag, text)
	}
}

// cloneRow inserts a copy of the row template, writes cell values into its
// empty cells and hands the row context to binder for the rest.
func cloneRow(tbody *html.Node, fragment *template.Fragment, row Row, header []string, binder RowBinder) error {
	in := template.Clone(fragment)
	in.Insert(tbody)

	ctx := make(data.Map, len(header))
	for i, value := range row.Cells {
		if value == nil {
			continue
		}
		if i < len(header) && header[i] != "" {
			ctx[header[i]] = value
		}
	}

	elements := in.Elements()
	if len(elements) > 0 {
		for i, cell := range dom.Cells(elements[0]) {
			if i >= len(row.Cells) || row.Cells[i] == nil || !blank(cell) {
				continue
			}
			dom.SetTextContent(cell, data.String(row.Cells[i]))
		}
	}

	if binder == nil {
		return nil
	}
	return binder.BindRow(in, ctx)
}

// blank reports a cell with no elements, no directives and no text.
func blank(cell *html.Node) bool {
	if len(dom.ElementChildren(cell)) > 0 || dom.HasAttrPrefix("data-bind")(cell) {
		return false
	}
	return strings.TrimSpace(dom.TextContent(cell)) == ""
}
