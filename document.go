package domtemplate

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/bind"
	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/template"
)

// Document is a parsed HTML document together with the templates extracted
// from it. A Document is not safe for concurrent use.
type Document struct {
	root     *html.Node
	registry *template.Registry
	binder   *bind.Binder
	logger   *slog.Logger
}

// Parse reads an HTML document and extracts its data-template elements.
func Parse(r io.Reader, options ...Option) (*Document, error) {
	root, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("domtemplate: %w", err)
	}
	return newDocument(root, options...)
}

// ParseString parses markup.
func ParseString(markup string, options ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), options...)
}

// ParseFile parses the HTML file at path.
func ParseFile(path string, options ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("domtemplate: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, options...)
}

func newDocument(root *html.Node, options ...Option) (*Document, error) {
	cfg := newConfig(options...)
	registry := template.NewRegistry(template.WithLogger(cfg.logger))
	if _, err := registry.ExtractAll(root); err != nil {
		return nil, fmt.Errorf("domtemplate: extract templates: %w", err)
	}
	return &Document{
		root:     root,
		registry: registry,
		binder:   bind.NewBinder(cfg.binderOptions(registry)...),
		logger:   cfg.logger,
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	return d.wrap(dom.DocumentElement(d.root))
}

// BindKeyValue binds value to every directive and placeholder using key.
func (d *Document) BindKeyValue(key string, value any) error {
	return d.binder.BindKeyValue(d.root, key, value)
}

// BindValue binds value to every directive and placeholder with an empty key.
func (d *Document) BindValue(value any) error {
	return d.binder.BindValue(d.root, value)
}

// BindData binds each key of value.
func (d *Document) BindData(value any) error {
	return d.binder.BindData(d.root, value)
}

// BindList expands the named template, or the single unnamed top-level one,
// once per entry of rows.
func (d *Document) BindList(rows any, name ...string) (int, error) {
	return d.binder.BindList(d.root, rows, firstName(name))
}

// BindTable writes value into every table of the document.
func (d *Document) BindTable(value any) error {
	return d.binder.BindTable(d.root, value)
}

// Validate returns an error wrapping ErrBoundDataNotSet when required
// directives never received data.
func (d *Document) Validate() error {
	return d.binder.Validate(d.root)
}

// RemoveBinds strips every data-bind attribute left in the document.
func (d *Document) RemoveBinds() {
	d.binder.RemoveBinds(d.root)
}

// Templates lists the keys of the extracted templates.
func (d *Document) Templates() []string {
	return d.registry.Names()
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return dom.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		d.logger.Warn("render document", "error", err)
		return ""
	}
	return buf.String()
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	return d.wrap(dom.FindByID(d.root, id))
}

// Select returns the first element matching selector: `#id` or a tag name.
func (d *Document) Select(selector string) *Element {
	return d.wrap(selectFirst(d.root, selector))
}

// SelectAll returns every element with the given tag name.
func (d *Document) SelectAll(tag string) []*Element {
	nodes := dom.FindByTag(d.root, strings.ToLower(tag))
	out := make([]*Element, len(nodes))
	for i, node := range nodes {
		out[i] = d.wrap(node)
	}
	return out
}

func (d *Document) wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}
	return &Element{node: node, doc: d}
}

func selectFirst(root *html.Node, selector string) *html.Node {
	selector = strings.TrimSpace(selector)
	if id, ok := strings.CutPrefix(selector, "#"); ok {
		return dom.FindByID(root, id)
	}
	if selector == "" {
		return nil
	}
	return dom.FindFirst(root, dom.TagIs(strings.ToLower(selector)))
}

func firstName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
