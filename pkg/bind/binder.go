// Package bind applies data to an HTML tree: data-bind directives, {{ }}
// placeholders, list expansion from registered templates and table data.
package bind

import (
	"errors"
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/table"
	"github.com/goliatone/go-domtemplate/pkg/template"
)

// Option configures a Binder.
type Option func(*Binder)

// WithLogger routes binder diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRegistry sets the template registry used by list and table binding.
func WithRegistry(registry *template.Registry) Option {
	return func(b *Binder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithHTMLPolicy sanitises every value written through an html directive.
func WithHTMLPolicy(policy *bluemonday.Policy) Option {
	return func(b *Binder) {
		b.policy = policy
	}
}

// WithSanitizedHTML enables the default user content policy for html
// directives.
func WithSanitizedHTML() Option {
	return func(b *Binder) {
		b.policy = defaultPolicy()
	}
}

// WithTextPlaceholders toggles placeholder interpolation in text nodes.
// Attribute values are always interpolated.
func WithTextPlaceholders(enabled bool) Option {
	return func(b *Binder) {
		b.textPlaceholders = enabled
	}
}

// Binder binds data into trees that belong to one document. It is not safe for
// concurrent use; the document it serves is not either.
type Binder struct {
	registry         *template.Registry
	logger           *slog.Logger
	policy           *bluemonday.Policy
	textPlaceholders bool

	unmet []string
}

// NewBinder creates a binder. Without WithRegistry it owns an empty registry.
func NewBinder(options ...Option) *Binder {
	b := &Binder{
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		textPlaceholders: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.registry == nil {
		b.registry = template.NewRegistry(template.WithLogger(b.logger))
	}
	return b
}

// Registry returns the template registry the binder resolves against.
func (b *Binder) Registry() *template.Registry {
	return b.registry
}

// Bind interpolates placeholders below root and then applies every directive
// found there against ctx.
func (b *Binder) Bind(root *html.Node, ctx data.Context) error {
	if root == nil {
		return nil
	}
	if unresolved := InterpolateTree(root, ctx, b.textPlaceholders); unresolved > 0 {
		b.logger.Debug("placeholders left unresolved", "count", unresolved)
	}

	var errs []error
	for _, element := range dom.FindAll(root, dom.HasAttrPrefix(AttrPrefix)) {
		if err := b.ApplyDirectives(element, ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BindKeyValue binds a single key.
func (b *Binder) BindKeyValue(root *html.Node, key string, value any) error {
	return b.Bind(root, data.Pair{Key: key, Value: value})
}

// BindValue binds a scalar under the empty key, as used by `data-bind:text`
// with no key.
func (b *Binder) BindValue(root *html.Node, value any) error {
	return b.Bind(root, data.Scalar{Value: value})
}

// BindData binds a map, object, sequence or any value accepted by data.From.
func (b *Binder) BindData(root *html.Node, value any) error {
	return b.Bind(root, data.From(value))
}

// BindTable fills the table at (or the tables inside) element with value.
func (b *Binder) BindTable(element *html.Node, value any) error {
	return table.Bind(element, value, table.Options{
		Registry:  b.registry,
		RowBinder: b,
		Logger:    b.logger,
	})
}

// BindRow binds a freshly inserted table row. It implements table.RowBinder.
func (b *Binder) BindRow(in *template.Instance, ctx data.Context) error {
	err := b.bindInstance(in, ctx)
	b.strip(in.Nodes)
	return err
}

// bindInstance binds every node of an instance against ctx.
func (b *Binder) bindInstance(in *template.Instance, ctx data.Context) error {
	var errs []error
	for _, node := range in.Nodes {
		if err := b.Bind(node, ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
