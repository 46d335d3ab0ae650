// Package domtemplate binds data into HTML documents through data-bind
// directives, {{ }} placeholders and data-template lists and tables.
package domtemplate

import (
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-domtemplate/pkg/bind"
	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/table"
	"github.com/goliatone/go-domtemplate/pkg/template"
)

// Errors re-exported from the packages doing the work, so callers only need
// the root import for errors.Is checks.
var (
	ErrBoundAttributeMissing       = bind.ErrBoundAttributeMissing
	ErrBindPropertyMissing         = bind.ErrBindPropertyMissing
	ErrBoundDataNotSet             = bind.ErrBoundDataNotSet
	ErrIncorrectListData           = bind.ErrIncorrectListData
	ErrTemplateNotFound            = template.ErrTemplateNotFound
	ErrNamelessTemplateSpecificity = template.ErrNamelessTemplateSpecificity
	ErrDuplicateTemplate           = template.ErrDuplicateTemplate
	ErrIncorrectTableDataFormat    = table.ErrIncorrectTableDataFormat
	ErrUnresolvedColumn            = table.ErrUnresolvedColumn
	ErrTableElementNotFound        = table.ErrTableElementNotFound
)

// UnboundError lists the required directives Validate found without data.
type UnboundError = bind.UnboundError

// BoundAttributeError names a directive whose @attribute key is missing.
type BoundAttributeError = bind.BoundAttributeError

// ColumnError names a keyed table cell whose column is not in the header.
type ColumnError = table.ColumnError

// Object aliases data.Object for callers building ordered data by hand.
type Object = data.Object

// ObjectOf builds an ordered object from alternating keys and values.
func ObjectOf(kv ...any) *Object {
	return data.ObjectOf(kv...)
}

// LoadData decodes JSON or YAML into values the bind calls accept, keeping
// mapping keys in document order.
func LoadData(r io.Reader) (any, error) {
	return data.Load(r)
}

// LoadDataFile reads JSON or YAML data from path.
func LoadDataFile(path string) (any, error) {
	return data.LoadFile(path)
}

// Option configures a Document.
type Option func(*config)

type config struct {
	logger           *slog.Logger
	policy           *bluemonday.Policy
	sanitized        bool
	textPlaceholders bool
}

func newConfig(options ...Option) config {
	cfg := config{
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		textPlaceholders: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

func (c config) binderOptions(registry *template.Registry) []bind.Option {
	opts := []bind.Option{
		bind.WithLogger(c.logger),
		bind.WithRegistry(registry),
		bind.WithTextPlaceholders(c.textPlaceholders),
	}
	switch {
	case c.policy != nil:
		opts = append(opts, bind.WithHTMLPolicy(c.policy))
	case c.sanitized:
		opts = append(opts, bind.WithSanitizedHTML())
	}
	return opts
}

// WithLogger routes diagnostics (template extraction, list and table binding)
// to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTMLPolicy sanitises html directive values with policy.
func WithHTMLPolicy(policy *bluemonday.Policy) Option {
	return func(c *config) {
		c.policy = policy
	}
}

// WithSanitizedHTML sanitises html directive values with a user content
// policy that keeps classes and data attributes.
func WithSanitizedHTML() Option {
	return func(c *config) {
		c.sanitized = true
	}
}

// WithTextPlaceholders toggles {{ }} interpolation in text nodes. It is on by
// default; attribute values are always interpolated.
func WithTextPlaceholders(enabled bool) Option {
	return func(c *config) {
		c.textPlaceholders = enabled
	}
}
