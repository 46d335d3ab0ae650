package bind

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
)

const (
	// AttrPrefix starts every binding directive attribute.
	AttrPrefix      = "data-bind"
	directivePrefix = AttrPrefix + ":"
)

// Property is the element property a directive writes to.
type Property int

// Properties a directive can target. PropertyAttribute covers every name
// not in the synonym table.
const (
	PropertyAttribute Property = iota
	PropertyText
	PropertyHTML
	PropertyValue
	PropertyClass
	PropertyTable
)

var propertyNames = map[string]Property{
	"text":         PropertyText,
	"innertext":    PropertyText,
	"inner-text":   PropertyText,
	"textcontent":  PropertyText,
	"text-content": PropertyText,
	"html":         PropertyHTML,
	"innerhtml":    PropertyHTML,
	"inner-html":   PropertyHTML,
	"value":        PropertyValue,
	"class":        PropertyClass,
	"table":        PropertyTable,
}

func (p Property) String() string {
	switch p {
	case PropertyText:
		return "text"
	case PropertyHTML:
		return "html"
	case PropertyValue:
		return "value"
	case PropertyClass:
		return "class"
	case PropertyTable:
		return "table"
	default:
		return "attribute"
	}
}

// Directive is one data-bind:<name>="<expr>" attribute.
type Directive struct {
	Property Property
	// Name is the raw property name; for PropertyAttribute it is the
	// attribute written.
	Name string
	// Attr is the full directive attribute name.
	Attr string
	// Expr is the attribute value.
	Expr string
}

// ParseDirective interprets an attribute. ok is false for attributes that are
// not directives; a bare data-bind without property is an error.
func ParseDirective(attr html.Attribute) (Directive, bool, error) {
	if attr.Namespace != "" || !strings.HasPrefix(attr.Key, AttrPrefix) {
		return Directive{}, false, nil
	}
	if attr.Key == AttrPrefix || attr.Key == directivePrefix {
		return Directive{}, false, fmt.Errorf("%w: %q", ErrBindPropertyMissing, attr.Key)
	}
	name, ok := strings.CutPrefix(attr.Key, directivePrefix)
	if !ok {
		return Directive{}, false, nil
	}
	property, known := propertyNames[strings.ToLower(name)]
	if !known {
		property = PropertyAttribute
	}
	return Directive{Property: property, Name: name, Attr: attr.Key, Expr: attr.Val}, true, nil
}

// Required reports whether the directive must be satisfied for validation to
// pass. Class directives are required when any token is.
func (d Directive) Required() bool {
	if d.Property == PropertyClass {
		for _, token := range strings.Fields(d.Expr) {
			keyPart, _, _ := strings.Cut(token, ":")
			if ParseKey(keyPart).Required {
				return true
			}
		}
		return false
	}
	return ParseKey(d.Expr).Required
}

// ApplyDirectives runs every directive of element against ctx. Satisfied
// directives are removed; directives whose key is absent stay untouched for a
// later bind call. Errors from one directive do not stop the others.
func (b *Binder) ApplyDirectives(element *html.Node, ctx data.Context) error {
	var errs []error
	for _, attr := range dom.Attrs(element) {
		directive, ok, err := ParseDirective(attr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		satisfied, err := b.apply(element, directive, ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if satisfied {
			dom.RemoveAttr(element, directive.Attr)
		}
	}
	return errors.Join(errs...)
}

func (b *Binder) apply(element *html.Node, d Directive, ctx data.Context) (bool, error) {
	if d.Property == PropertyClass {
		return b.applyClass(element, d, ctx)
	}

	key, err := ParseKey(d.Expr).Resolve(element, d.Attr)
	if err != nil {
		return false, err
	}
	value, ok := Lookup(key, ctx)
	if !ok {
		return false, nil
	}

	switch d.Property {
	case PropertyText:
		dom.SetTextContent(element, data.String(value))
	case PropertyHTML:
		if err := dom.SetInnerHTML(element, b.sanitize(data.String(value))); err != nil {
			return false, fmt.Errorf("bind: %s: %w", d.Attr, err)
		}
	case PropertyValue:
		dom.SetValue(element, data.String(value))
	case PropertyTable:
		if err := b.BindTable(element, value); err != nil {
			return false, fmt.Errorf("bind: %s: %w", d.Attr, err)
		}
	default:
		dom.SetAttr(element, d.Name, data.String(value))
	}
	return true, nil
}

// applyClass toggles one class per token. Tokens whose key resolves are
// consumed; the rest are written back so a later bind call can satisfy them.
func (b *Binder) applyClass(element *html.Node, d Directive, ctx data.Context) (bool, error) {
	var pending []string
	for _, token := range strings.Fields(d.Expr) {
		keyPart, className, _ := strings.Cut(token, ":")
		if className == "" {
			className = keyPart
		}
		key := ParseKey(keyPart)
		if className == keyPart {
			className = key.Name
		}

		name, err := key.Resolve(element, d.Attr)
		if err != nil {
			return false, err
		}
		value, ok := Lookup(name, ctx)
		if !ok {
			pending = append(pending, token)
			continue
		}
		if className == "" {
			continue
		}
		if data.Truthy(value) {
			dom.AddClass(element, className)
		} else {
			dom.RemoveClass(element, className)
		}
	}

	if len(pending) == 0 {
		return true, nil
	}
	dom.SetAttr(element, d.Attr, strings.Join(pending, " "))
	return false, nil
}
