package bind

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
)

const (
	optionalMarker = '?'
	indirectMarker = '@'
)

// Key is a parsed key expression: `[?][@]name`.
type Key struct {
	// Required is false when the expression starts with `?`.
	Required bool
	// Indirect is true when the expression names an attribute (`@name`)
	// whose value is the real key.
	Indirect bool
	// Name is the key, or the attribute name for indirect keys.
	Name string
}

// ParseKey strips at most one `?` and then at most one `@` marker.
func ParseKey(raw string) Key {
	key := Key{Required: true, Name: strings.TrimSpace(raw)}
	if len(key.Name) > 0 && key.Name[0] == optionalMarker {
		key.Required = false
		key.Name = key.Name[1:]
	}
	if len(key.Name) > 0 && key.Name[0] == indirectMarker {
		key.Indirect = true
		key.Name = key.Name[1:]
	}
	return key
}

// Resolve returns the key to look up. Indirect keys read the named attribute
// of element; directive names the attribute being resolved, for errors.
func (k Key) Resolve(element *html.Node, directive string) (string, error) {
	if !k.Indirect {
		return k.Name, nil
	}
	value, ok := dom.Attr(element, k.Name)
	if !ok {
		return "", &BoundAttributeError{Directive: directive, Attribute: k.Name}
	}
	return value, nil
}

// String renders the key expression back to its attribute form.
func (k Key) String() string {
	var sb strings.Builder
	if !k.Required {
		sb.WriteByte(optionalMarker)
	}
	if k.Indirect {
		sb.WriteByte(indirectMarker)
	}
	sb.WriteString(k.Name)
	return sb.String()
}

// Lookup resolves key against ctx. Absent keys report false, never an empty
// string; callers decide whether absent means skip.
func Lookup(key string, ctx data.Context) (any, bool) {
	return data.Lookup(ctx, key)
}
