package bind

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

const defaultSeparator = "??"

// Placeholder is one parsed `{{ key ?? default }}` token.
type Placeholder struct {
	Key        string
	Default    string
	HasDefault bool
}

// ParsePlaceholder splits the inside of a `{{ }}` token.
func ParsePlaceholder(expr string) Placeholder {
	key, def, found := strings.Cut(expr, defaultSeparator)
	p := Placeholder{Key: strings.Trim(key, " \t")}
	if found {
		p.Default = strings.Trim(def, " \t")
		p.HasDefault = true
	}
	return p
}

// Interpolate substitutes every placeholder of s that resolves in ctx (or
// carries a default). Unresolved tokens stay verbatim; the second result
// counts them.
func Interpolate(s string, ctx data.Context) (string, int) {
	if !strings.Contains(s, "{{") {
		return s, 0
	}
	unresolved := 0
	out := placeholderPattern.ReplaceAllStringFunc(s, func(token string) string {
		p := ParsePlaceholder(token[2 : len(token)-2])
		if value, ok := Lookup(p.Key, ctx); ok {
			return data.String(value)
		}
		if p.HasDefault {
			return p.Default
		}
		unresolved++
		return token
	})
	return out, unresolved
}

// InterpolateTree applies Interpolate to every attribute value containing `{`
// below root and, when text is set, to text nodes outside script and style.
// Directive attributes are left alone.
func InterpolateTree(root *html.Node, ctx data.Context, text bool) int {
	unresolved := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			for i := range n.Attr {
				attr := &n.Attr[i]
				if strings.HasPrefix(attr.Key, AttrPrefix) || !strings.Contains(attr.Val, "{") {
					continue
				}
				var count int
				attr.Val, count = Interpolate(attr.Val, ctx)
				unresolved += count
			}
			if n.Data == "script" || n.Data == "style" {
				return
			}
		case html.TextNode:
			if text {
				var count int
				n.Data, count = Interpolate(n.Data, ctx)
				unresolved += count
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return unresolved
}
