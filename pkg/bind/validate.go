package bind

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/dom"
)

// strip removes every directive below nodes once a clone has been bound.
// Required directives that were never satisfied are remembered so Validate
// still reports them after they left the tree.
func (b *Binder) strip(nodes []*html.Node) {
	for _, node := range nodes {
		for _, element := range dom.FindAll(node, dom.HasAttrPrefix(AttrPrefix)) {
			for _, attr := range dom.Attrs(element) {
				directive, ok, err := ParseDirective(attr)
				if err == nil && ok && directive.Required() {
					b.unmet = append(b.unmet, describe(element, attr))
				}
				if isBindAttr(attr.Key) {
					dom.RemoveAttr(element, attr.Key)
				}
			}
		}
	}
}

// Validate reports the required directives still waiting for data below
// root, together with those stripped unsatisfied from list clones. It
// returns an *UnboundError, or nil.
func (b *Binder) Validate(root *html.Node) error {
	unbound := append([]string(nil), b.unmet...)
	for _, element := range dom.FindAll(root, dom.HasAttrPrefix(AttrPrefix)) {
		for _, attr := range dom.Attrs(element) {
			directive, ok, err := ParseDirective(attr)
			if err != nil || !ok || !directive.Required() {
				continue
			}
			unbound = append(unbound, describe(element, attr))
		}
	}
	if len(unbound) == 0 {
		return nil
	}
	return &UnboundError{Directives: unbound}
}

// RemoveBinds deletes every data-bind attribute below root and forgets the
// directives recorded from clones. Calling it twice is harmless.
func (b *Binder) RemoveBinds(root *html.Node) {
	for _, element := range dom.FindAll(root, dom.HasAttrPrefix(AttrPrefix)) {
		for _, attr := range dom.Attrs(element) {
			if isBindAttr(attr.Key) {
				dom.RemoveAttr(element, attr.Key)
			}
		}
	}
	b.unmet = nil
}

func describe(element *html.Node, attr html.Attribute) string {
	return dom.Path(element) + " " + attr.Key + `="` + attr.Val + `"`
}

func isBindAttr(name string) bool {
	return name == AttrPrefix || strings.HasPrefix(name, directivePrefix)
}
