package bind

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/template"
)

// row is one list entry ready to bind: its context and, for tree-shaped data,
// the value feeding the nested unnamed template.
type row struct {
	ctx         data.Context
	value       any
	children    any
	hasChildren bool
}

func newRow(item data.Item) row {
	r := row{value: item.Value}
	if item.Keyed {
		layers := data.Layered{data.Scalar{Value: item.Key}}
		if data.IsKeyed(item.Value) {
			layers = append(layers, data.From(item.Value))
		}
		r.ctx = layers
		if data.IsIterable(item.Value) {
			r.children, r.hasChildren = item.Value, true
		}
		return r
	}

	switch {
	case data.IsKeyed(item.Value):
		r.ctx = data.From(item.Value)
	case data.IsIterable(item.Value):
		r.ctx = data.From(item.Value)
		r.children, r.hasChildren = item.Value, true
	default:
		r.ctx = data.Scalar{Value: item.Value}
	}
	return r
}

func listRows(value any) ([]row, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := data.Items(value)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrIncorrectListData, value)
	}
	rows := make([]row, len(items))
	for i, item := range items {
		rows[i] = newRow(item)
	}
	return rows, nil
}

// BindList clones a template once per entry of rows, binds each clone to its
// entry and inserts it where the template was authored. The template is the
// one registered under name, or the single unnamed template below host. It
// returns the number of rows inserted.
func (b *Binder) BindList(host *html.Node, rows any, name string) (int, error) {
	if host == nil {
		return 0, fmt.Errorf("bind: list host is required")
	}
	fragment, err := b.resolveList(host, name)
	if err != nil {
		return 0, err
	}
	entries, err := listRows(rows)
	if err != nil {
		return 0, err
	}

	if len(entries) == 0 {
		clearBlank(fragment.Parent(), host)
		b.logger.Debug("list bound", "template", fragment.Key(), "rows", 0)
		return 0, nil
	}

	var errs []error
	for _, entry := range entries {
		in := template.Clone(fragment)
		if err := b.bindRow(in, entry); err != nil {
			errs = append(errs, err)
		}
		in.Insert(host)
		b.strip(in.Nodes)
	}

	b.logger.Debug("list bound", "template", fragment.Key(), "rows", len(entries))
	return len(entries), errors.Join(errs...)
}

func (b *Binder) resolveList(host *html.Node, name string) (*template.Fragment, error) {
	if name != "" {
		return b.registry.ResolveNamed(name)
	}
	return b.registry.ResolveUnnamed(host)
}

// bindRow binds a detached clone and then expands the templates nested in
// its source fragment from the same entry.
func (b *Binder) bindRow(in *template.Instance, entry row) error {
	var errs []error
	if err := b.bindInstance(in, entry.ctx); err != nil {
		errs = append(errs, err)
	}
	if err := b.expandNested(in, entry); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b *Binder) expandNested(owner *template.Instance, entry row) error {
	nested := b.registry.Owned(owner.Fragment.Key())
	if len(nested) == 0 {
		return nil
	}

	var (
		errs    []error
		unnamed []*template.Fragment
		claimed = make(map[string]bool)
	)
	for _, fragment := range nested {
		if fragment.Name == "" {
			unnamed = append(unnamed, fragment)
			continue
		}
		claimed[fragment.Name] = true
		value, ok := entry.ctx.Lookup(fragment.Name)
		if !ok {
			continue
		}
		if err := b.expandInto(owner, fragment, value); err != nil {
			errs = append(errs, err)
		}
	}

	switch len(unnamed) {
	case 0:
		return errors.Join(errs...)
	case 1:
	default:
		paths := make([]string, len(unnamed))
		for i, fragment := range unnamed {
			paths[i] = fragment.Path
		}
		errs = append(errs, fmt.Errorf("%w: %q nests %s", template.ErrNamelessTemplateSpecificity, owner.Fragment.Key(), strings.Join(paths, ", ")))
		return errors.Join(errs...)
	}

	children, ok, err := nestedChildren(entry, claimed)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", err, owner.Fragment.Key()))
	} else if ok {
		if err := b.expandInto(owner, unnamed[0], children); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// nestedChildren picks the value feeding a nested unnamed template: the
// entry's own children, else the only iterable field of a keyed entry.
func nestedChildren(entry row, claimed map[string]bool) (any, bool, error) {
	if entry.hasChildren {
		return entry.children, true, nil
	}
	if !data.IsKeyed(entry.value) {
		return nil, false, nil
	}
	fields, _ := data.Items(entry.value)

	var found []data.Item
	for _, field := range fields {
		if claimed[field.Key] || !data.IsIterable(field.Value) {
			continue
		}
		found = append(found, field)
	}
	switch len(found) {
	case 0:
		return nil, false, nil
	case 1:
		return found[0].Value, true, nil
	}
	keys := make([]string, len(found))
	for i, field := range found {
		keys[i] = field.Key
	}
	return nil, false, fmt.Errorf("%w: fields %s are all lists", template.ErrNamelessTemplateSpecificity, strings.Join(keys, ", "))
}

func (b *Binder) expandInto(owner *template.Instance, fragment *template.Fragment, value any) error {
	entries, err := listRows(value)
	if err != nil {
		return fmt.Errorf("%w (template %q)", err, fragment.Key())
	}
	fallback := ownerParent(owner)

	var errs []error
	for _, entry := range entries {
		in := template.CloneWithin(fragment, owner)
		if err := b.bindRow(in, entry); err != nil {
			errs = append(errs, err)
		}
		if in.Parent() != nil {
			in.Insert(nil)
			continue
		}
		if fallback == nil {
			errs = append(errs, fmt.Errorf("bind: nested template %q has nowhere to go", fragment.Key()))
			continue
		}
		in.Insert(fallback)
	}
	if len(entries) == 0 {
		clearBlank(owner.Copy(fragment.Parent()), nil)
	}
	return errors.Join(errs...)
}

// ownerParent is where nested rows go when their anchor has no copy in the
// owner instance: the first element the owner instance produced.
func ownerParent(owner *template.Instance) *html.Node {
	if elements := owner.Elements(); len(elements) > 0 {
		return elements[0]
	}
	return nil
}

// clearBlank empties parent when it only holds whitespace text, so an empty
// list leaves no residue. Nothing happens when parent is not inside scope.
func clearBlank(parent, scope *html.Node) {
	if parent == nil || (scope != nil && !dom.Contains(scope, parent)) {
		return
	}
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) != "" {
			return
		}
	}
	dom.RemoveChildren(parent)
}
