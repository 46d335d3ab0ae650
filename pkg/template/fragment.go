// Package template extracts data-template sub-trees from a document into
// reusable fragments and clones them back into the tree at bind time.
package template

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/dom"
)

// anchor records where a fragment came from: the identity of its original
// parent and how many siblings followed it. Counting trailing siblings keeps
// the position stable while rows are inserted in front of them.
type anchor struct {
	parent *html.Node
	after  int
}

// Fragment is a detached template sub-tree. Its nodes are never mutated after
// registration; binding always works on an Instance.
type Fragment struct {
	// Name is the explicit data-template value, empty for path-keyed
	// fragments.
	Name string
	// Path is the structural path of the marker before extraction.
	Path string
	// Owner is the key of the enclosing template, empty at top level.
	Owner string

	parentPath string
	seq        int
	nodes      []*html.Node
	anchor     anchor
}

// Key is the registry key: the explicit name, else the structural path.
func (f *Fragment) Key() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Path
}

// ParentPath is the structural path of the element the fragment was
// extracted from.
func (f *Fragment) ParentPath() string {
	return f.parentPath
}

// Parent returns the node the fragment was extracted from.
func (f *Fragment) Parent() *html.Node {
	return f.anchor.parent
}

// Markup renders the stored fragment, mostly for debugging and tests.
func (f *Fragment) Markup() string {
	var out string
	for _, node := range f.nodes {
		out += dom.OuterHTML(node)
	}
	return out
}

// Instance is a deep clone of a fragment ready to be bound and inserted.
type Instance struct {
	Fragment *Fragment
	Nodes    []*html.Node

	parent  *html.Node
	mapping map[*html.Node]*html.Node
}

// Clone deep-copies fragment. The clone keeps the fragment's anchor so
// Insert can put it back where the template was authored.
func Clone(fragment *Fragment) *Instance {
	nodes, mapping := dom.CloneAll(fragment.nodes)
	return &Instance{
		Fragment: fragment,
		Nodes:    nodes,
		parent:   fragment.anchor.parent,
		mapping:  mapping,
	}
}

// CloneWithin clones a nested fragment whose anchor parent sits inside the
// owner's template. The anchor is translated onto the owner instance's copy
// of that parent; when it has no copy the instance has no parent and Insert
// appends to its target.
func CloneWithin(fragment *Fragment, owner *Instance) *Instance {
	in := Clone(fragment)
	in.parent = nil
	if owner != nil {
		in.parent = owner.Copy(fragment.anchor.parent)
	}
	return in
}

// Elements returns the element nodes of the instance.
func (in *Instance) Elements() []*html.Node {
	var out []*html.Node
	for _, node := range in.Nodes {
		if node.Type == html.ElementNode {
			out = append(out, node)
		}
	}
	return out
}

// Copy returns the instance's clone of a node from its fragment, or nil.
func (in *Instance) Copy(original *html.Node) *html.Node {
	return in.mapping[original]
}

// Parent returns the node the instance will be inserted into when Insert is
// called with a target containing it.
func (in *Instance) Parent() *html.Node {
	return in.parent
}

// Insert places the instance's nodes at the recorded position when the
// anchor parent lies inside target, otherwise appends them to target. A nil
// target always uses the anchor.
func (in *Instance) Insert(target *html.Node) *html.Node {
	parent := in.parent
	index := -1
	if parent != nil && (target == nil || dom.Contains(target, parent)) {
		index = dom.ChildCount(parent) - in.Fragment.anchor.after
		if index < 0 {
			index = 0
		}
	} else {
		parent = target
	}
	if parent == nil {
		return nil
	}

	for _, node := range in.Nodes {
		if index < 0 {
			parent.AppendChild(node)
			continue
		}
		dom.InsertAt(parent, index, node)
		index++
	}
	in.parent = parent
	return parent
}
