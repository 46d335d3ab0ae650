package template

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/dom"
)

const (
	// MarkerAttr flags an element (or <template> wrapper) as a template.
	MarkerAttr = "data-template"
	// ClassPrefix prefixes the class added to named template roots.
	ClassPrefix = "t-"
)

var (
	// ErrTemplateNotFound is returned when no template matches a lookup.
	ErrTemplateNotFound = errors.New("template: template not found")
	// ErrNamelessTemplateSpecificity is returned when more than one unnamed
	// template matches and the caller cannot tell them apart.
	ErrNamelessTemplateSpecificity = errors.New("template: unnamed template is ambiguous")
	// ErrDuplicateTemplate is returned when a key is registered twice.
	ErrDuplicateTemplate = errors.New("template: duplicate template")
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes registry diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry stores the fragments extracted from one document, keyed by
// explicit name or by structural path. It is owned by its document.
type Registry struct {
	mu        sync.RWMutex
	fragments map[string]*Fragment
	logger    *slog.Logger
}

// NewRegistry creates an empty registry instance.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		fragments: make(map[string]*Fragment),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ExtractAll detaches every data-template element below root and registers
// the resulting fragments. Paths are computed once on the untouched tree;
// extraction then runs in reverse document order so templates nested inside
// other templates leave their owner before the owner itself is detached.
func (r *Registry) ExtractAll(root *html.Node) ([]*Fragment, error) {
	markers := dom.FindAll(root, dom.HasAttrNamed(MarkerAttr))
	if len(markers) == 0 {
		return nil, nil
	}

	isMarker := make(map[*html.Node]bool, len(markers))
	for _, marker := range markers {
		isMarker[marker] = true
	}

	type plan struct {
		path       string
		parentPath string
		key        string
		owner      *html.Node
	}
	plans := make(map[*html.Node]*plan, len(markers))
	for _, marker := range markers {
		p := &plan{
			path:       dom.Path(marker),
			parentPath: dom.Path(marker.Parent),
		}
		p.key = p.path
		if name := markerName(marker); name != "" {
			p.key = name
		}
		for n := marker.Parent; n != nil; n = n.Parent {
			if isMarker[n] {
				p.owner = n
				break
			}
		}
		plans[marker] = p
	}

	fragments := make([]*Fragment, len(markers))
	for i := len(markers) - 1; i >= 0; i-- {
		marker := markers[i]
		p := plans[marker]
		fragment, err := extract(marker)
		if err != nil {
			return nil, err
		}
		fragment.Path = p.path
		fragment.parentPath = p.parentPath
		fragment.seq = i
		if p.owner != nil {
			fragment.Owner = plans[p.owner].key
		}
		if err := r.Register(fragment); err != nil {
			return nil, err
		}
		fragments[i] = fragment
	}

	r.logger.Debug("templates extracted", "count", len(fragments))
	return fragments, nil
}

// Extract detaches a single marker element into an unregistered fragment.
func (r *Registry) Extract(marker *html.Node) (*Fragment, error) {
	path, parentPath := dom.Path(marker), dom.Path(marker.Parent)
	fragment, err := extract(marker)
	if err != nil {
		return nil, err
	}
	fragment.Path = path
	fragment.parentPath = parentPath
	return fragment, nil
}

func extract(marker *html.Node) (*Fragment, error) {
	if marker == nil || marker.Type != html.ElementNode {
		return nil, fmt.Errorf("template: marker must be an element")
	}
	if marker.Parent == nil {
		return nil, fmt.Errorf("template: marker <%s> is detached", marker.Data)
	}

	fragment := &Fragment{
		Name: markerName(marker),
		anchor: anchor{
			parent: marker.Parent,
			after:  dom.FollowingCount(marker),
		},
	}
	dom.RemoveAttr(marker, MarkerAttr)

	if marker.Data == "template" {
		for _, child := range dom.Children(marker) {
			marker.RemoveChild(child)
			fragment.nodes = append(fragment.nodes, child)
		}
		dom.Detach(marker)
		return fragment, nil
	}

	dom.Detach(marker)
	fragment.nodes = []*html.Node{marker}
	return fragment, nil
}

func markerName(marker *html.Node) string {
	value, _ := dom.Attr(marker, MarkerAttr)
	return strings.TrimSpace(value)
}

// Register stores fragment under its key. Explicitly named fragments tag
// their top-level elements with the t-<name> class.
func (r *Registry) Register(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("template: fragment is required")
	}
	key := fragment.Key()
	if key == "" {
		return fmt.Errorf("template: fragment has neither name nor path")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fragments[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTemplate, key)
	}
	if fragment.Name != "" && !strings.HasPrefix(fragment.Name, "/") {
		for _, node := range fragment.nodes {
			if node.Type == html.ElementNode {
				dom.AddClass(node, ClassPrefix+fragment.Name)
			}
		}
	}
	r.fragments[key] = fragment
	r.logger.Debug("template registered", "key", key, "owner", fragment.Owner)
	return nil
}

// ResolveNamed returns the fragment registered under an explicit name.
func (r *Registry) ResolveNamed(name string) (*Fragment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fragment, ok := r.fragments[name]
	if !ok || fragment.Name == "" {
		return nil, fmt.Errorf("%w: name %q", ErrTemplateNotFound, name)
	}
	return fragment, nil
}

// ResolveUnnamed returns the single top-level unnamed fragment extracted from
// host or from an element below it. Matching follows node identity, so sibling
// indices shifted by extraction or by inserted rows do not matter. Several
// matches are an error, never a guess.
func (r *Registry) ResolveUnnamed(host *html.Node) (*Fragment, error) {
	return r.resolveUnnamed(func(f *Fragment) bool {
		return f.Owner == "" && host != nil && dom.Contains(host, f.anchor.parent)
	}, fmt.Sprintf("below %q", dom.Path(host)))
}

// ResolveOwned returns the single unnamed fragment nested directly inside the
// template registered under owner.
func (r *Registry) ResolveOwned(owner string) (*Fragment, error) {
	return r.resolveUnnamed(func(f *Fragment) bool {
		return f.Owner == owner
	}, fmt.Sprintf("owner %q", owner))
}

func (r *Registry) resolveUnnamed(match func(*Fragment) bool, scope string) (*Fragment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Fragment
	for _, fragment := range r.fragments {
		if fragment.Name != "" || !match(fragment) {
			continue
		}
		matches = append(matches, fragment)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, scope)
	case 1:
		return matches[0], nil
	}
	paths := make([]string, len(matches))
	for i, fragment := range matches {
		paths[i] = fragment.Path
	}
	sort.Strings(paths)
	return nil, fmt.Errorf("%w: %s matches %s", ErrNamelessTemplateSpecificity, scope, strings.Join(paths, ", "))
}

// Owned lists every fragment nested directly inside the template registered
// under owner, in document order.
func (r *Registry) Owned(owner string) []*Fragment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Fragment
	for _, fragment := range r.fragments {
		if fragment.Owner == owner {
			out = append(out, fragment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Names returns the sorted keys of every registered fragment.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fragments))
	for key := range r.fragments {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a fragment is registered under key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.fragments[key]
	return ok
}

// Len returns the number of registered fragments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fragments)
}
