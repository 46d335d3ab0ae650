package bind_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/bind"
	"github.com/goliatone/go-domtemplate/pkg/data"
	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/template"
	"github.com/goliatone/go-domtemplate/pkg/testsupport"
)

func byID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	node := dom.FindByID(root, id)
	if node == nil {
		t.Fatalf("no element with id %q", id)
	}
	return node
}

func TestBindListScalars(t *testing.T) {
	root, b := setup(t, `<ul id="items"><li data-template="item" data-bind:text></li><li>static</li></ul>`)

	n, err := b.BindList(byID(t, root, "items"), []string{"one", "two"}, "item")
	if err != nil {
		t.Fatalf("BindList: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}

	want := `<ul id="items"><li class="t-item">one</li><li class="t-item">two</li><li>static</li></ul>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListMaps(t *testing.T) {
	root, b := setup(t, `<ul id="links"><li data-template><a href="{{url}}" data-bind:text="name"></a></li></ul>`)

	rows := []any{
		map[string]any{"name": "Home", "url": "/"},
		data.ObjectOf("name", "Docs", "url", "/docs"),
	}
	if _, err := b.BindList(byID(t, root, "links"), rows, ""); err != nil {
		t.Fatalf("BindList: %v", err)
	}

	want := `<ul id="links"><li><a href="/">Home</a></li><li><a href="/docs">Docs</a></li></ul>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListEmptyLeavesNoResidue(t *testing.T) {
	root, b := setup(t, "<ul id=\"empty\">\n  <li data-template>x</li>\n</ul>")
	host := byID(t, root, "empty")

	n, err := b.BindList(host, []any{}, "")
	if err != nil {
		t.Fatalf("BindList: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
	if host.FirstChild != nil {
		t.Fatalf("empty list should clear whitespace, got %q", dom.InnerHTML(host))
	}
}

func TestBindListErrors(t *testing.T) {
	root, b := setup(t, `<ul id="items"><li data-template>x</li></ul>`)
	host := byID(t, root, "items")

	if _, err := b.BindList(host, 42, ""); !errors.Is(err, bind.ErrIncorrectListData) {
		t.Fatalf("expected ErrIncorrectListData, got %v", err)
	}
	if _, err := b.BindList(host, []string{"a"}, "missing"); !errors.Is(err, template.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := b.BindList(nil, []string{"a"}, ""); err == nil {
		t.Fatalf("expected error for nil host")
	}
}

func TestBindListTreeShapedData(t *testing.T) {
	root, b := setup(t, `<ul id="tree"><li data-template="node"><span data-bind:text></span>`+
		`<ul><li data-template><b data-bind:text></b></li></ul></li></ul>`)

	groups := data.ObjectOf(
		"fruit", []any{"apple", "pear"},
		"veg", []any{"kale"},
	)
	if _, err := b.BindList(byID(t, root, "tree"), groups, "node"); err != nil {
		t.Fatalf("BindList: %v", err)
	}

	want := `<ul id="tree">` +
		`<li class="t-node"><span>fruit</span><ul><li><b>apple</b></li><li><b>pear</b></li></ul></li>` +
		`<li class="t-node"><span>veg</span><ul><li><b>kale</b></li></ul></li>` +
		`</ul>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListNestedNamedField(t *testing.T) {
	root, b := setup(t, `<div id="users"><article data-template="user"><h2 data-bind:text="name"></h2>`+
		`<ul><li data-template="tags" data-bind:text></li></ul></article></div>`)

	users := []any{
		map[string]any{"name": "Ada", "tags": []any{"math", "code"}},
		map[string]any{"name": "Lin", "tags": []any{}},
	}
	if _, err := b.BindList(byID(t, root, "users"), users, "user"); err != nil {
		t.Fatalf("BindList: %v", err)
	}

	want := `<div id="users">` +
		`<article class="t-user"><h2>Ada</h2><ul><li class="t-tags">math</li><li class="t-tags">code</li></ul></article>` +
		`<article class="t-user"><h2>Lin</h2><ul></ul></article>` +
		`</div>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListNestedAmbiguity(t *testing.T) {
	root, b := setup(t, `<div id="groups"><section data-template="group">`+
		`<ul><li data-template>a</li></ul><ol><li data-template>b</li></ol></section></div>`)

	_, err := b.BindList(byID(t, root, "groups"), []any{map[string]any{"items": []any{1}}}, "group")
	if !errors.Is(err, template.ErrNamelessTemplateSpecificity) {
		t.Fatalf("expected ErrNamelessTemplateSpecificity, got %v", err)
	}
}

func TestValidateAndRemoveBinds(t *testing.T) {
	root, b := setup(t, `<h1 data-bind:text="title"></h1><p data-bind:text="?note"></p>`+
		`<ul id="items"><li data-template data-bind:text="name"></li></ul>`)

	rows := []any{map[string]any{"name": "a"}, map[string]any{"other": 1}}
	if _, err := b.BindList(byID(t, root, "items"), rows, ""); err != nil {
		t.Fatalf("BindList: %v", err)
	}

	err := b.Validate(root)
	var unbound *bind.UnboundError
	if !errors.As(err, &unbound) || !errors.Is(err, bind.ErrBoundDataNotSet) {
		t.Fatalf("expected UnboundError, got %v", err)
	}
	want := []string{
		`/html/body/ul/li[2] data-bind:text="name"`,
		`/html/body/h1 data-bind:text="title"`,
	}
	if diff := cmp.Diff(want, unbound.Directives); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}

	wantMarkup := `<h1 data-bind:text="title"></h1><p data-bind:text="?note"></p><ul id="items"><li>a</li><li></li></ul>`
	if diff := cmp.Diff(wantMarkup, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("clones must not leak directives (-want +got):\n%s", diff)
	}

	b.RemoveBinds(root)
	if err := b.Validate(root); err != nil {
		t.Fatalf("Validate after RemoveBinds: %v", err)
	}
	if diff := cmp.Diff(`<h1></h1><p></p><ul id="items"><li>a</li><li></li></ul>`, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListAfterSiblingTemplateExtracted(t *testing.T) {
	root, b := setup(t, `<ul data-template="menu"><li>m</li></ul><ul id="host"><li data-template data-bind:text></li></ul>`)

	if _, err := b.BindList(byID(t, root, "host"), []string{"a", "b"}, ""); err != nil {
		t.Fatalf("BindList: %v", err)
	}
	want := `<ul id="host"><li>a</li><li>b</li></ul>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBindListAfterEarlierRowsShiftHost(t *testing.T) {
	root, b := setup(t, `<div data-template="card" data-bind:text></div><div id="host"><p data-template data-bind:text></p></div>`)
	body := dom.FindFirst(root, dom.TagIs("body"))

	if _, err := b.BindList(body, []string{"x", "y"}, "card"); err != nil {
		t.Fatalf("BindList cards: %v", err)
	}
	if _, err := b.BindList(byID(t, root, "host"), []string{"p1"}, ""); err != nil {
		t.Fatalf("BindList host: %v", err)
	}

	want := `<div class="t-card">x</div><div class="t-card">y</div><div id="host"><p>p1</p></div>`
	if diff := cmp.Diff(want, testsupport.Body(t, root)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}
