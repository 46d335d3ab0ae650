package dom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-domtemplate/pkg/dom"
	"github.com/goliatone/go-domtemplate/pkg/testsupport"
)

func TestPath(t *testing.T) {
	root := testsupport.MustParse(t, `<ul><li>a</li><li id="b">b</li></ul><p id="p">x</p><div><span id="s"></span></div><div></div>`)

	tests := []struct {
		id   string
		want string
	}{
		{id: "b", want: "/html/body/ul/li[2]"},
		{id: "p", want: "/html/body/p"},
		{id: "s", want: "/html/body/div[1]/span"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			node := dom.FindByID(root, tt.id)
			if node == nil {
				t.Fatalf("element #%s not found", tt.id)
			}
			if got := dom.Path(node); got != tt.want {
				t.Fatalf("Path() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := dom.Path(root); got != "" {
		t.Fatalf("document path = %q, want empty", got)
	}
}

func TestCloneMapsEveryNode(t *testing.T) {
	root := testsupport.MustParse(t, `<div id="d"><p>one</p><p>two</p></div>`)
	div := dom.FindByID(root, "d")

	copied, mapping := dom.Clone(div)
	if copied == div || copied.Parent != nil {
		t.Fatalf("clone must be a detached copy")
	}
	if got, want := len(mapping), 5; got != want {
		t.Fatalf("mapping size = %d, want %d", got, want)
	}
	if mapping[div.FirstChild] != copied.FirstChild {
		t.Fatalf("mapping does not relate first child to its copy")
	}

	dom.SetAttr(copied, "id", "copy")
	if value, _ := dom.Attr(div, "id"); value != "d" {
		t.Fatalf("original attribute changed to %q", value)
	}
}

func TestInsertAt(t *testing.T) {
	root := testsupport.MustParse(t, `<ul id="l"><li>a</li><li>c</li></ul>`)
	list := dom.FindByID(root, "l")

	b := dom.NewElement("li")
	dom.SetTextContent(b, "b")
	dom.InsertAt(list, 1, b)

	d := dom.NewElement("li")
	dom.SetTextContent(d, "d")
	dom.InsertAt(list, 10, d)

	want := `<li>a</li><li>b</li><li>c</li><li>d</li>`
	if diff := cmp.Diff(want, dom.InnerHTML(list)); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestClasses(t *testing.T) {
	node := dom.NewElement("div")

	dom.AddClass(node, "a")
	dom.AddClass(node, "b")
	dom.AddClass(node, "a")
	dom.RemoveClass(node, "a")
	dom.AddClass(node, "c")

	if diff := cmp.Diff([]string{"b", "c"}, dom.Classes(node)); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue(t *testing.T) {
	root := testsupport.MustParse(t, `<input id="i"><textarea id="t">old</textarea>`+
		`<select id="s"><option value="1" selected>One</option><option>Two</option></select>`)

	dom.SetValue(dom.FindByID(root, "i"), "typed")
	dom.SetValue(dom.FindByID(root, "t"), "new")
	dom.SetValue(dom.FindByID(root, "s"), "Two")

	got := map[string]string{
		"input":    dom.Value(dom.FindByID(root, "i")),
		"textarea": dom.Value(dom.FindByID(root, "t")),
		"select":   dom.Value(dom.FindByID(root, "s")),
	}
	want := map[string]string{"input": "typed", "textarea": "new", "select": "Two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if dom.HasAttr(dom.FindByTag(root, "option")[0], "selected") {
		t.Fatalf("previous selection should be cleared")
	}
}

func TestSetInnerHTML(t *testing.T) {
	root := testsupport.MustParse(t, `<div id="d">old</div>`)
	div := dom.FindByID(root, "d")

	if err := dom.SetInnerHTML(div, `<b>bold</b> text`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	if diff := cmp.Diff(`<b>bold</b> text`, dom.InnerHTML(div)); diff != "" {
		t.Fatalf("inner html mismatch (-want +got):\n%s", diff)
	}
	if got := dom.TextContent(div); got != "bold text" {
		t.Fatalf("TextContent() = %q", got)
	}
}

func TestTableSections(t *testing.T) {
	root := testsupport.MustParse(t, `<table id="t"><caption>c</caption><tfoot><tr><td>f</td></tr></tfoot></table>`)
	table := dom.FindByID(root, "t")

	if dom.THead(table) != nil {
		t.Fatalf("unexpected thead")
	}
	head := dom.CreateTHead(table)
	body := dom.CreateTBody(table)
	dom.AppendCell(dom.AppendRow(head), "th", "h")
	dom.AppendCell(dom.AppendRow(body), "td", "b")

	var order []string
	for _, child := range dom.ElementChildren(table) {
		order = append(order, child.Data)
	}
	if diff := cmp.Diff([]string{"caption", "thead", "tbody", "tfoot"}, order); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
	if got := len(dom.Cells(dom.Rows(head)[0])); got != 1 {
		t.Fatalf("header cells = %d", got)
	}
}

func TestFindAllIncludesRoot(t *testing.T) {
	root := testsupport.MustParse(t, `<div id="d" data-bind:text="x"><span data-bind:class="y"></span></div>`)
	div := dom.FindByID(root, "d")

	found := dom.FindAll(div, dom.HasAttrPrefix("data-bind"))
	if len(found) != 2 || found[0] != div {
		t.Fatalf("FindAll() = %d nodes, want root first then child", len(found))
	}
	if closest := dom.Closest(found[1], dom.TagIs("div")); closest != div {
		t.Fatalf("Closest() did not find the enclosing div")
	}
	if !dom.Contains(div, found[1]) || dom.Contains(found[1], div) {
		t.Fatalf("Contains() relation is wrong")
	}
	if el := dom.DocumentElement(root); el == nil || el.Data != "html" {
		t.Fatalf("DocumentElement() = %v", el)
	}
}
