package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domtemplate "github.com/goliatone/go-domtemplate"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const page = `<!DOCTYPE html><html><head></head><body>` +
	`<h1 data-bind:text="title">Title</h1>` +
	`<p>Hello, {{name ?? you}}!</p>` +
	`<ul id="items"><li data-template="item" data-bind:text>-</li></ul>` +
	`<table id="people"><thead><tr><th>id</th><th>name</th></tr></thead><tbody></tbody></table>` +
	`</body></html>`

func TestBindCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "data.json", `{"title": "Welcome", "name": "Ada"}`)

	out, err := run(t, "bind", "-i", input, "-d", dataFile)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Welcome</h1>")
	assert.Contains(t, out, "<p>Hello, Ada!</p>")
}

func TestBindCommand_WritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "data.yaml", "title: From YAML\n")
	output := filepath.Join(dir, "out.html")

	out, err := run(t, "bind", "-i", input, "-d", dataFile, "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(written), "<h1>From YAML</h1>")
	assert.Contains(t, string(written), "<p>Hello, you!</p>")
}

func TestBindCommand_RequiresData(t *testing.T) {
	input := writeFile(t, t.TempDir(), "page.html", page)

	_, err := run(t, "bind", "-i", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is required")
}

func TestBindCommand_Strict(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "data.json", `{"name": "Ada"}`)

	_, err := run(t, "bind", "-i", input, "-d", dataFile, "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domtemplate.ErrBoundDataNotSet))
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "rows.json", `["one", "two"]`)

	out, err := run(t, "list", "-i", input, "-d", dataFile, "--template", "item")
	require.NoError(t, err)

	assert.Contains(t, out, `<ul id="items"><li class="t-item">one</li><li class="t-item">two</li></ul>`)
}

func TestListCommand_UnknownTarget(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "rows.json", `["one"]`)

	_, err := run(t, "list", "-i", input, "-d", dataFile, "--target", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no element with id "missing"`)
}

func TestTableCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "table.json", `{"id": [1, 2], "name": ["Ada", "Grace"]}`)

	out, err := run(t, "table", "-i", input, "-d", dataFile, "--target", "people")
	require.NoError(t, err)

	assert.Contains(t, out, "<tbody><tr><td>1</td><td>Ada</td></tr><tr><td>2</td><td>Grace</td></tr></tbody>")
}

func TestValidateCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "page.html", page)

	out, err := run(t, "validate", "-i", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domtemplate.ErrBoundDataNotSet))
	assert.Contains(t, out, `/html/body/h1 data-bind:text="title"`)
}

func TestValidateCommand_WithData(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", page)
	dataFile := writeFile(t, dir, "data.json", `{"title": "Welcome"}`)

	out, err := run(t, "validate", "-i", input, "-d", dataFile)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestTemplatesCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "page.html", page)

	out, err := run(t, "templates", "-i", input)
	require.NoError(t, err)
	assert.Equal(t, "item\n", out)
}

func TestRootCommandMetadata(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "domtemplate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	for _, name := range []string{"bind", "list", "table", "validate", "templates"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
