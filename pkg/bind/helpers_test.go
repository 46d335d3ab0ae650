package bind_test

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/internal/testutil"
	"github.com/goliatone/go-domtemplate/pkg/bind"
	"github.com/goliatone/go-domtemplate/pkg/template"
	"github.com/goliatone/go-domtemplate/pkg/testsupport"
)

// setup parses markup, extracts its templates and returns a binder over them.
func setup(t *testing.T, markup string, opts ...bind.Option) (*html.Node, *bind.Binder) {
	t.Helper()

	root := testsupport.MustParse(t, markup)
	logger := testutil.NewTestLogger(t)
	registry := template.NewRegistry(template.WithLogger(logger))
	if _, err := registry.ExtractAll(root); err != nil {
		t.Fatalf("extract templates: %v", err)
	}
	opts = append([]bind.Option{bind.WithLogger(logger), bind.WithRegistry(registry)}, opts...)
	return root, bind.NewBinder(opts...)
}
