package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-domtemplate/pkg/dom"
)

var betweenTags = regexp.MustCompile(`>\s+<`)

// MustParse parses markup into a document node, failing the test on error.
func MustParse(t testing.TB, markup string) *html.Node {
	t.Helper()

	root, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return root
}

// MustParseFile parses an HTML fixture from disk.
func MustParseFile(t testing.TB, path string) *html.Node {
	t.Helper()
	return MustParse(t, MustReadFixture(t, path))
}

// MustReadFixture reads a fixture and returns its content.
func MustReadFixture(t testing.TB, path string) string {
	t.Helper()

	raw, err := ReadFixture(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

// ReadFixture reads a fixture without requiring testing.T, for setup code.
func ReadFixture(path string) (string, error) {
	if path == "" {
		return "", errors.New("testsupport: fixture path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return string(raw), nil
}

// Compact drops the whitespace between tags and around the markup so
// rendered trees compare independently of fixture indentation.
func Compact(markup string) string {
	return betweenTags.ReplaceAllString(strings.TrimSpace(markup), "><")
}

// Body renders the compacted inner HTML of the document's <body>.
func Body(t testing.TB, root *html.Node) string {
	t.Helper()

	body := dom.FindFirst(root, dom.TagIs("body"))
	if body == nil {
		t.Fatalf("document has no body")
	}
	return Compact(dom.InnerHTML(body))
}

// AssertHTML compares two markup strings after compacting both.
func AssertHTML(t testing.TB, want, got string) {
	t.Helper()

	if diff := cmp.Diff(Compact(want), Compact(got)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

// AssertGolden compares got with the golden file at path. With UPDATE_GOLDENS
// set the golden is rewritten instead.
func AssertGolden(t testing.TB, path, got string) {
	t.Helper()

	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	AssertHTML(t, MustReadFixture(t, path), got)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
