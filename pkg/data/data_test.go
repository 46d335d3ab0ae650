package data_test

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-domtemplate/pkg/data"
)

func TestLookup(t *testing.T) {
	ctx := data.Map{
		"name":         "Ada",
		"cta.headline": "flat wins",
		"cta":          map[string]any{"headline": "nested"},
		"author":       map[string]any{"name": "Grace", "tags": []any{"x", "y"}},
		"empty":        "",
	}

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{key: "name", want: "Ada", wantOK: true},
		{key: "cta.headline", want: "flat wins", wantOK: true},
		{key: "author.name", want: "Grace", wantOK: true},
		{key: "author.tags.1", want: "y", wantOK: true},
		{key: "empty", want: "", wantOK: true},
		{key: "missing"},
		{key: "author.missing"},
		{key: "author..name"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ctx.Lookup(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Lookup(%q) mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}
}

func TestContexts(t *testing.T) {
	if v, ok := (data.Scalar{Value: 7}).Lookup(""); !ok || v != 7 {
		t.Fatalf("scalar empty key = %v, %v", v, ok)
	}
	if _, ok := (data.Scalar{Value: 7}).Lookup("x"); ok {
		t.Fatalf("scalar resolved a named key")
	}

	pair := data.Pair{Key: "user", Value: map[string]any{"name": "Ada"}}
	if v, ok := pair.Lookup("user.name"); !ok || v != "Ada" {
		t.Fatalf("pair dotted lookup = %v, %v", v, ok)
	}
	if _, ok := pair.Lookup("username"); ok {
		t.Fatalf("pair must not match on a bare prefix")
	}

	layered := data.Layered{data.Scalar{Value: "key"}, nil, data.Map{"a": 1}}
	if v, _ := layered.Lookup(""); v != "key" {
		t.Fatalf("layered empty key = %v", v)
	}
	if v, _ := layered.Lookup("a"); v != 1 {
		t.Fatalf("layered a = %v", v)
	}
	if _, ok := data.Lookup(nil, "a"); ok {
		t.Fatalf("nil context resolved a key")
	}
}

func TestFrom(t *testing.T) {
	seq := data.From([]string{"a", "b"})
	if v, ok := seq.Lookup("1"); !ok || v != "b" {
		t.Fatalf("sequence index lookup = %v, %v", v, ok)
	}

	typed := data.From(map[string]int{"n": 3})
	if v, ok := typed.Lookup("n"); !ok || v != 3 {
		t.Fatalf("typed map lookup = %v, %v", v, ok)
	}

	scalar := data.From(42)
	if v, ok := scalar.Lookup(""); !ok || v != 42 {
		t.Fatalf("scalar lookup = %v, %v", v, ok)
	}

	obj := data.ObjectOf("a", 1)
	if data.From(obj) != data.Context(obj) {
		t.Fatalf("objects should pass through")
	}
}

func TestObjectKeepsOrder(t *testing.T) {
	obj := data.NewObject().Set("z", 1).Set("a", 2).Set("m", 3).Set("z", 4)

	if diff := cmp.Diff([]string{"z", "a", "m"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.Get("z"); v != 4 {
		t.Fatalf("z = %v, want 4", v)
	}
}

func TestItems(t *testing.T) {
	items, ok := data.Items(map[string]any{"b": 2, "a": 1})
	if !ok {
		t.Fatalf("map should be iterable")
	}
	want := []data.Item{
		{Key: "a", Keyed: true, Value: 1},
		{Key: "b", Keyed: true, Value: 2},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	for _, v := range []any{nil, "text", []byte("raw"), 3} {
		if data.IsIterable(v) {
			t.Errorf("%T should not be iterable", v)
		}
	}
	if !data.IsKeyed(data.NewObject()) || data.IsKeyed([]any{}) {
		t.Fatalf("IsKeyed classification is wrong")
	}
}

type count int64

type ratio float32

func TestStringAndTruthy(t *testing.T) {
	strs := map[string]any{
		"":      nil,
		"true":  true,
		"12":    12,
		"1.5":   1.5,
		"hello": "hello",
	}
	for want, in := range strs {
		if got := data.String(in); got != want {
			t.Errorf("String(%v) = %q, want %q", in, got, want)
		}
	}

	falsy := []any{nil, false, 0, 0.0, "", "  ", "0", "false", []any{}, map[string]any{}, data.NewObject(),
		time.Duration(0), count(0), ratio(0), int8(0), uint(0)}
	for _, v := range falsy {
		if data.Truthy(v) {
			t.Errorf("Truthy(%#v) = true", v)
		}
	}
	truthy := []any{true, 1, "yes", []any{1}, data.ObjectOf("a", 1),
		time.Second, count(3), ratio(0.5)}
	for _, v := range truthy {
		if !data.Truthy(v) {
			t.Errorf("Truthy(%#v) = false", v)
		}
	}
}

func TestLoadKeepsKeyOrder(t *testing.T) {
	value, err := data.Load(strings.NewReader(`{"zeta": [1, 2], "alpha": {"name": "Ada", "active": true}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	obj, ok := value.(*data.Object)
	if !ok {
		t.Fatalf("Load() = %T, want *data.Object", value)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"zeta":  []any{1, 2},
		"alpha": map[string]any{"name": "Ada", "active": true},
	}
	if diff := cmp.Diff(want, obj.Map()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"rows.yaml":  {Data: []byte("- one\n- two\n")},
		"empty.yaml": {Data: []byte("  \n")},
	}

	value, err := data.LoadFS(fsys, "rows.yaml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]any{"one", "two"}, value); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	if _, err := data.LoadFS(fsys, "empty.yaml"); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if _, err := data.Load(strings.NewReader("{unclosed")); err == nil {
		t.Fatalf("expected parse error")
	}
}
