// Package data holds the bind-time view of caller data: contexts that resolve
// keys, ordered objects, and the conversions (string, truthiness, iteration)
// the binding engine applies to looked-up values.
package data

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Context resolves keys for one bind call. Lookup reports false for absent
// keys; an empty string is a present value.
type Context interface {
	Lookup(key string) (any, bool)
}

// Map is a Context over a plain Go map.
type Map map[string]any

// Lookup implements Context with exact-then-dotted resolution.
func (m Map) Lookup(key string) (any, bool) {
	return lookupPath(map[string]any(m), key)
}

// Scalar is a Context holding a single value. Only the empty key resolves,
// which is how `data-bind:text` with no key binds list items like strings.
type Scalar struct {
	Value any
}

// Lookup implements Context.
func (s Scalar) Lookup(key string) (any, bool) {
	if key == "" {
		return s.Value, true
	}
	return nil, false
}

// Pair is a Context for bindKeyValue: a single key with its value.
type Pair struct {
	Key   string
	Value any
}

// Lookup implements Context. Dotted keys traverse into the value.
func (p Pair) Lookup(key string) (any, bool) {
	if key == p.Key {
		return p.Value, true
	}
	if rest, ok := strings.CutPrefix(key, p.Key+"."); ok {
		return lookupPath(p.Value, rest)
	}
	return nil, false
}

// Layered resolves keys against each context in turn, first hit wins.
type Layered []Context

// Lookup implements Context.
func (l Layered) Lookup(key string) (any, bool) {
	for _, ctx := range l {
		if ctx == nil {
			continue
		}
		if value, ok := ctx.Lookup(key); ok {
			return value, true
		}
	}
	return nil, false
}

// From adapts an arbitrary value into a Context. Maps and objects resolve
// their keys, slices and arrays are normalised to objects keyed by index, and
// anything else becomes a Scalar.
func From(v any) Context {
	switch typed := v.(type) {
	case nil:
		return Map(nil)
	case Context:
		return typed
	case map[string]any:
		return Map(typed)
	case map[string]string:
		out := make(Map, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar{Value: v}
		}
		obj := NewObject()
		for i := 0; i < rv.Len(); i++ {
			obj.Set(strconv.Itoa(i), rv.Index(i).Interface())
		}
		return obj
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar{Value: v}
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	}
	return Scalar{Value: v}
}

// Lookup resolves key against ctx, treating a nil context as empty.
func Lookup(ctx Context, key string) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	return ctx.Lookup(key)
}

func lookupPath(root any, path string) (any, bool) {
	if root == nil {
		return nil, false
	}

	// Prefer exact match for dotted keys ("cta.headline" stored flat).
	if v, ok := child(root, path); ok {
		return v, true
	}
	if path == "" || !strings.Contains(path, ".") {
		return nil, false
	}

	current := root
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		next, ok := child(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func child(current any, key string) (any, bool) {
	switch typed := current.(type) {
	case map[string]any:
		v, ok := typed[key]
		return v, ok
	case Map:
		v, ok := typed[key]
		return v, ok
	case map[string]string:
		v, ok := typed[key]
		return v, ok
	case *Object:
		return typed.Get(key)
	case Scalar:
		return typed.Lookup(key)
	}

	rv := reflect.ValueOf(current)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= rv.Len() {
			return nil, false
		}
		return rv.Index(index).Interface(), true
	}
	return nil, false
}

// Item is one entry of an iterable value.
type Item struct {
	// Key is the map/object key, or the decimal index for sequences.
	Key string
	// Keyed is true when the entry came from a string-keyed container.
	Keyed bool
	Value any
}

// Items lists the entries of an iterable value: slices, arrays, *Object and
// string-keyed maps (in sorted key order). Strings and byte slices are not
// iterable.
func Items(v any) ([]Item, bool) {
	switch typed := v.(type) {
	case nil, string, []byte:
		return nil, false
	case *Object:
		out := make([]Item, 0, typed.Len())
		typed.Each(func(key string, value any) {
			out = append(out, Item{Key: key, Keyed: true, Value: value})
		})
		return out, true
	case []any:
		out := make([]Item, len(typed))
		for i, value := range typed {
			out[i] = Item{Key: strconv.Itoa(i), Value: value}
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Item, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Item{Key: strconv.Itoa(i), Value: rv.Index(i).Interface()}
		}
		return out, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		out := make([]Item, 0, len(keys))
		for _, key := range keys {
			value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
			out = append(out, Item{Key: key, Keyed: true, Value: value.Interface()})
		}
		return out, true
	}
	return nil, false
}

// IsIterable reports whether Items accepts v.
func IsIterable(v any) bool {
	_, ok := Items(v)
	return ok
}

// IsKeyed reports whether v is a string-keyed container (map or *Object).
func IsKeyed(v any) bool {
	if _, ok := v.(*Object); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}
