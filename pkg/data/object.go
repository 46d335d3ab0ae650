package data

// Object is a string-keyed mapping that remembers insertion order. Column
// headers of column-major tables and tree-shaped list data depend on that
// order, which Go maps do not keep.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an object from alternating key/value arguments. Non-string
// keys and a trailing key without value are ignored.
func ObjectOf(kv ...any) *Object {
	obj := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		obj.Set(key, kv[i+1])
	}
	return obj
}

// Set stores value under key. New keys go to the end; existing keys keep
// their position.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Each calls fn for every entry in order.
func (o *Object) Each(fn func(key string, value any)) {
	if o == nil {
		return
	}
	for _, key := range o.keys {
		fn(key, o.values[key])
	}
}

// Lookup implements Context with exact-then-dotted resolution.
func (o *Object) Lookup(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	return lookupPath(o, key)
}

// Map converts the object (recursively) into plain Go maps and slices.
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.keys))
	for _, key := range o.keys {
		out[key] = plain(o.values[key])
	}
	return out
}

func plain(v any) any {
	switch typed := v.(type) {
	case *Object:
		return typed.Map()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
