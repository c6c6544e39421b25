package frontmatter

import "strings"

// Kind discriminates the closed set of header value types.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindList
)

// Value is a tagged header value: a plain string, a boolean, or a flat list
// of strings. No nested structures, no multi-line scalars.
type Value struct {
	kind Kind
	str  string
	b    bool
	list []string
}

// String wraps a scalar string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// List wraps a flat list of strings.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the scalar form of the value. Lists are joined with ", ".
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return v.str
	}
}

// Bool returns the boolean payload; false for non-bool values.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// List returns a copy of the list payload. A scalar value yields a
// single-element list, except blank scalars which yield nil.
func (v Value) List() []string {
	switch v.kind {
	case KindList:
		return append([]string(nil), v.list...)
	default:
		s := strings.TrimSpace(v.Text())
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// IsBlank reports whether the value carries no usable content.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindBool:
		return false
	case KindList:
		return len(v.list) == 0
	default:
		return strings.TrimSpace(v.str) == ""
	}
}

// Equal compares two values by kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return v.str == o.str
	}
}

// Field is one header entry.
type Field struct {
	Key   string
	Value Value
}

// Header is an ordered key/value mapping with unique keys. Order is preserved
// for round-trip fidelity only and carries no meaning.
type Header struct {
	fields []Field
}

// Set stores a value under key, replacing any existing entry in place.
func (h *Header) Set(key string, v Value) {
	for i := range h.fields {
		if h.fields[i].Key == key {
			h.fields[i].Value = v
			return
		}
	}
	h.fields = append(h.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (h *Header) Get(key string) (Value, bool) {
	for _, f := range h.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// GetString returns the scalar text stored under key, or "" when absent.
func (h *Header) GetString(key string) string {
	v, ok := h.Get(key)
	if !ok {
		return ""
	}
	return v.Text()
}

// GetList returns the list stored under key, normalizing scalars to
// single-element lists. Absent keys yield nil.
func (h *Header) GetList(key string) []string {
	v, ok := h.Get(key)
	if !ok {
		return nil
	}
	return v.List()
}

// Has reports whether key is present.
func (h *Header) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Delete removes key if present.
func (h *Header) Delete(key string) {
	for i := range h.fields {
		if h.fields[i].Key == key {
			h.fields = append(h.fields[:i], h.fields[i+1:]...)
			return
		}
	}
}

// AppendList appends items to the list under key, creating it if needed.
// A pre-existing scalar becomes the first list element. Blank items are
// pruned; items already present are not duplicated.
func (h *Header) AppendList(key string, items ...string) {
	existing := h.GetList(key)
	out := make([]string, 0, len(existing)+len(items))
	seen := make(map[string]struct{}, len(existing)+len(items))
	add := func(s string) {
		if strings.TrimSpace(s) == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range existing {
		add(s)
	}
	for _, s := range items {
		add(s)
	}
	h.Set(key, List(out...))
}

// Len returns the number of header entries.
func (h *Header) Len() int { return len(h.fields) }

// Fields returns a copy of the entries in order.
func (h *Header) Fields() []Field {
	return append([]Field(nil), h.fields...)
}
