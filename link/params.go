package link

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"sort"

	"github.com/spf13/cast"
)

// Params is an ordered set of link parameters. Values may be scalars
// (anything convertible to a string) or slices and arrays of them.
//
// The zero value is an empty set ready to use.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// Pairs builds a parameter set from alternating keys and values:
//
//	link.Pairs("id", 7, "tag", []string{"a", "b"})
//
// It panics if the number of arguments is odd or a key is not a string.
func Pairs(pairs ...any) *Params {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("link: number of parameters must be multiple of 2, got %v", pairs))
	}
	p := NewParams()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("link: parameter name must be a string, got %T", pairs[i]))
		}
		p.Set(key, pairs[i+1])
	}
	return p
}

// FromValues builds a parameter set from url.Values. Keys are ordered
// alphabetically.
func FromValues(v url.Values) *Params {
	p := NewParams()
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, v[k])
	}
	return p
}

// Set assigns value to key. An existing key keeps its position.
func (p *Params) Set(key string, value any) *Params {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Add appends value to the values of key.
func (p *Params) Add(key string, value any) *Params {
	prev, ok := p.Get(key)
	if !ok || prev == nil {
		return p.Set(key, value)
	}
	list := append(toAnySlice(prev), toAnySlice(value)...)
	return p.Set(key, list)
}

// Get returns the raw value stored for key.
func (p *Params) Get(key string) (any, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// normalizedParams is the non-empty, stringified form of Params.
type normalizedParams struct {
	keys   []string
	values map[string][]string
	// multi reports whether any key carries more than one value.
	multi bool
}

// normalize stringifies every value, dropping keys whose value is nil, an
// empty collection, or the empty string.
func (p *Params) normalize() normalizedParams {
	n := normalizedParams{values: make(map[string][]string, p.Len())}
	if p == nil {
		return n
	}
	for _, k := range p.keys {
		list := stringValues(p.values[k])
		if len(list) == 0 {
			continue
		}
		if len(list) > 1 {
			n.multi = true
		}
		n.keys = append(n.keys, k)
		n.values[k] = list
	}
	return n
}

// first returns the first value of key.
func (n normalizedParams) first(key string) (string, bool) {
	list, ok := n.values[key]
	if !ok {
		return "", false
	}
	return list[0], true
}

// stringValues converts a scalar, slice or array into its non-empty string
// values.
func stringValues(v any) []string {
	if v == nil {
		return nil
	}

	switch tv := v.(type) {
	case string:
		if tv == "" {
			return nil
		}
		return []string{tv}
	case []string:
		out := make([]string, 0, len(tv))
		for _, s := range tv {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []byte:
		return stringValues(string(tv))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s := stringValue(rv.Index(i).Interface()); s != "" {
				out = append(out, s)
			}
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}

	if s := stringValue(v); s != "" {
		return []string{s}
	}
	return nil
}

// stringValue converts a scalar to a string. Nil pointers and interfaces,
// typed or not, convert to "".
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if rv := reflect.ValueOf(v); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func toAnySlice(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	if _, ok := v.([]byte); ok {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
