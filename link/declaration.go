package link

import (
	"reflect"
)

// LinkSpec is the declarative link data of a controller.
type LinkSpec struct {
	// Pattern holds one or more semicolon-separated pattern alternatives,
	// e.g. "user;user/{id}".
	Pattern string `yaml:"pattern" toml:"pattern" config:"pattern"`

	// Name is the logical link name. Defaults to the nearest ancestor's
	// name, then to the controller's simple type name.
	Name string `yaml:"name" toml:"name" config:"name"`

	// Action is the default action handed to the controller when a request
	// carries no explicit action.
	Action string `yaml:"action" toml:"action" config:"action"`

	// SkipInterceptors names interceptors that must not rewrite links
	// generated from this spec.
	SkipInterceptors []string `yaml:"skip_interceptors" toml:"skip_interceptors" config:"skip_interceptors"`
}

// Skips reports whether the interceptor called name is skipped.
func (s LinkSpec) Skips(name string) bool {
	for _, n := range s.SkipInterceptors {
		if n == name {
			return true
		}
	}
	return false
}

// Declaration binds link specs to a controller type. A declaration without
// specs of its own uses those of its nearest ancestor.
type Declaration struct {
	Type   reflect.Type
	Parent *Declaration
	Links  []LinkSpec
}

// Declare creates a declaration for the controller type of v.
func Declare(v any, links ...LinkSpec) *Declaration {
	return &Declaration{Type: TypeOf(v), Links: links}
}

// Extend creates a child declaration for the controller type of v that
// inherits from d.
func (d *Declaration) Extend(v any, links ...LinkSpec) *Declaration {
	return &Declaration{Type: TypeOf(v), Parent: d, Links: links}
}

// effectiveLinks returns the specs of the nearest declaration in the
// ancestor chain that has any, with names resolved.
func (d *Declaration) effectiveLinks() []LinkSpec {
	for cur := d; cur != nil; cur = cur.Parent {
		if len(cur.Links) == 0 {
			continue
		}
		links := make([]LinkSpec, len(cur.Links))
		for i, l := range cur.Links {
			if l.Name == "" {
				l.Name = d.defaultName()
			}
			links[i] = l
		}
		return links
	}
	return nil
}

// defaultName walks up the chain for an explicitly named spec and falls back
// to the simple type name of the controller.
func (d *Declaration) defaultName() string {
	for cur := d.Parent; cur != nil; cur = cur.Parent {
		for _, l := range cur.Links {
			if l.Name != "" {
				return l.Name
			}
		}
	}
	return d.Type.Name()
}

// TypeOf returns the controller identity of v. Pointer types are
// dereferenced, and a reflect.Type is returned as is.
func TypeOf(v any) reflect.Type {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
