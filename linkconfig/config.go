package linkconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/pagelink/link"
)

var (
	// ErrUnsupportedFormat is returned by Load for files that are neither
	// YAML nor TOML.
	ErrUnsupportedFormat = errors.New("linkconfig: unsupported file format")

	// ErrUnknownController is returned by Apply when a manifest key has no
	// Go type bound to it.
	ErrUnknownController = errors.New("linkconfig: unknown controller")
)

// File is a decoded link manifest.
type File struct {
	ContextPath            string       `config:"context_path"`
	EscapeQuery            bool         `config:"escape_query"`
	InterceptorConcurrency int64        `config:"interceptor_concurrency"`
	Controllers            []Controller `config:"controllers"`
}

// Controller is one manifest entry. Extends names the key of another entry
// whose links are inherited when Links is empty. Abstract entries are only
// inherited from and need no Go type.
type Controller struct {
	Key      string          `config:"key"`
	Extends  string          `config:"extends"`
	Abstract bool            `config:"abstract"`
	Links    []link.LinkSpec `config:"links"`
}

// Load reads the manifest at path. The format is chosen by the file
// extension: .yaml, .yml or .toml.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("linkconfig: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	f, err := Parse(data, strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

// Parse decodes a manifest in the given format ("yaml", "yml" or "toml").
func Parse(data []byte, format string) (*File, error) {
	values := map[string]any{}

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("linkconfig: decode yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("linkconfig: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return decode(values)
}

func decode(values map[string]any) (*File, error) {
	f := &File{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           f,
	})
	if err != nil {
		return nil, fmt.Errorf("linkconfig: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return nil, fmt.Errorf("linkconfig: %w", err)
	}
	return f, nil
}

// Config returns the registry settings of the manifest.
func (f *File) Config() link.Config {
	return link.Config{
		ContextPath:            f.ContextPath,
		EscapeQuery:            f.EscapeQuery,
		InterceptorConcurrency: f.InterceptorConcurrency,
	}
}

// Declarations resolves every concrete entry to a declaration for the type
// bound to its key in types. Values in types may be reflect.Type values or
// instances of the controller type.
func (f *File) Declarations(types map[string]any) ([]*link.Declaration, error) {
	entries := make(map[string]*Controller, len(f.Controllers))
	for i := range f.Controllers {
		c := &f.Controllers[i]
		if c.Key == "" {
			return nil, fmt.Errorf("linkconfig: controller %d has no key", i)
		}
		if _, ok := entries[c.Key]; ok {
			return nil, fmt.Errorf("linkconfig: duplicate controller key %q", c.Key)
		}
		entries[c.Key] = c
	}

	resolved := make(map[string]*link.Declaration, len(entries))
	var resolve func(key string, seen map[string]bool) (*link.Declaration, error)
	resolve = func(key string, seen map[string]bool) (*link.Declaration, error) {
		if d, ok := resolved[key]; ok {
			return d, nil
		}
		c := entries[key]
		if seen[key] {
			return nil, fmt.Errorf("linkconfig: inheritance cycle at %q", key)
		}
		seen[key] = true

		v, ok := types[key]
		if (!ok || link.TypeOf(v) == nil) && !c.Abstract {
			return nil, fmt.Errorf("%w: %q", ErrUnknownController, key)
		}

		d := &link.Declaration{Type: link.TypeOf(v), Links: c.Links}
		if c.Extends != "" {
			if _, ok := entries[c.Extends]; !ok {
				return nil, fmt.Errorf("linkconfig: controller %q extends unknown key %q", key, c.Extends)
			}
			parent, err := resolve(c.Extends, seen)
			if err != nil {
				return nil, err
			}
			d.Parent = parent
		}
		resolved[key] = d
		return d, nil
	}

	decls := make([]*link.Declaration, 0, len(f.Controllers))
	for _, c := range f.Controllers {
		d, err := resolve(c.Key, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if !c.Abstract {
			decls = append(decls, d)
		}
	}
	return decls, nil
}

// Apply registers every manifest entry with reg. Entries are registered in
// manifest order; the first failure stops the process and is returned.
func (f *File) Apply(reg *link.Registry, types map[string]any) error {
	decls, err := f.Declarations(types)
	if err != nil {
		return err
	}
	for _, d := range decls {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
