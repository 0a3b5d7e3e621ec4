// Package manifest loads a domain description from TOML and applies it to a
// kumiai.Domain. Configured bindings return constant results, which is enough
// to inspect compositions and exercise dispatch without writing Go code.
package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/edwinsyarief/kumiai"
)

// Manifest is the decoded form of a domain description file.
type Manifest struct {
	Path     string        `toml:"-"`
	Mixins   []MixinDecl   `toml:"mixin"`
	Messages []MessageDecl `toml:"message"`
	Bindings []BindDecl    `toml:"bind"`
	Classes  []ClassDecl   `toml:"class"`
	Types    []TypeDecl    `toml:"type"`
}

// MixinDecl declares a mixin.
type MixinDecl struct {
	Name string `toml:"name"`
}

// MessageDecl declares a message. Kind is "unicast" (default), "multicast" or
// "default". When Default is set, the message gets a default implementation
// returning it.
type MessageDecl struct {
	Default any    `toml:"default"`
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
}

// BindDecl binds a message to a mixin. The bound implementation returns
// Result, or the mixin name when Result is unset.
type BindDecl struct {
	Result  any    `toml:"result"`
	Mixin   string `toml:"mixin"`
	Message string `toml:"message"`
	Bid     int    `toml:"bid"`
}

// ClassDecl declares a type class matching compositions that hold every mixin
// of All, at least one of Any (when non-empty) and none of None.
type ClassDecl struct {
	Name string   `toml:"name"`
	All  []string `toml:"all"`
	Any  []string `toml:"any"`
	None []string `toml:"none"`
}

// TypeDecl names a composition.
type TypeDecl struct {
	Name   string   `toml:"name"`
	Mixins []string `toml:"mixins"`
}

// Load reads and validates a domain description file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m.Path = path
	if err := m.check(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Parse decodes and validates a domain description from a string.
func Parse(text string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(text, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := m.check(meta); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) check(meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return m.Validate()
}

// Validate checks names are unique and every reference resolves.
func (m *Manifest) Validate() error {
	var errs []error
	mixins := make(map[string]bool, len(m.Mixins))
	for _, d := range m.Mixins {
		if d.Name == "" {
			errs = append(errs, errors.New("mixin without name"))
		} else if mixins[d.Name] {
			errs = append(errs, fmt.Errorf("duplicate mixin %q", d.Name))
		}
		mixins[d.Name] = true
	}
	messages := make(map[string]kumiai.MessageKind, len(m.Messages))
	for _, d := range m.Messages {
		kind, err := kumiai.ParseMessageKind(d.Kind)
		switch {
		case d.Name == "":
			errs = append(errs, errors.New("message without name"))
		case err != nil:
			errs = append(errs, fmt.Errorf("message %q: %w", d.Name, err))
		case kind == kumiai.DefaultOnly && d.Default == nil:
			errs = append(errs, fmt.Errorf("message %q: default-only message needs a default", d.Name))
		}
		if _, ok := messages[d.Name]; ok && d.Name != "" {
			errs = append(errs, fmt.Errorf("duplicate message %q", d.Name))
		}
		messages[d.Name] = kind
	}
	bound := make(map[[2]string]bool, len(m.Bindings))
	for _, b := range m.Bindings {
		kind, ok := messages[b.Message]
		switch {
		case !mixins[b.Mixin]:
			errs = append(errs, fmt.Errorf("bind: unknown mixin %q", b.Mixin))
		case !ok:
			errs = append(errs, fmt.Errorf("bind: unknown message %q", b.Message))
		case kind == kumiai.DefaultOnly:
			errs = append(errs, fmt.Errorf("bind: message %q is default-only", b.Message))
		case bound[[2]string{b.Mixin, b.Message}]:
			errs = append(errs, fmt.Errorf("bind: %q already binds %q", b.Mixin, b.Message))
		}
		bound[[2]string{b.Mixin, b.Message}] = true
	}
	classes := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if c.Name == "" {
			errs = append(errs, errors.New("class without name"))
		} else if classes[c.Name] {
			errs = append(errs, fmt.Errorf("duplicate class %q", c.Name))
		}
		classes[c.Name] = true
		for _, name := range slices.Concat(c.All, c.Any, c.None) {
			if !mixins[name] {
				errs = append(errs, fmt.Errorf("class %q: unknown mixin %q", c.Name, name))
			}
		}
	}
	types := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		if t.Name == "" {
			errs = append(errs, errors.New("type without name"))
		} else if types[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate type %q", t.Name))
		}
		types[t.Name] = true
		for _, name := range t.Mixins {
			if !mixins[name] {
				errs = append(errs, fmt.Errorf("type %q: unknown mixin %q", t.Name, name))
			}
		}
	}
	return errors.Join(errs...)
}
