package manifest

import (
	"fmt"

	"github.com/edwinsyarief/kumiai"
)

// Compiled maps the names of a manifest to the ids and type infos they were
// given in a Domain.
type Compiled struct {
	Domain    *kumiai.Domain
	Mixins    map[string]kumiai.MixinID
	Messages  map[string]kumiai.MessageID
	Classes   map[string]kumiai.TypeClassID
	Types     map[string]*kumiai.TypeInfo
	TypeNames []string // declaration order
}

// Apply registers the manifest in d and composes every declared type. The
// manifest must be valid and d must not have built type infos yet.
func (m *Manifest) Apply(d *kumiai.Domain) (*Compiled, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	c := &Compiled{
		Domain:    d,
		Mixins:    make(map[string]kumiai.MixinID, len(m.Mixins)),
		Messages:  make(map[string]kumiai.MessageID, len(m.Messages)),
		Classes:   make(map[string]kumiai.TypeClassID, len(m.Classes)),
		Types:     make(map[string]*kumiai.TypeInfo, len(m.Types)),
		TypeNames: make([]string, 0, len(m.Types)),
	}
	for _, decl := range m.Mixins {
		c.Mixins[decl.Name] = d.RegisterMixinFactory(decl.Name, nil)
	}
	for _, decl := range m.Messages {
		kind, _ := kumiai.ParseMessageKind(decl.Kind)
		var opts []kumiai.MessageOption
		if decl.Default != nil {
			opts = append(opts, kumiai.WithDefault(constant(decl.Default)))
		}
		c.Messages[decl.Name] = d.RegisterMessage(decl.Name, kind, opts...)
	}
	for _, b := range m.Bindings {
		result := b.Result
		if result == nil {
			result = b.Mixin
		}
		d.Bind(c.Mixins[b.Mixin], c.Messages[b.Message], b.Bid, constant(result))
	}
	for _, decl := range m.Classes {
		c.Classes[decl.Name] = d.RegisterTypeClass(decl.Name, c.predicate(decl))
	}
	for _, decl := range m.Types {
		c.Types[decl.Name] = d.Compose(c.ids(decl.Mixins)...)
		c.TypeNames = append(c.TypeNames, decl.Name)
	}
	return c, nil
}

// NewObject creates an object of a declared type.
func (c *Compiled) NewObject(typeName string) (*kumiai.Object, error) {
	t, ok := c.Types[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	return c.Domain.NewObject(t.Mixins()...), nil
}

func (c *Compiled) ids(names []string) []kumiai.MixinID {
	ids := make([]kumiai.MixinID, len(names))
	for i, name := range names {
		ids[i] = c.Mixins[name]
	}
	return ids
}

func (c *Compiled) predicate(decl ClassDecl) func(*kumiai.MixinCollection) bool {
	base := kumiai.Requiring(c.ids(decl.All), c.ids(decl.None))
	anyOf := c.ids(decl.Any)
	return func(mc *kumiai.MixinCollection) bool {
		return base(mc) && (len(anyOf) == 0 || mc.HasAny(anyOf...))
	}
}

// constant returns a Caller that always returns v.
func constant(v any) kumiai.Caller {
	return kumiai.CallerFunc(func(*kumiai.Call) any { return v })
}
