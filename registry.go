package kumiai

import "reflect"

// binding is one (mixin, message) implementation record. It owns the caller;
// type infos only reference it.
type binding struct {
	caller Caller
	bid    int
	msg    MessageID
}

// mixinInfo holds what the domain knows about a registered mixin.
type mixinInfo struct {
	typ      reflect.Type // nil for factory mixins
	newData  func() any
	name     string
	bindings []binding // in bind order
}

// bindingFor returns the mixin's binding for msg, if any.
func (m *mixinInfo) bindingFor(msg MessageID) (binding, bool) {
	for _, b := range m.bindings {
		if b.msg == msg {
			return b, true
		}
	}
	return binding{}, false
}

// messageInfo holds what the domain knows about a registered message.
type messageInfo struct {
	def  Caller
	name string
	kind MessageKind
}

// mixinRegistry interns mixin names and Go types to dense ids.
type mixinRegistry struct {
	infos  []mixinInfo
	byType map[reflect.Type]MixinID
	byName map[string]MixinID
}

// messageRegistry interns message names to dense ids.
type messageRegistry struct {
	infos  []messageInfo
	byName map[string]MessageID
}

// typeRegistry interns one type info per distinct mixin mask.
type typeRegistry struct {
	byMask map[bitmask256]*TypeInfo
	list   []*TypeInfo // creation order
	sealed bitmask256  // mixins that are part of a built type info
}

// typeClassRegistry holds the registered type class predicates.
type typeClassRegistry struct {
	classes []typeClass
	byName  map[string]TypeClassID
}
