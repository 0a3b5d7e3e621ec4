// Package kumiai implements runtime, composition-based polymorphism.
//
// Objects are not instances of a fixed class but bags of independent mixins
// that can be added or removed after construction. Behavior is invoked
// through messages resolved at runtime against whichever mixins an object
// currently holds.
//
// Features:
// - Dense ids for up to 256 mixins and 512 messages.
// - One immutable, interned TypeInfo per distinct composition.
// - Per-type call tables indexed by MessageID, no hashing on dispatch.
// - Unicast messages with bid-ordered fallback to the next bidder.
// - Multicast messages reduced by a combinator in descending bid order.
// - Type classes matched once per type and cached.
package kumiai

import (
	"fmt"
	"reflect"
	"sync"
)

// Domain owns the registries of mixins, messages and type classes, and the
// interned type infos built from them. All registration must happen through
// a Domain; objects of different domains never share type infos.
//
// A Domain is safe for concurrent use. Registration of messages and bindings
// is expected to finish before the first type info is built.
type Domain struct {
	mixins   mixinRegistry
	messages messageRegistry
	classes  typeClassRegistry
	types    typeRegistry
	mu       sync.RWMutex
}

// NewDomain creates an empty Domain.
//
// Returns:
//   - The newly created Domain.
func NewDomain() *Domain {
	return &Domain{
		mixins: mixinRegistry{
			infos:  make([]mixinInfo, 0, 16),
			byType: make(map[reflect.Type]MixinID, 16),
			byName: make(map[string]MixinID, 16),
		},
		messages: messageRegistry{
			infos:  make([]messageInfo, 0, 16),
			byName: make(map[string]MessageID, 16),
		},
		classes: typeClassRegistry{
			byName: make(map[string]TypeClassID),
		},
		types: typeRegistry{
			byMask: make(map[bitmask256]*TypeInfo),
			list:   make([]*TypeInfo, 0, 16),
		},
	}
}

// RegisterMixin registers the Go type `T` as a mixin and returns its id. The
// mixin is named after the type and its data is created with new(T). If `T`
// is already registered, the existing id is returned.
//
// It panics if the maximum number of mixins is exceeded.
//
// Parameters:
//   - d: The Domain to register the mixin in.
//
// Returns:
//   - The MixinID of `T`.
func RegisterMixin[T any](d *Domain) MixinID {
	t := reflect.TypeFor[T]()
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.mixins.byType[t]; ok {
		return id
	}
	id := d.registerMixinLocked(t.Name(), func() any { return new(T) })
	d.mixins.infos[id].typ = t
	d.mixins.byType[t] = id
	return id
}

// MixinOf returns the MixinID of a type registered with RegisterMixin.
func MixinOf[T any](d *Domain) (MixinID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.mixins.byType[reflect.TypeFor[T]()]
	return id, ok
}

// RegisterMixinFactory registers an untyped mixin. newData creates the data
// of the mixin for each object; it may be nil for mixins without state.
//
// It panics if the name is already taken or the maximum number of mixins is
// exceeded.
func (d *Domain) RegisterMixinFactory(name string, newData func() any) MixinID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registerMixinLocked(name, newData)
}

func (d *Domain) registerMixinLocked(name string, newData func() any) MixinID {
	if _, ok := d.mixins.byName[name]; ok {
		panic(fmt.Sprintf("kumiai: mixin %q already registered", name))
	}
	id := nextID[MixinID]("mixins", len(d.mixins.infos), MaxMixins)
	d.mixins.infos = append(d.mixins.infos, mixinInfo{name: name, newData: newData})
	d.mixins.byName[name] = id
	return id
}

// RegisterMessage registers a message and returns its id.
//
// It panics if the name is already taken, if the maximum number of messages is
// exceeded, if a DefaultOnly message has no default, or if type infos have
// already been built (their call tables could not see the message).
//
// Parameters:
//   - name: The unique message name.
//   - kind: Unicast, Multicast or DefaultOnly.
//   - opts: Options such as WithDefault.
//
// Returns:
//   - The MessageID of the new message.
func (d *Domain) RegisterMessage(name string, kind MessageKind, opts ...MessageOption) MessageID {
	info := messageInfo{name: name, kind: kind}
	for _, opt := range opts {
		opt(&info)
	}
	if kind == DefaultOnly && info.def == nil {
		panic(fmt.Sprintf("kumiai: default-only message %q has no default implementation", name))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.types.list) > 0 {
		panic(fmt.Sprintf("kumiai: cannot register message %q after type infos have been built", name))
	}
	if _, ok := d.messages.byName[name]; ok {
		panic(fmt.Sprintf("kumiai: message %q already registered", name))
	}
	id := nextID[MessageID]("messages", len(d.messages.infos), MaxMessages)
	d.messages.infos = append(d.messages.infos, info)
	d.messages.byName[name] = id
	return id
}

// Bind registers the implementation of a message by a mixin with the given
// bid. Higher bids are dispatched first.
//
// It panics if either id is unknown, if the mixin already binds the message,
// if the message is DefaultOnly, or if the mixin is already part of a built
// type info.
//
// Parameters:
//   - mixin: The implementing mixin.
//   - msg: The implemented message.
//   - bid: The priority of this implementation.
//   - c: The Caller invoked on the mixin's data.
func (d *Domain) Bind(mixin MixinID, msg MessageID, bid int, c Caller) {
	if c == nil {
		panic("kumiai: nil caller")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(mixin) >= len(d.mixins.infos) {
		panic(fmt.Sprintf("kumiai: unknown mixin id %d", mixin))
	}
	if int(msg) >= len(d.messages.infos) {
		panic(fmt.Sprintf("kumiai: unknown message id %d", msg))
	}
	mi := &d.mixins.infos[mixin]
	msgInfo := &d.messages.infos[msg]
	if msgInfo.kind == DefaultOnly {
		panic(fmt.Sprintf("kumiai: message %q is default-only and cannot be bound by %q", msgInfo.name, mi.name))
	}
	if d.types.sealed.containsBit(uint32(mixin)) {
		panic(fmt.Sprintf("kumiai: mixin %q is part of a built type and cannot bind %q", mi.name, msgInfo.name))
	}
	if _, ok := mi.bindingFor(msg); ok {
		panic(fmt.Sprintf("kumiai: mixin %q already binds message %q", mi.name, msgInfo.name))
	}
	mi.bindings = append(mi.bindings, binding{msg: msg, bid: bid, caller: c})
}

// MixinByName returns the id of a registered mixin.
func (d *Domain) MixinByName(name string) (MixinID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.mixins.byName[name]
	return id, ok
}

// MessageByName returns the id of a registered message.
func (d *Domain) MessageByName(name string) (MessageID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.messages.byName[name]
	return id, ok
}

// MixinName returns the name of a mixin, or "" if the id is unknown.
func (d *Domain) MixinName(id MixinID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(id) >= len(d.mixins.infos) {
		return ""
	}
	return d.mixins.infos[id].name
}

// MessageName returns the name of a message, or "" if the id is unknown.
func (d *Domain) MessageName(id MessageID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(id) >= len(d.messages.infos) {
		return ""
	}
	return d.messages.infos[id].name
}

// MessageKindOf returns the kind of a registered message.
func (d *Domain) MessageKindOf(id MessageID) MessageKind {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.messages.infos[id].kind
}

// NumMixins returns the number of registered mixins.
func (d *Domain) NumMixins() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.mixins.infos)
}

// NumMessages returns the number of registered messages.
func (d *Domain) NumMessages() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.messages.infos)
}

// Compose returns the type info for the given composition, building it on
// first request. Equal compositions always return the same instance.
//
// It panics if a mixin id is not registered.
//
// Parameters:
//   - ids: The mixins of the composition, in any order, duplicates allowed.
//
// Returns:
//   - The interned, fully built TypeInfo.
func (d *Domain) Compose(ids ...MixinID) *TypeInfo {
	var mask bitmask256
	for _, id := range ids {
		if id >= MaxMixins {
			panic(fmt.Sprintf("kumiai: mixin id %d out of range", id))
		}
		mask.set(uint32(id))
	}
	return d.getOrCreateTypeInfo(mask)
}

// Empty returns the type info of the empty composition. Destroyed objects
// point to it.
func (d *Domain) Empty() *TypeInfo {
	return d.getOrCreateTypeInfo(bitmask256{})
}

// Types returns all type infos built so far, in creation order.
func (d *Domain) Types() []*TypeInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*TypeInfo, len(d.types.list))
	copy(out, d.types.list)
	return out
}

// getOrCreateTypeInfo returns the type info for the given mask; if missing,
// builds its call table and type class matches before publishing it.
func (d *Domain) getOrCreateTypeInfo(mask bitmask256) *TypeInfo {
	d.mu.RLock()
	if t, ok := d.types.byMask[mask]; ok {
		d.mu.RUnlock()
		return t
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.types.byMask[mask]; ok {
		return t
	}
	t := newTypeInfo(d, collectionFromMask(mask))
	for _, id := range t.compact {
		if int(id) >= len(d.mixins.infos) {
			panic(fmt.Sprintf("kumiai: unknown mixin id %d", id))
		}
	}
	t.fillCallTable()
	for i := range d.classes.classes {
		tc := &d.classes.classes[i]
		if tc.match(&t.MixinCollection) {
			t.setMatch(tc.id)
		}
	}
	t.index = len(d.types.list)
	d.types.list = append(d.types.list, t)
	d.types.byMask[mask] = t
	d.types.sealed = orMask(d.types.sealed, mask)
	log.Debugf("built type %s: %d messages, %d buffered responders", t.describeLocked(), t.numImplemented, len(t.buffer))
	return t
}

// orMask performs a bitwise OR between two masks.
func orMask(m1, m2 bitmask256) bitmask256 {
	var nm bitmask256
	for i := range nm {
		nm[i] = m1[i] | m2[i]
	}
	return nm
}
