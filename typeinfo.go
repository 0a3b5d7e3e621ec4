package kumiai

import (
	"strings"
	"sync/atomic"
)

// TypeInfo is the immutable type information shared by every object of one
// composition: its mixins, where each mixin lives in an object's data, and
// the call table of every registered message.
//
// A TypeInfo is created and built once by Domain.Compose and never mutated
// afterwards, so it is safe for concurrent reads. The live-object counter and
// the type class match set are the only mutable parts and are atomic.
type TypeInfo struct {
	MixinCollection

	domain         *Domain
	buffer         []callTableMessage // one allocation holding every overflow range
	matches        [MaxTypeClasses / 64]atomic.Uint64
	numObjects     atomic.Int64
	index          int // position in Domain.Types
	numImplemented int // messages with a non-empty entry
	built          bool

	// mixinIndices maps a mixin id to its slot in an object's data. The zero
	// value is NullSlot, so absent mixins need no initialization.
	mixinIndices [MaxMixins]uint32
	callTable    [MaxMessages]callTableEntry
}

// newTypeInfo allocates an unbuilt type info and assigns the mixin slots in
// composition order.
func newTypeInfo(d *Domain, c MixinCollection) *TypeInfo {
	t := &TypeInfo{MixinCollection: c, domain: d}
	for i, id := range t.compact {
		t.mixinIndices[id] = uint32(i) + slotOffset
	}
	return t
}

// Domain returns the domain the type info belongs to.
func (t *TypeInfo) Domain() *Domain {
	return t.domain
}

// MixinIndex returns the slot of a mixin's data within an object of this
// type, or NullSlot if the mixin is not part of the type.
func (t *TypeInfo) MixinIndex(id MixinID) uint32 {
	return t.mixinIndices[id]
}

// numSlots returns the length of an object's data slice.
func (t *TypeInfo) numSlots() int {
	return len(t.compact) + int(slotOffset)
}

// Implements reports whether the type implements the message, by a mixin or
// by a default implementation.
func (t *TypeInfo) Implements(msg MessageID) bool {
	return t.callTable[msg].top.valid()
}

// ImplementsByMixin reports whether at least one mixin of the type binds the
// message. It is false for messages that only have a default implementation.
func (t *TypeInfo) ImplementsByMixin(msg MessageID) bool {
	top := &t.callTable[msg].top
	return top.valid() && top.mixin != InvalidMixinID
}

// ImplementsWithDefault reports whether the type implements the message only
// through its default implementation.
func (t *TypeInfo) ImplementsWithDefault(msg MessageID) bool {
	top := &t.callTable[msg].top
	return top.valid() && top.mixin == InvalidMixinID
}

// NumImplementers returns the number of mixins of the type which bind the
// message. Default implementations are not counted.
func (t *TypeInfo) NumImplementers(msg MessageID) int {
	e := &t.callTable[msg]
	if e.count > 0 {
		return int(e.count)
	}
	if e.top.valid() && e.top.mixin != InvalidMixinID {
		return 1
	}
	return 0
}

// IsA reports whether the type matches the type class. Matches are computed
// when the type is built and when the class is registered.
func (t *TypeInfo) IsA(tc TypeClassID) bool {
	return t.matches[tc>>6].Load()&(uint64(1)<<(tc&63)) != 0
}

// setMatch records that the type matches the type class.
func (t *TypeInfo) setMatch(tc TypeClassID) {
	t.matches[tc>>6].Or(uint64(1) << (tc & 63))
}

// NumObjects returns the number of live objects of this type.
func (t *TypeInfo) NumObjects() int64 {
	return t.numObjects.Load()
}

// Responder describes one element of a call table entry.
type Responder struct {
	Mixin   MixinID // InvalidMixinID for a default implementation
	Bid     int
	Default bool
}

// Responders returns the responders of a message in dispatch order. It is
// empty when the type does not implement the message.
func (t *TypeInfo) Responders(msg MessageID) []Responder {
	e := &t.callTable[msg]
	if !e.top.valid() {
		return nil
	}
	ms := t.responders(e)
	out := make([]Responder, len(ms))
	for i := range ms {
		out[i] = ms[i].responder()
	}
	return out
}

// MessageNames returns the names of the messages the type implements, in
// MessageID order.
func (t *TypeInfo) MessageNames() []string {
	t.domain.mu.RLock()
	defer t.domain.mu.RUnlock()
	out := make([]string, 0, t.numImplemented)
	for i, info := range t.domain.messages.infos {
		if t.callTable[i].top.valid() {
			out = append(out, info.name)
		}
	}
	return out
}

// MixinNames returns the names of the type's mixins in composition order.
func (t *TypeInfo) MixinNames() []string {
	t.domain.mu.RLock()
	defer t.domain.mu.RUnlock()
	return t.mixinNamesLocked()
}

func (t *TypeInfo) mixinNamesLocked() []string {
	out := make([]string, len(t.compact))
	for i, id := range t.compact {
		out[i] = t.domain.mixins.infos[id].name
	}
	return out
}

// String returns the composition as "{a, b}".
func (t *TypeInfo) String() string {
	t.domain.mu.RLock()
	defer t.domain.mu.RUnlock()
	return t.describeLocked()
}

func (t *TypeInfo) describeLocked() string {
	return "{" + strings.Join(t.mixinNamesLocked(), ", ") + "}"
}
