package kumiai

import "fmt"

// Object is a dynamically composed object. Its mixin data is stored in slots
// assigned by its TypeInfo; slot NullSlot is always nil and slot DefaultSlot
// holds the object itself.
//
// An Object must not be mutated while another goroutine dispatches messages
// to it. Dispatching to distinct objects, or to one object from several
// goroutines without mutation, is safe.
type Object struct {
	typ  *TypeInfo
	data []any
	dead bool
}

// NewObject creates an object composed of the given mixins. The data of each
// mixin is created by the mixin's factory.
//
// Parameters:
//   - ids: The mixins of the object, in any order.
//
// Returns:
//   - The new Object.
func (d *Domain) NewObject(ids ...MixinID) *Object {
	t := d.Compose(ids...)
	o := &Object{typ: t, data: make([]any, t.numSlots())}
	o.data[DefaultSlot] = o
	for i, id := range t.compact {
		o.data[slotOffset+uint32(i)] = d.newMixinData(id)
	}
	t.numObjects.Add(1)
	return o
}

// newMixinData creates the data of a mixin for a new object.
func (d *Domain) newMixinData(id MixinID) any {
	d.mu.RLock()
	newData := d.mixins.infos[id].newData
	d.mu.RUnlock()
	if newData == nil {
		return nil
	}
	return newData()
}

// Type returns the type info the object currently points to.
func (o *Object) Type() *TypeInfo {
	return o.typ
}

// Has reports whether the object holds the mixin.
func (o *Object) Has(id MixinID) bool {
	return o.typ.Has(id)
}

// Data returns the data of a mixin, or nil if the object does not hold it.
func (o *Object) Data(id MixinID) any {
	return o.data[o.typ.mixinIndices[id]]
}

// Get retrieves a pointer to the data of the mixin `T`. It returns nil if `T`
// is not registered or the object does not hold it.
//
// Parameters:
//   - o: The Object to read from.
//
// Returns:
//   - A pointer to the mixin data (*T), or nil if not found.
func Get[T any](o *Object) *T {
	id, ok := MixinOf[T](o.typ.domain)
	if !ok {
		return nil
	}
	v, _ := o.Data(id).(*T)
	return v
}

// Add adds mixins to the object. The object moves to the type info of the new
// composition; data of mixins it already holds is kept.
func (o *Object) Add(ids ...MixinID) {
	mask := o.typ.mask
	for _, id := range ids {
		if id >= MaxMixins {
			panic(fmt.Sprintf("kumiai: mixin id %d out of range", id))
		}
		mask.set(uint32(id))
	}
	o.moveTo(mask)
}

// Remove removes mixins from the object. The object moves to the type info of
// the new composition; removing absent mixins is a no-op.
func (o *Object) Remove(ids ...MixinID) {
	mask := o.typ.mask
	for _, id := range ids {
		if id < MaxMixins {
			mask.unset(uint32(id))
		}
	}
	o.moveTo(mask)
}

// moveTo relocates the object's data to the type info for mask.
func (o *Object) moveTo(mask bitmask256) {
	if o.dead {
		panic("kumiai: mutating a destroyed object")
	}
	old := o.typ
	if mask == old.mask {
		return
	}
	d := old.domain
	t := d.getOrCreateTypeInfo(mask)
	data := make([]any, t.numSlots())
	data[DefaultSlot] = o
	for i, id := range t.compact {
		slot := slotOffset + uint32(i)
		if old.Has(id) {
			data[slot] = o.data[old.mixinIndices[id]]
		} else {
			data[slot] = d.newMixinData(id)
		}
	}
	t.numObjects.Add(1)
	old.numObjects.Add(-1)
	o.typ = t
	o.data = data
}

// Destroy releases the object's mixin data and removes it from the live count
// of its type. The object is left pointing to the empty type; destroying it
// again is a no-op.
func (o *Object) Destroy() {
	if o.dead {
		return
	}
	o.dead = true
	o.typ.numObjects.Add(-1)
	o.typ = o.typ.domain.Empty()
	o.data = []any{nil, o}
}

// Alive reports whether Destroy has not been called.
func (o *Object) Alive() bool {
	return !o.dead
}
