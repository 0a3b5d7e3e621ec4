package kumiai

// MixinCollection is an immutable set of mixins. It keeps a bitmask for O(1)
// membership and a compact list of the same ids for iteration.
//
// The compact list is ordered by ascending MixinID, which is registration
// order. This is the composition order used to break ties between responders
// with equal bids.
type MixinCollection struct {
	mask    bitmask256
	compact []MixinID
}

// NewMixinCollection creates a collection from an arbitrary list of mixin ids.
// Duplicates are dropped. It panics if an id is not below MaxMixins.
//
// Parameters:
//   - ids: The mixins of the composition, in any order.
//
// Returns:
//   - The new collection.
func NewMixinCollection(ids ...MixinID) MixinCollection {
	var mask bitmask256
	for _, id := range ids {
		if id >= MaxMixins {
			panic("kumiai: mixin id out of range")
		}
		mask.set(uint32(id))
	}
	return collectionFromMask(mask)
}

// collectionFromMask expands a mask into a collection.
func collectionFromMask(mask bitmask256) MixinCollection {
	c := MixinCollection{mask: mask}
	if n := mask.count(); n > 0 {
		raw := mask.appendBits(make([]uint32, 0, n))
		c.compact = make([]MixinID, n)
		for i, b := range raw {
			c.compact[i] = MixinID(b)
		}
	}
	return c
}

// Has reports whether the collection contains the mixin.
func (c *MixinCollection) Has(id MixinID) bool {
	return c.mask.containsBit(uint32(id))
}

// HasAll reports whether every given mixin is in the collection.
func (c *MixinCollection) HasAll(ids ...MixinID) bool {
	for _, id := range ids {
		if !c.Has(id) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the given mixins is in the collection.
func (c *MixinCollection) HasAny(ids ...MixinID) bool {
	for _, id := range ids {
		if c.Has(id) {
			return true
		}
	}
	return false
}

// Mixins returns the mixins in composition order.
// Note: The returned slice is owned by the collection and must not be modified.
func (c *MixinCollection) Mixins() []MixinID {
	return c.compact
}

// Len returns the number of mixins.
func (c *MixinCollection) Len() int {
	return len(c.compact)
}

// Equal reports whether both collections hold the same mixins.
func (c *MixinCollection) Equal(other *MixinCollection) bool {
	return c.mask == other.mask
}
