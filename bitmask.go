package kumiai

import "math/bits"

// bitmask256 represents a set of up to 256 ids. It keys interned type infos
// (one bit per mixin) and stores the type classes a type info matches.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given id.
func (m *bitmask256) set(bit uint32) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << o
}

// unset disables the bit corresponding to the given id.
func (m *bitmask256) unset(bit uint32) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << o)
}

// contains reports whether a composition holds every mixin of another set,
// as used by type class predicates.
//
// Parameters:
//   - sub: The required mixins.
//
// Returns:
//   - true if every bit of sub is set in m.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// intersects checks if this bitmask has any bits in common with another bitmask.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// containsBit checks if a specific bit is set in the mask. Bits outside the
// mask are reported as unset.
func (m bitmask256) containsBit(bit uint32) bool {
	if bit >= 256 {
		return false
	}
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << o)) != 0
}

// count returns the number of set bits.
func (m bitmask256) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// appendBits appends every set bit to dst in ascending order.
func (m bitmask256) appendBits(dst []uint32) []uint32 {
	for i, w := range m {
		for w != 0 {
			o := bits.TrailingZeros64(w)
			dst = append(dst, uint32(i<<6|o))
			w &= w - 1
		}
	}
	return dst
}
