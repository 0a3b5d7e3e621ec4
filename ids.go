package kumiai

import (
	"fmt"

	"fortio.org/safecast"
)

// MaxMixins defines the maximum number of unique mixins that can be registered
// in a Domain. Mixin membership is a 256-bit mask, so this value is fixed.
const MaxMixins = 256

// MaxMessages defines the maximum number of messages a Domain can register.
// Every type info carries a call table of this length indexed by MessageID.
const MaxMessages = 512

// MaxTypeClasses defines the maximum number of type classes in a Domain.
const MaxTypeClasses = 256

// MixinID is the dense identifier of a registered mixin.
type MixinID uint32

// MessageID is the dense identifier of a registered message.
type MessageID uint32

// TypeClassID is the dense identifier of a registered type class.
type TypeClassID uint32

// InvalidMixinID marks a call table element that is not backed by a mixin,
// such as a default implementation.
const InvalidMixinID = ^MixinID(0)

// Reserved slots in an object's mixin data.
const (
	// NullSlot always holds nil. Absent mixins map to it, so data lookups
	// never need a presence check.
	NullSlot uint32 = iota
	// DefaultSlot holds the object itself and is the target of default
	// message implementations.
	DefaultSlot
	// slotOffset is the first slot used by actual mixins.
	slotOffset
)

// nextID converts a registry length into the next dense id, panicking when it
// no longer fits the id space.
func nextID[ID ~uint32](what string, n, limit int) ID {
	if n >= limit {
		panic(fmt.Sprintf("kumiai: too many %s (max %d)", what, limit))
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("kumiai: %s id overflow: %w", what, err))
	}
	return ID(v)
}
