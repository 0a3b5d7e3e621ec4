package kumiai

import (
	"cmp"
	"fmt"
	"slices"
	"unsafe"

	"fortio.org/safecast"
)

// callTableMessage is one responder in a call table: the caller and the slot
// of the data it is invoked on.
type callTableMessage struct {
	caller Caller
	bid    int
	slot   uint32
	mixin  MixinID // InvalidMixinID for a default implementation
}

func (m *callTableMessage) valid() bool {
	return m.caller != nil
}

func (m *callTableMessage) responder() Responder {
	return Responder{Mixin: m.mixin, Bid: m.bid, Default: m.mixin == InvalidMixinID}
}

// callTableEntry is the per-message part of a call table.
//
// top holds the highest bidder (or the default implementation) so the common
// single-responder call needs no indirection. When more than one mixin binds
// the message, every responder is also stored in TypeInfo.buffer at
// [offset, offset+count), sorted by descending bid with ties in composition
// order. The first topGroup responders share the highest bid.
type callTableEntry struct {
	top      callTableMessage
	offset   uint32
	count    uint32
	topGroup uint32
	kind     MessageKind
}

// fillCallTable builds the call table of every registered message. It must
// run exactly once, with the domain lock held, before the type info is
// published.
func (t *TypeInfo) fillCallTable() {
	if t.built {
		panic("kumiai: call table already built")
	}
	t.built = true
	d := t.domain

	candidates := make([][]callTableMessage, len(d.messages.infos))
	for _, id := range t.compact {
		slot := t.mixinIndices[id]
		for _, b := range d.mixins.infos[id].bindings {
			candidates[b.msg] = append(candidates[b.msg], callTableMessage{
				caller: b.caller,
				bid:    b.bid,
				slot:   slot,
				mixin:  id,
			})
		}
	}

	total := 0
	for _, c := range candidates {
		if len(c) > 1 {
			total += len(c)
		}
	}
	if total > 0 {
		t.buffer = make([]callTableMessage, 0, total)
	}

	for i, cands := range candidates {
		entry := &t.callTable[i]
		entry.kind = d.messages.infos[i].kind
		if len(cands) == 0 {
			if def := d.messages.infos[i].def; def != nil {
				entry.top = callTableMessage{caller: def, slot: DefaultSlot, mixin: InvalidMixinID}
				entry.topGroup = 1
				t.numImplemented++
			}
			continue
		}
		slices.SortStableFunc(cands, func(a, b callTableMessage) int {
			return cmp.Compare(b.bid, a.bid)
		})
		entry.top = cands[0]
		entry.topGroup = 1
		for int(entry.topGroup) < len(cands) && cands[entry.topGroup].bid == cands[0].bid {
			entry.topGroup++
		}
		if len(cands) > 1 {
			entry.offset = toU32("call table offset", len(t.buffer))
			entry.count = toU32("call table count", len(cands))
			t.buffer = append(t.buffer, cands...)
		}
		t.numImplemented++
	}
}

// NumTopBidders returns how many responders share the highest bid of the
// message. It is 0 when the type does not implement the message.
func (t *TypeInfo) NumTopBidders(msg MessageID) int {
	return int(t.callTable[msg].topGroup)
}

// responders returns the responders of an entry in dispatch order without
// allocating.
func (t *TypeInfo) responders(e *callTableEntry) []callTableMessage {
	if e.count == 0 {
		return unsafe.Slice(&e.top, 1)
	}
	return t.buffer[e.offset : e.offset+e.count]
}

func toU32(what string, n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("kumiai: %s overflow: %w", what, err))
	}
	return v
}
