package kumiai

// Snapshot is a point-in-time description of a Domain for introspection
// tools. It holds only plain values so it can be encoded as is.
type Snapshot struct {
	Mixins      []string          `msgpack:"mixins"`
	Messages    []MessageSnapshot `msgpack:"messages"`
	TypeClasses []string          `msgpack:"type_classes"`
	Types       []TypeSnapshot    `msgpack:"types"`
}

// MessageSnapshot describes a registered message.
type MessageSnapshot struct {
	Name       string `msgpack:"name"`
	Kind       string `msgpack:"kind"`
	HasDefault bool   `msgpack:"has_default"`
}

// TypeSnapshot describes a built type info.
type TypeSnapshot struct {
	Mixins      []string            `msgpack:"mixins"`
	TypeClasses []string            `msgpack:"type_classes"`
	Messages    []ResponderSnapshot `msgpack:"messages"`
	Objects     int64               `msgpack:"objects"`
}

// ResponderSnapshot describes the responders of one message in one type, in
// dispatch order.
type ResponderSnapshot struct {
	Message    string   `msgpack:"message"`
	Responders []string `msgpack:"responders"` // mixin names, "<default>" for a default implementation
	Bids       []int    `msgpack:"bids"`
}

// DefaultResponderName names a default implementation in snapshots.
const DefaultResponderName = "<default>"

// Snapshot describes the domain's registries and every built type.
func (d *Domain) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s := Snapshot{
		Mixins:      make([]string, len(d.mixins.infos)),
		Messages:    make([]MessageSnapshot, len(d.messages.infos)),
		TypeClasses: make([]string, len(d.classes.classes)),
		Types:       make([]TypeSnapshot, 0, len(d.types.list)),
	}
	for i, m := range d.mixins.infos {
		s.Mixins[i] = m.name
	}
	for i, m := range d.messages.infos {
		s.Messages[i] = MessageSnapshot{Name: m.name, Kind: m.kind.String(), HasDefault: m.def != nil}
	}
	for i, tc := range d.classes.classes {
		s.TypeClasses[i] = tc.name
	}
	for _, t := range d.types.list {
		ts := TypeSnapshot{
			Mixins:  t.mixinNamesLocked(),
			Objects: t.NumObjects(),
		}
		for _, tc := range d.classes.classes {
			if t.IsA(tc.id) {
				ts.TypeClasses = append(ts.TypeClasses, tc.name)
			}
		}
		for i, m := range d.messages.infos {
			e := &t.callTable[i]
			if !e.top.valid() {
				continue
			}
			rs := ResponderSnapshot{Message: m.name}
			for _, r := range t.responders(e) {
				name := DefaultResponderName
				if r.mixin != InvalidMixinID {
					name = d.mixins.infos[r.mixin].name
				}
				rs.Responders = append(rs.Responders, name)
				rs.Bids = append(rs.Bids, r.bid)
			}
			ts.Messages = append(ts.Messages, rs)
		}
		s.Types = append(s.Types, ts)
	}
	return s
}
