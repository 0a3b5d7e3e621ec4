package kumiai

import "fmt"

// typeClass is a named structural predicate over a composition.
type typeClass struct {
	match func(c *MixinCollection) bool
	name  string
	id    TypeClassID
}

// RegisterTypeClass registers a type class and returns its id. Every type
// info that already exists is matched against it at once, so IsA answers are
// correct without rebuilding any type.
//
// The predicate runs with the domain lock held and must not call back into
// the Domain.
//
// Parameters:
//   - name: The unique type class name.
//   - match: The predicate over a type's mixins.
//
// Returns:
//   - The TypeClassID of the new type class.
func (d *Domain) RegisterTypeClass(name string, match func(c *MixinCollection) bool) TypeClassID {
	if match == nil {
		panic("kumiai: nil type class predicate")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.classes.byName[name]; ok {
		panic(fmt.Sprintf("kumiai: type class %q already registered", name))
	}
	id := nextID[TypeClassID]("type classes", len(d.classes.classes), MaxTypeClasses)
	d.classes.classes = append(d.classes.classes, typeClass{id: id, name: name, match: match})
	d.classes.byName[name] = id
	matched := 0
	for _, t := range d.types.list {
		if match(&t.MixinCollection) {
			t.setMatch(id)
			matched++
		}
	}
	log.Debugf("registered type class %q: matched %d of %d types", name, matched, len(d.types.list))
	return id
}

// TypeClassByName returns the id of a registered type class.
func (d *Domain) TypeClassByName(name string) (TypeClassID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.classes.byName[name]
	return id, ok
}

// TypeClassName returns the name of a type class, or "" if the id is unknown.
func (d *Domain) TypeClassName(id TypeClassID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(id) >= len(d.classes.classes) {
		return ""
	}
	return d.classes.classes[id].name
}

// TypeClassNames returns the names of the type classes a type matches.
func (t *TypeInfo) TypeClassNames() []string {
	t.domain.mu.RLock()
	defer t.domain.mu.RUnlock()
	var out []string
	for _, tc := range t.domain.classes.classes {
		if t.IsA(tc.id) {
			out = append(out, tc.name)
		}
	}
	return out
}

// Requiring returns a predicate matching compositions that hold all of
// include and none of exclude.
func Requiring(include, exclude []MixinID) func(c *MixinCollection) bool {
	var in, ex bitmask256
	for _, id := range include {
		in.set(uint32(id))
	}
	for _, id := range exclude {
		ex.set(uint32(id))
	}
	return func(c *MixinCollection) bool {
		return c.mask.contains(in) && !c.mask.intersects(ex)
	}
}
