package kumiai

import (
	"sync"
	"testing"
)

func TestObjectData(t *testing.T) {
	f := newFixture(t)
	o := f.d.NewObject(f.pos, f.health)
	if !o.Has(f.pos) || o.Has(f.vel) {
		t.Error("unexpected Has results")
	}
	if o.Data(f.vel) != nil {
		t.Error("expected nil data for an absent mixin")
	}
	if Get[Velocity](o) != nil {
		t.Error("expected nil for an absent mixin")
	}
	if o.Data(f.pos) != Get[Position](o) {
		t.Error("expected Data and Get to agree")
	}
	if o.data[NullSlot] != nil || o.data[DefaultSlot] != o {
		t.Error("unexpected reserved slots")
	}
	type unregistered struct{}
	if Get[unregistered](o) != nil {
		t.Error("expected nil for an unregistered type")
	}
}

func TestObjectAddRemove(t *testing.T) {
	f := newFixture(t)
	d := f.d
	o := d.NewObject(f.pos)
	before := o.Type()
	if before.ImplementsByMixin(f.greet) {
		t.Fatal("expected greet to be implemented by default only")
	}
	Get[Position](o).X = 42

	o.Add(f.name)
	after := o.Type()
	if after == before {
		t.Fatal("expected a new type info after Add")
	}
	if after != d.Compose(f.pos, f.name) {
		t.Error("expected the interned type info")
	}
	if !after.ImplementsByMixin(f.greet) {
		t.Error("expected greet to be implemented by a mixin")
	}
	if before.ImplementsByMixin(f.greet) || before.Has(f.name) {
		t.Error("the old type info must not change")
	}
	if Get[Position](o).X != 42 {
		t.Error("expected existing mixin data to be kept")
	}
	if Get[Name](o) == nil {
		t.Error("expected new mixin data")
	}
	if before.NumObjects() != 0 || after.NumObjects() != 1 {
		t.Errorf("expected counters 0/1, got %d/%d", before.NumObjects(), after.NumObjects())
	}

	o.Add(f.name)
	if o.Type() != after {
		t.Error("adding a present mixin should not change the type")
	}

	o.Remove(f.pos, f.vel)
	if o.Type() != d.Compose(f.name) {
		t.Error("expected {Name} after Remove")
	}
	if Get[Position](o) != nil {
		t.Error("expected removed mixin data to be gone")
	}
	if after.NumObjects() != 0 || o.Type().NumObjects() != 1 {
		t.Error("expected the live count to follow the object")
	}
}

func TestObjectDestroy(t *testing.T) {
	f := newFixture(t)
	o := f.d.NewObject(f.pos, f.vel)
	typ := o.Type()
	if typ.NumObjects() != 1 {
		t.Fatalf("expected 1 live object, got %d", typ.NumObjects())
	}
	o.Destroy()
	if typ.NumObjects() != 0 {
		t.Errorf("expected 0 live objects, got %d", typ.NumObjects())
	}
	if o.Alive() {
		t.Error("expected a dead object")
	}
	if o.Type() != f.d.Empty() {
		t.Error("expected a destroyed object to point to the empty type")
	}
	if f.d.Empty().NumObjects() != 0 {
		t.Error("destroyed objects must not be counted")
	}
	o.Destroy()
	if typ.NumObjects() != 0 {
		t.Error("double destroy must be a no-op")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic when mutating a destroyed object")
		}
	}()
	o.Add(f.pos)
}

func TestLiveCounterConcurrent(t *testing.T) {
	f := newFixture(t)
	typ := f.d.Compose(f.pos, f.vel)
	const workers, rounds = 8, 500
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				o := f.d.NewObject(f.vel, f.pos)
				if _, err := o.Call(f.move, 1, 1); err != nil {
					t.Error(err)
					return
				}
				o.Destroy()
			}
		}()
	}
	wg.Wait()
	if typ.NumObjects() != 0 {
		t.Errorf("expected 0 live objects, got %d", typ.NumObjects())
	}
}
