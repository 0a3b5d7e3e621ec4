package kumiai

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

// Test mixins
type Position struct {
	X, Y int
}

type Velocity struct {
	DX, DY int
}

type Health struct {
	HP int
}

type Name struct {
	Value string
}

// fixture is a domain with a few mixins and messages used across tests.
type fixture struct {
	d                         *Domain
	pos, vel, health, name    MixinID
	move, describe, weight    MessageID
	greet, undefined, summary MessageID
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{d: NewDomain()}
	d := f.d
	f.pos = RegisterMixin[Position](d)
	f.vel = RegisterMixin[Velocity](d)
	f.health = RegisterMixin[Health](d)
	f.name = RegisterMixin[Name](d)

	f.move = d.RegisterMessage("move", Unicast)
	f.describe = d.RegisterMessage("describe", Unicast)
	f.weight = d.RegisterMessage("weight", Multicast)
	f.greet = d.RegisterMessage("greet", Unicast, WithDefault(CallerFunc(func(c *Call) any {
		return "hello from default"
	})))
	f.undefined = d.RegisterMessage("undefined", Unicast)
	f.summary = d.RegisterMessage("summary", DefaultOnly, WithDefault(CallerFunc(func(c *Call) any {
		return c.Object().Type().Len()
	})))

	d.Bind(f.pos, f.move, 0, Proc2(func(p *Position, dx, dy int) {
		p.X += dx
		p.Y += dy
	}))
	d.Bind(f.pos, f.describe, 1, Func0(func(p *Position) string { return "position" }))
	d.Bind(f.name, f.describe, 5, Func0(func(n *Name) string { return "name:" + n.Value }))
	d.Bind(f.pos, f.weight, 0, Func0(func(*Position) int { return 1 }))
	d.Bind(f.vel, f.weight, 0, Func0(func(*Velocity) int { return 2 }))
	d.Bind(f.health, f.weight, 3, Func0(func(h *Health) int { return h.HP }))
	d.Bind(f.name, f.greet, 0, Func1(func(n *Name, who string) string { return "hi " + who + ", I am " + n.Value }))
	return f
}

func TestRegisterMixin(t *testing.T) {
	d := NewDomain()
	a := RegisterMixin[Position](d)
	b := RegisterMixin[Velocity](d)
	if a != 0 || b != 1 {
		t.Errorf("expected ids 0 and 1, got %d and %d", a, b)
	}
	if again := RegisterMixin[Position](d); again != a {
		t.Errorf("expected existing id %d, got %d", a, again)
	}
	if id, ok := MixinOf[Velocity](d); !ok || id != b {
		t.Errorf("expected MixinOf to return %d, got %d (%v)", b, id, ok)
	}
	if _, ok := MixinOf[Health](d); ok {
		t.Error("expected Health to be unregistered")
	}
	if name := d.MixinName(a); name != "Position" {
		t.Errorf("expected name Position, got %q", name)
	}
	if id, ok := d.MixinByName("Velocity"); !ok || id != b {
		t.Errorf("expected MixinByName to return %d, got %d", b, id)
	}
	if d.NumMixins() != 2 {
		t.Errorf("expected 2 mixins, got %d", d.NumMixins())
	}
}

func TestRegistrationPanics(t *testing.T) {
	expectPanic := func(t *testing.T, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		fn()
	}

	t.Run("Duplicate mixin name", func(t *testing.T) {
		d := NewDomain()
		d.RegisterMixinFactory("a", nil)
		expectPanic(t, func() { d.RegisterMixinFactory("a", nil) })
	})

	t.Run("Too many mixins", func(t *testing.T) {
		d := NewDomain()
		for i := 0; i < MaxMixins; i++ {
			d.RegisterMixinFactory(string(rune('A'+i)), nil)
		}
		expectPanic(t, func() { d.RegisterMixinFactory("overflow", nil) })
	})

	t.Run("Duplicate message name", func(t *testing.T) {
		d := NewDomain()
		d.RegisterMessage("m", Unicast)
		expectPanic(t, func() { d.RegisterMessage("m", Multicast) })
	})

	t.Run("Default-only without default", func(t *testing.T) {
		d := NewDomain()
		expectPanic(t, func() { d.RegisterMessage("m", DefaultOnly) })
	})

	t.Run("Message after build", func(t *testing.T) {
		f := newFixture(t)
		f.d.Compose(f.pos)
		expectPanic(t, func() { f.d.RegisterMessage("late", Unicast) })
	})

	t.Run("Duplicate binding", func(t *testing.T) {
		f := newFixture(t)
		expectPanic(t, func() {
			f.d.Bind(f.pos, f.move, 9, Proc0(func(*Position) {}))
		})
	})

	t.Run("Binding a sealed mixin", func(t *testing.T) {
		f := newFixture(t)
		f.d.Compose(f.vel)
		expectPanic(t, func() {
			f.d.Bind(f.vel, f.describe, 0, Func0(func(*Velocity) string { return "v" }))
		})
		// mixins outside any built type can still bind
		f.d.Bind(f.health, f.describe, 0, Func0(func(*Health) string { return "h" }))
	})

	t.Run("Binding a default-only message", func(t *testing.T) {
		f := newFixture(t)
		expectPanic(t, func() {
			f.d.Bind(f.vel, f.summary, 0, Func0(func(*Velocity) int { return 0 }))
		})
	})

	t.Run("Unknown ids", func(t *testing.T) {
		f := newFixture(t)
		expectPanic(t, func() { f.d.Bind(99, f.move, 0, Proc0(func(*Position) {})) })
		expectPanic(t, func() { f.d.Bind(f.pos, 99, 0, Proc0(func(*Position) {})) })
		expectPanic(t, func() { f.d.Compose(42) })
	})
}

func TestComposeInterning(t *testing.T) {
	f := newFixture(t)
	d := f.d
	a := d.Compose(f.pos, f.vel)
	b := d.Compose(f.vel, f.pos, f.vel)
	if a != b {
		t.Error("expected equal compositions to share a type info")
	}
	c := d.Compose(f.pos, f.health)
	if a == c {
		t.Error("expected distinct compositions to have distinct type infos")
	}
	if d.Empty() != d.Compose() {
		t.Error("expected Empty to be the empty composition")
	}
	types := d.Types()
	if len(types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(types))
	}
	if types[0] != a || types[1] != c {
		t.Error("expected types in creation order")
	}
}

func TestComposeConcurrent(t *testing.T) {
	f := newFixture(t)
	const workers = 16
	results := make([]*TypeInfo, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				results[i] = f.d.Compose(f.pos, f.vel, f.name)
			} else {
				results[i] = f.d.Compose(f.name, f.pos, f.vel)
			}
		}()
	}
	wg.Wait()
	for i, r := range results {
		if r != results[0] {
			t.Errorf("worker %d got a different type info", i)
		}
	}
	if n := len(f.d.Types()); n != 1 {
		t.Errorf("expected 1 type, got %d", n)
	}
}

func TestTypeInfoQueries(t *testing.T) {
	f := newFixture(t)
	d := f.d
	typ := d.Compose(f.pos, f.name)

	t.Run("MixinIndex", func(t *testing.T) {
		if got := typ.MixinIndex(f.pos); got != slotOffset {
			t.Errorf("expected slot %d, got %d", slotOffset, got)
		}
		if got := typ.MixinIndex(f.name); got != slotOffset+1 {
			t.Errorf("expected slot %d, got %d", slotOffset+1, got)
		}
		if got := typ.MixinIndex(f.vel); got != NullSlot {
			t.Errorf("expected null slot, got %d", got)
		}
	})

	t.Run("Implements", func(t *testing.T) {
		tests := []struct {
			name                           string
			msg                            MessageID
			implements, byMixin, byDefault bool
			implementers                   int
		}{
			{"mixin", f.move, true, true, false, 1},
			{"two bidders", f.describe, true, true, false, 2},
			{"mixin over default", f.greet, true, true, false, 1},
			{"nobody", f.undefined, false, false, false, 0},
			{"default only", f.summary, true, false, true, 0},
			{"multicast", f.weight, true, true, false, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := typ.Implements(tt.msg); got != tt.implements {
					t.Errorf("Implements: expected %v, got %v", tt.implements, got)
				}
				if got := typ.ImplementsByMixin(tt.msg); got != tt.byMixin {
					t.Errorf("ImplementsByMixin: expected %v, got %v", tt.byMixin, got)
				}
				if got := typ.ImplementsWithDefault(tt.msg); got != tt.byDefault {
					t.Errorf("ImplementsWithDefault: expected %v, got %v", tt.byDefault, got)
				}
				if got := typ.NumImplementers(tt.msg); got != tt.implementers {
					t.Errorf("NumImplementers: expected %d, got %d", tt.implementers, got)
				}
			})
		}
	})

	t.Run("Default when no mixin binds", func(t *testing.T) {
		other := d.Compose(f.pos)
		if !other.Implements(f.greet) || other.ImplementsByMixin(f.greet) || !other.ImplementsWithDefault(f.greet) {
			t.Error("expected greet to be implemented by its default only")
		}
		rs := other.Responders(f.greet)
		if len(rs) != 1 || !rs[0].Default || rs[0].Mixin != InvalidMixinID {
			t.Errorf("expected a single default responder, got %+v", rs)
		}
	})

	t.Run("Names", func(t *testing.T) {
		if got, want := typ.MixinNames(), []string{"Position", "Name"}; !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		want := []string{"move", "describe", "weight", "greet", "summary"}
		if got := typ.MessageNames(); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if s := typ.String(); s != "{Position, Name}" {
			t.Errorf("expected {Position, Name}, got %s", s)
		}
		if s := d.Empty().String(); s != "{}" {
			t.Errorf("expected {}, got %s", s)
		}
	})

	t.Run("Responders", func(t *testing.T) {
		rs := typ.Responders(f.describe)
		want := []Responder{{Mixin: f.name, Bid: 5}, {Mixin: f.pos, Bid: 1}}
		if !slices.Equal(rs, want) {
			t.Errorf("expected %+v, got %+v", want, rs)
		}
		if typ.Responders(f.undefined) != nil {
			t.Error("expected no responders")
		}
		if typ.NumTopBidders(f.describe) != 1 {
			t.Errorf("expected 1 top bidder, got %d", typ.NumTopBidders(f.describe))
		}
	})

	t.Run("Single buffer", func(t *testing.T) {
		all := d.Compose(f.pos, f.vel, f.health, f.name)
		// describe has 2 responders, weight has 3; single responders stay out of the buffer
		if len(all.buffer) != 5 || cap(all.buffer) != 5 {
			t.Errorf("expected a buffer of 5, got len %d cap %d", len(all.buffer), cap(all.buffer))
		}
	})
}

func TestFillCallTableTwicePanics(t *testing.T) {
	f := newFixture(t)
	typ := f.d.Compose(f.pos)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	typ.fillCallTable()
}

func TestNotImplementedError(t *testing.T) {
	f := newFixture(t)
	o := f.d.NewObject(f.pos, f.vel)
	_, err := o.Call(f.undefined)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	var nie *NotImplementedError
	if !errors.As(err, &nie) {
		t.Fatalf("expected *NotImplementedError, got %T", err)
	}
	if nie.Message != "undefined" || nie.Type != "{Position, Velocity}" {
		t.Errorf("unexpected error fields %+v", nie)
	}
	want := `kumiai: message "undefined" not implemented for type {Position, Velocity}`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
