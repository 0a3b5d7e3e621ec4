// Profiling:
// go build ./profile/dispatch
// go tool pprof -http=":8000" -nodefraction=0.001 ./dispatch cpu.pprof

package main

import (
	"github.com/edwinsyarief/kumiai"
	"github.com/pkg/profile"
)

type mass struct {
	V int64
}

type armor struct {
	V int64
}

type label struct {
	Text string
}

func main() {
	rounds := 50
	iters := 10000
	objects := 1000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, objects)
	p.Stop()
}

func run(rounds, iters, numObjects int) {
	d := kumiai.NewDomain()
	m := kumiai.RegisterMixin[mass](d)
	a := kumiai.RegisterMixin[armor](d)
	l := kumiai.RegisterMixin[label](d)
	weight := d.RegisterMessage("weight", kumiai.Multicast)
	name := d.RegisterMessage("name", kumiai.Unicast)
	d.Bind(m, weight, 0, kumiai.Func0(func(s *mass) int64 { return s.V }))
	d.Bind(a, weight, 1, kumiai.Func0(func(s *armor) int64 { return s.V }))
	d.Bind(l, name, 0, kumiai.Func0(func(s *label) string { return s.Text }))

	objs := make([]*kumiai.Object, numObjects)
	for i := range objs {
		objs[i] = d.NewObject(m, a, l)
		kumiai.Get[mass](objs[i]).V = int64(i)
	}
	var total int64
	for range rounds {
		for range iters {
			for _, o := range objs {
				w, _ := kumiai.MulticastAs(o, weight, kumiai.Sum[int64])
				total += w
				_, _ = o.Call(name)
			}
		}
	}
	_ = total
}
