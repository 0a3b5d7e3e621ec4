// Profiling:
// go build ./profile/compose
// go tool pprof -http=":8000" -nodefraction=0.001 ./compose mem.pprof

package main

import (
	"fmt"

	"github.com/edwinsyarief/kumiai"
	"github.com/pkg/profile"
)

func main() {
	rounds := 20
	mixins := 16
	objects := 10000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, mixins, objects)
	p.Stop()
}

func run(rounds, numMixins, numObjects int) {
	for range rounds {
		d := kumiai.NewDomain()
		ids := make([]kumiai.MixinID, numMixins)
		for i := range ids {
			ids[i] = d.RegisterMixinFactory(fmt.Sprintf("m%d", i), func() any { return new(int64) })
		}
		objs := make([]*kumiai.Object, numObjects)
		for i := range objs {
			objs[i] = d.NewObject(ids[i%numMixins])
		}
		for i, o := range objs {
			o.Add(ids[(i*7)%numMixins], ids[(i*13)%numMixins])
			o.Remove(ids[i%numMixins])
		}
		for _, o := range objs {
			o.Destroy()
		}
	}
}
