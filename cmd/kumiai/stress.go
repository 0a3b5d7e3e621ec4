package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edwinsyarief/kumiai"
	"github.com/edwinsyarief/kumiai/internal/manifest"
)

var stressCmd = &cobra.Command{
	Use:   "stress <domain.toml>",
	Short: "Create, mutate and message objects from many goroutines",
	Long: `stress runs workers that repeatedly instantiate every declared type, add and
remove mixins, send every message and destroy the objects. It fails if
interning hands out two type infos for one composition or if a live object
counter does not return to zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		rounds, _ := cmd.Flags().GetInt("rounds")
		c, err := loadDomain(args[0])
		if err != nil {
			return err
		}
		if len(c.TypeNames) == 0 {
			return fmt.Errorf("%s declares no types", args[0])
		}
		start := time.Now()
		if err := runStress(cmd.Context(), c, workers, rounds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d workers x %d rounds over %d types in %s, %d type infos built\n",
			workers, rounds, len(c.TypeNames), time.Since(start).Round(time.Millisecond), len(c.Domain.Types()))
		return nil
	},
}

func init() {
	stressCmd.Flags().Int("workers", runtime.GOMAXPROCS(0), "number of concurrent workers")
	stressCmd.Flags().Int("rounds", 1000, "rounds per worker")
}

func runStress(ctx context.Context, c *manifest.Compiled, workers, rounds int) error {
	d := c.Domain
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := range workers {
		g.Go(func() error {
			for r := range rounds {
				if err := gctx.Err(); err != nil {
					return err
				}
				name := c.TypeNames[(w+r)%len(c.TypeNames)]
				obj, err := c.NewObject(name)
				if err != nil {
					return err
				}
				if obj.Type() != c.Types[name] {
					return fmt.Errorf("type %q: interned twice", name)
				}
				if n := d.NumMixins(); n > 0 {
					toggle := kumiai.MixinID((w + r) % n)
					if obj.Has(toggle) {
						obj.Remove(toggle)
					} else {
						obj.Add(toggle)
					}
				}
				if obj.Type() != d.Compose(obj.Type().Mixins()...) {
					return fmt.Errorf("type %s: interned twice", obj.Type())
				}
				for i := range d.NumMessages() {
					if _, err := send(obj, kumiai.MessageID(i), "collect", nil); err != nil && !errors.Is(err, kumiai.ErrNotImplemented) {
						return err
					}
				}
				obj.Destroy()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, t := range d.Types() {
		if n := t.NumObjects(); n != 0 {
			return fmt.Errorf("type %s: %d objects still counted", t, n)
		}
	}
	return nil
}
