package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai"
	"github.com/edwinsyarief/kumiai/internal/manifest"
)

var (
	typeColor    = color.New(color.FgYellow, color.Bold)
	messageColor = color.New(color.FgCyan)
	classColor   = color.New(color.FgGreen)
	defaultColor = color.New(color.FgHiBlack)
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <domain.toml> [type...]",
	Short: "Print the composition, type classes and call table of each type",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadDomain(args[0])
		if err != nil {
			return err
		}
		names := c.TypeNames
		if len(args) > 1 {
			names = args[1:]
		}
		for _, name := range names {
			t, ok := c.Types[name]
			if !ok {
				return fmt.Errorf("unknown type %q", name)
			}
			printType(cmd.OutOrStdout(), c, name, t)
		}
		return nil
	},
}

func printType(w io.Writer, c *manifest.Compiled, name string, t *kumiai.TypeInfo) {
	fmt.Fprintf(w, "%s %s\n", typeColor.Sprint(name), t)
	if classes := t.TypeClassNames(); len(classes) > 0 {
		fmt.Fprintf(w, "  is: %s\n", classColor.Sprint(strings.Join(classes, ", ")))
	}
	d := c.Domain
	for i := range d.NumMessages() {
		msg := kumiai.MessageID(i)
		rs := t.Responders(msg)
		if len(rs) == 0 {
			continue
		}
		parts := make([]string, len(rs))
		for j, r := range rs {
			if r.Default {
				parts[j] = defaultColor.Sprint(kumiai.DefaultResponderName)
				continue
			}
			parts[j] = fmt.Sprintf("%s(%d)", d.MixinName(r.Mixin), r.Bid)
		}
		fmt.Fprintf(w, "  %s [%s]: %s\n", messageColor.Sprint(d.MessageName(msg)), d.MessageKindOf(msg), strings.Join(parts, " > "))
	}
}
