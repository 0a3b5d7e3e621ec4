package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai/internal/snapfile"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <domain.toml>",
	Short: "Write a msgpack snapshot of a domain, or print a stored one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		in, _ := cmd.Flags().GetString("read")
		if in != "" {
			s, err := snapfile.Read(in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d mixins, %d messages, %d type classes\n", len(s.Mixins), len(s.Messages), len(s.TypeClasses))
			for _, t := range s.Types {
				fmt.Fprintf(w, "%s %v objects=%d\n", typeColor.Sprint(t.Mixins), t.TypeClasses, t.Objects)
				for _, m := range t.Messages {
					fmt.Fprintf(w, "  %s: %v %v\n", messageColor.Sprint(m.Message), m.Responders, m.Bids)
				}
			}
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("a domain file or --read is required")
		}
		c, err := loadDomain(args[0])
		if err != nil {
			return err
		}
		if out == "" {
			return snapfile.Encode(cmd.OutOrStdout(), c.Domain.Snapshot())
		}
		return snapfile.Write(out, c.Domain.Snapshot())
	},
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "", "snapshot file to write (stdout when empty)")
	snapshotCmd.Flags().String("read", "", "print a stored snapshot instead of building one")
}
