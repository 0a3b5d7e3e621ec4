package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/edwinsyarief/kumiai"
	"github.com/edwinsyarief/kumiai/internal/manifest"
)

var rootCmd = &cobra.Command{
	Use:   "kumiai",
	Short: "Inspect and exercise mixin domains",
	Long:  `kumiai loads a TOML domain description, composes its types and dispatches messages against them`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetCount("verbose")
		commonlog.Configure(verbose, nil)
		switch mode, _ := cmd.Flags().GetString("color"); mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		}
	},
	SilenceUsage: true,
}

// main registers the subcommands and persistent flags, then executes the root
// command. A failing command exits with status code 1.
func main() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(stressCmd)

	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDomain reads the manifest at path into a fresh domain.
func loadDomain(path string) (*manifest.Compiled, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Apply(kumiai.NewDomain())
}
