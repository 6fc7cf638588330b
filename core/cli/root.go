package cli

import (
	"github.com/spf13/cobra"
)

// Persistent flag names shared by every subcommand.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagNoColor = "no-color"
)

// NewRootCmd creates the top-level factdiff command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factdiff",
		Short: "Structural diff for Factorio API documentation",
		Long: "factdiff compares two versions of the Factorio runtime API documentation and reports\n" +
			"added, removed and modified classes, members, events, defines, concepts and globals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version

	cmd.PersistentFlags().String(flagConfig, "", "Config file (default .factdiff.{yaml,toml,json} in the working or home directory)")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Log debug diagnostics to stderr")
	cmd.PersistentFlags().Bool(flagNoColor, false, "Disable coloured output")

	return cmd
}
