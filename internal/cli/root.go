// Package cli implements brainctl, the operator command line for a Second
// Brain deployment. Every command reads the same config file as the server.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/second-brain/core/internal/config"
)

type globalOptions struct {
	configPath string
	jsonOutput bool
	verbose    bool
}

// NewRootCmd builds the brainctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "brainctl",
		Short:        "Capture, summarize and query your second brain from the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "Path to YAML config file")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Write logs to stderr")

	root.AddCommand(
		newExtractCmd(opts),
		newSummarizeCmd(opts),
		newAskCmd(opts),
		newAddCmd(opts),
	)
	return root
}

// Execute runs brainctl and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
