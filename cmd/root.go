// Package cmd defines the CLI commands for the rentcrawl executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rentcrawl",
		Short: "A config-driven crawler for Dutch rental listing sites.",
		Long: `rentcrawl walks the list pages of configured rental sites, extracts
candidate listings from their detail pages and upserts them into the
store keyed by (source, sourceId), so unlimited re-crawls converge on
one document per listing.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (defaults and RENTCRAWL_ env vars apply without one)")

	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute is the CLI entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
