package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyxed/rentcrawl/internal/app"
	"github.com/fyxed/rentcrawl/internal/config"
)

func newCrawlCmd() *cobra.Command {
	var (
		cities   []string
		sources  []string
		maxItems int
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl over the configured sources",
		Long: `Enumerates seed URLs for every configured source and city, walks
their list pages and upserts extracted listings into the store. The
health and metrics endpoint serves for the duration of the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(cities) > 0 {
				cfg.Crawler.Cities = cities
			}
			if len(sources) > 0 {
				cfg.Crawler.Sources = sources
			}
			if cmd.Flags().Changed("max-items") {
				cfg.Crawler.MaxItems = maxItems
			}

			a, err := app.Build(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&cities, "cities", nil, "override the configured city list")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "override the configured source list")
	cmd.Flags().IntVar(&maxItems, "max-items", 0, "cap on records per source (0 = unlimited)")

	return cmd
}
