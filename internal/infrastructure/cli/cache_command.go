package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the verdict cache",
	}

	cacheCmd.AddCommand(
		newCacheStatsCommand(container),
		newCacheClearCommand(container),
		newCacheSweepCommand(container),
	)

	return cacheCmd
}

func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show verdict-cache entry counts and bounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.ClassifyService.ClearCache()
			fmt.Fprintln(cmd.OutOrStdout(), "Verdict cache cleared.")
			return nil
		},
	}
}

func newCacheSweepCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Drop expired verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := container.ClassifyService.SweepCache()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", removed)
			return nil
		},
	}
}

func showCacheStats(out io.Writer, container *app.Container) error {
	stats := container.ClassifyService.CacheStats()
	fmt.Fprintf(out, "Capacity: %d\nTTL: %s\nEntries: %d (%d active, %d expired)\n",
		stats.Capacity, stats.TTL, stats.Total, stats.Active, stats.Expired)
	return nil
}
