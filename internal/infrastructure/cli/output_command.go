package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newOutputCommand(container *app.Container) *cobra.Command {
	outputCmd := &cobra.Command{
		Use:   "output",
		Short: "Inspect buffered command output",
	}

	outputCmd.AddCommand(
		newOutputShowCommand(container),
		newOutputStatsCommand(container),
		newOutputClearCommand(container),
	)

	return outputCmd
}

func newOutputShowCommand(container *app.Container) *cobra.Command {
	var (
		lines int
		full  bool
	)

	cmd := &cobra.Command{
		Use:   "show [record id]",
		Short: "Print stored output for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if full {
				text, ok := container.OutputStore.Full(id)
				if !ok {
					return fmt.Errorf("no output record %s", id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			text, ok := container.OutputStore.LastLines(id, lines)
			if !ok {
				return fmt.Errorf("no output record %s", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of trailing lines (default 100)")
	cmd.Flags().BoolVar(&full, "full", false, "Print the complete output")
	return cmd
}

func newOutputStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show output-store entry counts and bounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := container.OutputStore.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Capacity: %d\nTTL: %s\nEntries: %d (%d active, %d expired)\n",
				stats.Capacity, stats.TTL, stats.Total, stats.Active, stats.Expired)
			return nil
		},
	}
}

func newOutputClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all buffered output",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.OutputStore.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Output store cleared.")
			return nil
		},
	}
}
