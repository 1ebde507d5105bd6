package cli

import (
	"fmt"
	"io"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newAuditCommand(container *app.Container) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect or clear the classification audit log",
	}

	auditCmd.AddCommand(
		newAuditRecentCommand(container),
		newAuditClearCommand(container),
	)

	return auditCmd
}

func newAuditRecentCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent classifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRecentAudits(cmd.OutOrStdout(), container, limit, search)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show")
	cmd.Flags().StringVar(&search, "search", "", "Filter by command substring")
	return cmd
}

func newAuditClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.AuditStore == nil {
				return fmt.Errorf("audit log disabled in configuration")
			}
			if err := container.AuditStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear audit log: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Audit log cleared.")
			return nil
		},
	}
}

func listRecentAudits(out io.Writer, container *app.Container, limit int, search string) error {
	if container.AuditStore == nil {
		return fmt.Errorf("audit log disabled in configuration")
	}
	records, err := container.AuditStore.Recent(limit, search)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No audit records.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%-12s %-9s %-6s %s\n",
			humanize.Time(rec.Timestamp),
			strings.ToUpper(string(rec.Level)),
			rec.Source,
			rec.Command)
	}
	return nil
}
