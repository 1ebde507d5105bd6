package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newClassifyCommand(container *app.Container) *cobra.Command {
	var (
		timeout time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "classify [command string]",
		Short: "Classify a command through the full pipeline (cache, reasoner, rules fallback)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			command := strings.Join(args, " ")
			verdict := container.ClassifyService.Classify(ctx, command)

			if asJSON {
				encoded, err := json.MarshalIndent(verdict, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}
			renderVerdict(cmd.OutOrStdout(), command, verdict)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall classification deadline")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the verdict as JSON")

	return cmd
}
