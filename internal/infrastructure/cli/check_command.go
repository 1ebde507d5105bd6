package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newCheckCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [command string]",
		Short: "Classify offline with the local rule engine only",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			verdict := container.ClassifyService.QuickCheck(command)

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

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the verdict as JSON")
	return cmd
}
