package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	classifyCmd := newClassifyCommand(container)

	root := &cobra.Command{
		Use:   "cmdgate [command string]",
		Short: "cmdgate - risk gate for shell commands",
		Long:  "cmdgate classifies shell commands as safe, moderate or dangerous before an automation agent runs them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			classifyCmd.SetArgs(args)
			return classifyCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(classifyCmd)
	root.AddCommand(newCheckCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newOutputCommand(container))
	root.AddCommand(newAuditCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
