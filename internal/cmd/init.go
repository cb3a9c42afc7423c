package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TechnicallyShaun/acta-orbis/internal/workspace"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Initialize a new workspace",
		Long:  "Initialize a new workspace in the current directory with the specified name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			result, err := workspace.Init(".", name)
			if err != nil {
				return err
			}

			if result.AlreadyExisted {
				if len(result.FoldersCreated) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Workspace already initialized. Created missing folders: %v\n", result.FoldersCreated)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Workspace already initialized\n")
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace '%s'\n", name)
			}
			return nil
		},
	}
}
