package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
)

// NewRootCmd creates the root command for the acta CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "acta",
		Short: "Date-driven journal and file organization toolkit",
		Long:  "Acta Orbis - splits and organizes date-stamped journals, sorts and merges file trees, and transcribes audio recordings",
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewJournalCmd())
	rootCmd.AddCommand(NewFilesCmd())
	rootCmd.AddCommand(NewTranscribeCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// commandLogger returns a stderr logger when --verbose is set and the
// daily-rotated file logger otherwise, tagged with the command's
// component name. A command that cannot open its log file still runs,
// silently.
func commandLogger(cmd *cobra.Command, component string) logging.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return logging.NewStream(cmd.ErrOrStderr(), logging.LevelDebug)
	}
	logger, err := logging.New(logging.DefaultConfig())
	if err != nil {
		return logging.Nop()
	}
	return logger.WithComponent(component)
}
