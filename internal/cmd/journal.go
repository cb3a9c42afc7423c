package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TechnicallyShaun/acta-orbis/internal/journal"
)

// NewJournalCmd creates the journal command group
func NewJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Split and organize date-stamped journals",
		Long:  "Commands for splitting journal streams into per-date notes and organizing dated files",
	}

	cmd.AddCommand(newJournalSplitCmd())
	cmd.AddCommand(newJournalOrganizeCmd())
	cmd.AddCommand(newJournalConvertCmd())

	return cmd
}

func newJournalSplitCmd() *cobra.Command {
	var (
		outDir       string
		ext          string
		yearDirs     bool
		deleteSource bool
	)

	cmd := &cobra.Command{
		Use:   "split <input> [annotation]",
		Short: "Split a journal file into one note per date",
		Long: "Split a journal file on its date boundary lines into one note per date, " +
			"merging into existing notes when a date already has one. The input file is " +
			"kept by default; pass --delete to remove it after a run with no errors",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			annotation := ""
			if len(args) == 2 {
				annotation = args[1]
			}

			logger := commandLogger(cmd, "split")
			splitter := &journal.Splitter{
				Resolver: &journal.Resolver{
					OutputRoot: outDir,
					Ext:        ext,
					YearDirs:   yearDirs,
					Annotation: annotation,
					Logger:     logger,
				},
				Logger:       logger,
				DeleteSource: deleteSource,
			}

			summary, err := splitter.SplitFile(args[0])
			if err != nil {
				return err
			}
			summary.Write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write notes into")
	cmd.Flags().StringVar(&ext, "ext", journal.DefaultExt, "extension for created notes")
	cmd.Flags().BoolVar(&yearDirs, "year-dirs", false, "nest notes under per-year directories")
	cmd.Flags().BoolVar(&deleteSource, "delete", false, "delete the input file after a fully clean run")

	return cmd
}

func newJournalOrganizeCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "organize <dir>",
		Short: "Move date-named files into per-year directories",
		Long: "Move files whose names carry a YYYY_MM_DD date into per-year directories, " +
			"merging into the existing note when a date already has one",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := commandLogger(cmd, "organize")

			out := outDir
			if out == "" {
				out = args[0]
			}

			organizer := &journal.Organizer{
				OutputRoot: out,
				Logger:     logger,
			}

			summary, err := organizer.OrganizeDir(args[0])
			if err != nil {
				return err
			}
			summary.Write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to organize into (default: the input directory)")

	return cmd
}

func newJournalConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <dir>",
		Short: "Rename journal files to their creation date",
		Long: "Rename every file under a directory to its creation date in YYYY_MM_DD form, " +
			"stamping the original name into the file as a header",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			converter := &journal.Converter{Logger: commandLogger(cmd, "convert")}

			summary, err := converter.ConvertDir(args[0])
			if err != nil {
				return err
			}
			summary.Write(cmd.OutOrStdout())
			return nil
		},
	}
}
