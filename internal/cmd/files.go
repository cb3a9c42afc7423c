package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TechnicallyShaun/acta-orbis/internal/files"
)

// NewFilesCmd creates the files command group
func NewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Sort and merge file trees",
		Long:  "Commands for sorting files into per-extension folders and merging directory trees",
	}

	cmd.AddCommand(newFilesSortCmd())
	cmd.AddCommand(newFilesMergeCmd())

	return cmd
}

func newFilesSortCmd() *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "sort <dir>",
		Short: "Gather files into per-extension folders",
		Long: "Move every file of the selected extensions found under a directory tree " +
			"into a folder named after its extension at the tree root",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sorter := &files.Sorter{Logger: commandLogger(cmd, "sort")}

			summary, err := sorter.SortByExtension(args[0], extensions)
			if err != nil {
				return err
			}
			summary.Write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&extensions, "ext", "e", nil, "extensions to sort (e.g. -e pdf -e jpg)")
	cmd.MarkFlagRequired("ext")

	return cmd
}

func newFilesMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <input-dir> <output-dir>",
		Short: "Merge one directory tree into another",
		Long: "Move the contents of one directory tree into another, dropping files the " +
			"output already holds with the same name and size",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			merger := &files.DirMerger{Logger: commandLogger(cmd, "merge")}

			summary, err := merger.Merge(args[0], args[1])
			if err != nil {
				return err
			}
			summary.Write(cmd.OutOrStdout())
			return nil
		},
	}
}
