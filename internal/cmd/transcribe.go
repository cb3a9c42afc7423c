package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe"
	"github.com/TechnicallyShaun/acta-orbis/internal/workspace"
)

// Prompter defines the interface for reading user input
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// StdinPrompter reads from stdin
type StdinPrompter struct {
	reader *bufio.Reader
}

// NewStdinPrompter creates a prompter that reads from stdin
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{reader: bufio.NewReader(os.Stdin)}
}

// Prompt displays a prompt and reads user input
func (p *StdinPrompter) Prompt(prompt string) (string, error) {
	fmt.Print(prompt)
	input, err := p.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReaderPrompter reads from a provided reader (for testing)
type ReaderPrompter struct {
	reader *bufio.Reader
}

// NewReaderPrompter creates a prompter that reads from the provided reader
func NewReaderPrompter(r io.Reader) *ReaderPrompter {
	return &ReaderPrompter{reader: bufio.NewReader(r)}
}

// Prompt reads input from the reader
func (p *ReaderPrompter) Prompt(prompt string) (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// NewTranscribeCmd creates the transcribe command. Given an audio file
// it runs the pipeline; the config subcommand sets up the workspace
// configuration.
func NewTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio recording into a note",
		Long:  "Transcribe an audio recording into a Markdown note with speaker attribution, then archive the recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranscribe,
	}

	cmd.AddCommand(NewTranscribeConfigCmd(nil))

	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := transcribe.Load()
	if err != nil {
		return fmt.Errorf("failed to load transcription config (run 'acta transcribe config' first): %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid transcription config: %w", err)
	}

	service := transcribe.NewService(cfg, commandLogger(cmd, "transcribe"))
	result, err := service.ProcessFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transcript written to %s\n", result.OutputPath)
	if result.ArchivePath != "" {
		fmt.Fprintf(out, "Audio archived to %s\n", result.ArchivePath)
	}
	return nil
}

// NewTranscribeConfigCmd creates the config subcommand
func NewTranscribeConfigCmd(prompter Prompter) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Configure transcription",
		Long:  "Interactive configuration for the transcription pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prompter
			if p == nil {
				p = NewStdinPrompter()
			}
			return runTranscribeConfig(cmd, p)
		},
	}
}

func runTranscribeConfig(cmd *cobra.Command, prompter Prompter) error {
	root, err := workspace.FindRoot()
	if err != nil {
		return fmt.Errorf("not in a workspace: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Transcription Configuration")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out, "")

	apiURL, err := promptRequired(prompter, "Transcription API URL [required]: ")
	if err != nil {
		return err
	}

	outputDir, err := promptRequired(prompter, "Output folder [required]: ")
	if err != nil {
		return err
	}

	diarizeURL, err := prompter.Prompt("Diarization API URL [optional]: ")
	if err != nil {
		return err
	}

	templatePath, err := prompter.Prompt("Note template path [optional]: ")
	if err != nil {
		return err
	}

	archiveDir, err := prompter.Prompt(fmt.Sprintf("Archive folder [default %s]: ", transcribe.DefaultArchiveDir))
	if err != nil {
		return err
	}

	cfg := &transcribe.Config{
		APIURL:       apiURL,
		DiarizeURL:   diarizeURL,
		OutputDir:    outputDir,
		TemplatePath: templatePath,
		ArchiveDir:   archiveDir,
	}
	cfg.ApplyDefaults()

	if err := cfg.SaveToWorkspace(root); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Configuration saved to %s\n", filepath.Join(root, workspace.MarkerDir, transcribe.ConfigFileName))
	return nil
}

// promptRequired keeps prompting until the user enters a non-empty value.
func promptRequired(prompter Prompter, prompt string) (string, error) {
	for {
		value, err := prompter.Prompt(prompt)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
}
