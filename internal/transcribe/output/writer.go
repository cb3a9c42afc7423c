// Package output writes transcription results into the workspace.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OutputOptions configures output writing.
type OutputOptions struct {
	OutputDir    string
	TemplatePath string
	SourceFile   string
	Timestamp    time.Time
	Duration     time.Duration
}

// Writer saves transcripts as Markdown notes.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write saves the transcript text and returns the path to the created
// file. If opts.TemplatePath is set, the template is read and the
// transcript is appended; otherwise a plain Markdown note is written.
func (w *Writer) Write(ctx context.Context, transcript string, opts OutputOptions) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if opts.OutputDir == "" {
		return "", fmt.Errorf("output directory is required")
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename, err := w.generateFilename(opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)

	content, err := w.generateContent(transcript, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return outputPath, nil
}

// generateFilename creates a filename in the format
// YYYY-MM-DD-HHmm-transcript.md with collision handling (-2, -3, etc.).
func (w *Writer) generateFilename(opts OutputOptions) (string, error) {
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	baseName := ts.Format("2006-01-02-1504") + "-transcript"
	ext := ".md"

	filename := baseName + ext
	candidate := filepath.Join(opts.OutputDir, filename)

	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return filename, nil
	}

	for i := 2; i <= 1000; i++ {
		filename = fmt.Sprintf("%s-%d%s", baseName, i, ext)
		candidate = filepath.Join(opts.OutputDir, filename)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return filename, nil
		}
	}

	return "", fmt.Errorf("too many files with same timestamp")
}

// generateContent creates the file content, optionally using a template.
func (w *Writer) generateContent(transcript string, opts OutputOptions) (string, error) {
	if opts.TemplatePath != "" {
		return w.generateFromTemplate(transcript, opts)
	}
	return w.generatePlainMarkdown(transcript, opts), nil
}

// generateFromTemplate reads the template file and appends the transcript.
func (w *Writer) generateFromTemplate(transcript string, opts OutputOptions) (string, error) {
	templateContent, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	var sb strings.Builder
	sb.Write(templateContent)

	if len(templateContent) > 0 && templateContent[len(templateContent)-1] != '\n' {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(transcript)
	if !strings.HasSuffix(transcript, "\n") {
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// generatePlainMarkdown creates a simple Markdown note around the transcript.
func (w *Writer) generatePlainMarkdown(transcript string, opts OutputOptions) string {
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var sb strings.Builder
	sb.WriteString("# Transcript\n\n")
	sb.WriteString(fmt.Sprintf("**Date:** %s\n\n", ts.Format("2006-01-02 15:04")))

	if opts.SourceFile != "" {
		sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", filepath.Base(opts.SourceFile)))
	}
	if opts.Duration > 0 {
		sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", opts.Duration.Round(time.Second)))
	}

	sb.WriteString("## Transcript\n\n")
	sb.WriteString(transcript)
	if !strings.HasSuffix(transcript, "\n") {
		sb.WriteString("\n")
	}

	return sb.String()
}
