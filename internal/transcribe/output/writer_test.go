package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWritePlainMarkdown(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	opts := OutputOptions{
		OutputDir:  dir,
		SourceFile: "/audio/memo.m4a",
		Timestamp:  time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		Duration:   95 * time.Second,
	}

	path, err := w.Write(context.Background(), "hello world", opts)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if filepath.Base(path) != "2024-06-01-1430-transcript.md" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		"# Transcript",
		"**Date:** 2024-06-01 14:30",
		"**Source:** memo.m4a",
		"**Duration:** 1m35s",
		"hello world\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
}

func TestWriteCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	opts := OutputOptions{
		OutputDir: dir,
		Timestamp: time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
	}

	first, err := w.Write(context.Background(), "one", opts)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	second, err := w.Write(context.Background(), "two", opts)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	third, err := w.Write(context.Background(), "three", opts)
	if err != nil {
		t.Fatalf("third write failed: %v", err)
	}

	if filepath.Base(first) != "2024-06-01-1430-transcript.md" {
		t.Errorf("unexpected first filename %q", filepath.Base(first))
	}
	if filepath.Base(second) != "2024-06-01-1430-transcript-2.md" {
		t.Errorf("unexpected second filename %q", filepath.Base(second))
	}
	if filepath.Base(third) != "2024-06-01-1430-transcript-3.md" {
		t.Errorf("unexpected third filename %q", filepath.Base(third))
	}
}

func TestWriteWithTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.md")
	if err := os.WriteFile(tmpl, []byte("---\ntags: [transcript]\n---"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	w := NewWriter()
	opts := OutputOptions{
		OutputDir:    dir,
		TemplatePath: tmpl,
		Timestamp:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	path, err := w.Write(context.Background(), "body text", opts)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "---\ntags: [transcript]\n---\n\nbody text\n"
	if string(data) != want {
		t.Errorf("template output mismatch:\ngot:  %q\nwant: %q", string(data), want)
	}
}

func TestWriteMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	opts := OutputOptions{
		OutputDir:    dir,
		TemplatePath: filepath.Join(dir, "nope.md"),
	}

	if _, err := w.Write(context.Background(), "text", opts); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestWriteCancelledContext(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Write(ctx, "text", OutputOptions{OutputDir: dir}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
