package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewRootCmd(t *testing.T) {
	rootCmd := NewRootCmd()

	if rootCmd.Use != "acta" {
		t.Errorf("expected Use to be 'acta', got '%s'", rootCmd.Use)
	}

	// Verify subcommands are registered
	subcommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		subcommands[strings.Fields(cmd.Use)[0]] = true
	}

	expected := []string{"init", "journal", "files", "transcribe", "version"}
	for _, name := range expected {
		if !subcommands[name] {
			t.Errorf("expected subcommand '%s' to be registered", name)
		}
	}
}

func TestRootCmdVerboseFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent --verbose flag")
	}
}

func TestCommandsLogToDailyFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	workDir := t.TempDir()
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"journal", "convert", workDir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	logPath := filepath.Join(home, ".acta", "logs",
		"acta-"+time.Now().UTC().Format("2006-01-02")+".log")
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("expected daily log file at %s: %v", logPath, err)
	}
}

func TestVerboseLogsToStderrNotFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "note.md"), []byte("x\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var errBuf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errBuf)
	cmd.SetArgs([]string{"--verbose", "journal", "convert", workDir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if errBuf.Len() == 0 {
		t.Error("expected verbose log output on stderr")
	}
	if _, err := os.Stat(filepath.Join(home, ".acta", "logs")); !os.IsNotExist(err) {
		t.Error("verbose run should not create the log directory")
	}
}
