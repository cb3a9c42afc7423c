package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe"
	"github.com/TechnicallyShaun/acta-orbis/internal/workspace"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if _, err := workspace.Init(root, "test"); err != nil {
		t.Fatalf("failed to init workspace: %v", err)
	}
	t.Setenv(workspace.EnvRoot, root)
	return root
}

func TestTranscribeConfigCmd_SavesConfig(t *testing.T) {
	root := setupWorkspace(t)

	input := strings.Join([]string{
		"http://nas:9000/asr",
		"/home/user/notes/Inbox",
		"",
		"",
		"",
	}, "\n") + "\n"

	var buf bytes.Buffer
	cmd := NewTranscribeConfigCmd(NewReaderPrompter(strings.NewReader(input)))
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	cfg, err := transcribe.LoadFromWorkspace(root)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if cfg.APIURL != "http://nas:9000/asr" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.OutputDir != "/home/user/notes/Inbox" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Model != transcribe.DefaultModel {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if !strings.Contains(buf.String(), "Configuration saved to") {
		t.Errorf("expected confirmation message, got: %q", buf.String())
	}
}

func TestTranscribeConfigCmd_RepromptsOnEmptyRequired(t *testing.T) {
	setupWorkspace(t)

	// Two blank lines before the API URL: promptRequired keeps asking.
	input := "\n\nhttp://nas:9000/asr\n/out\n\n\n\n"

	cmd := NewTranscribeConfigCmd(NewReaderPrompter(strings.NewReader(input)))
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestTranscribeConfigCmd_FailsOutsideWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(workspace.EnvRoot, "")
	chdir(t, tmpDir)

	cmd := NewTranscribeConfigCmd(NewReaderPrompter(strings.NewReader("")))
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error outside a workspace")
	}
}

func TestTranscribeCmd_RunsPipeline(t *testing.T) {
	root := setupWorkspace(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "hello", "segments": [{"start": 0, "end": 1, "text": "hello", "words": []}]}`))
	}))
	defer server.Close()

	outDir := filepath.Join(root, "Inbox")
	cfg := &transcribe.Config{
		APIURL:     server.URL,
		OutputDir:  outDir,
		ArchiveDir: filepath.Join(root, "Archive"),
	}
	if err := cfg.SaveToWorkspace(root); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	audio := filepath.Join(root, "memo.m4a")
	if err := os.WriteFile(audio, []byte("fake audio"), 0644); err != nil {
		t.Fatalf("failed to write audio: %v", err)
	}

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"transcribe", audio})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.Contains(buf.String(), "Transcript written to") {
		t.Errorf("expected transcript message, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Audio archived to") {
		t.Errorf("expected archive message, got: %q", buf.String())
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Error("expected audio archived away from source path")
	}
}

func TestTranscribeCmd_FailsWithoutConfig(t *testing.T) {
	setupWorkspace(t)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"transcribe", "memo.m4a"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when config missing")
	}
}
