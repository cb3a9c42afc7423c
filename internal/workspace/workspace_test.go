package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit_CreatesMarkerAndFolders(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := Init(tmpDir, "my-records")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if result.AlreadyExisted {
		t.Error("expected fresh workspace")
	}

	if !IsWorkspace(tmpDir) {
		t.Error("expected IsWorkspace to report true after Init")
	}

	for _, folder := range []string{"Inbox", "Journal", "Archive"} {
		if _, err := os.Stat(filepath.Join(tmpDir, folder)); err != nil {
			t.Errorf("expected folder %s to exist: %v", folder, err)
		}
	}
}

func TestInit_EmptyNameRejected(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := Init(tmpDir, ""); err != ErrNameEmpty {
		t.Errorf("expected ErrNameEmpty, got: %v", err)
	}
}

func TestInit_ExistingWorkspaceCreatesMissingFolders(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Init(tmpDir, "first"); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := os.Remove(filepath.Join(tmpDir, "Inbox")); err != nil {
		t.Fatalf("failed to remove folder: %v", err)
	}

	result, err := Init(tmpDir, "second")
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if !result.AlreadyExisted {
		t.Error("expected AlreadyExisted")
	}
	if len(result.FoldersCreated) != 1 || result.FoldersCreated[0] != "Inbox" {
		t.Errorf("expected only Inbox recreated, got: %v", result.FoldersCreated)
	}
}

func TestFindRootFrom_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := Init(tmpDir, "root"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	nested := filepath.Join(tmpDir, "Journal", "2024")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	root, err := FindRootFrom(nested)
	if err != nil {
		t.Fatalf("FindRootFrom failed: %v", err)
	}
	// Resolve symlinks; t.TempDir may sit behind one on macOS
	wantRoot, _ := filepath.EvalSymlinks(tmpDir)
	gotRoot, _ := filepath.EvalSymlinks(root)
	if gotRoot != wantRoot {
		t.Errorf("expected root %s, got %s", wantRoot, gotRoot)
	}
}

func TestFindRootFrom_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := FindRootFrom(tmpDir); err != ErrNotInWorkspace {
		t.Errorf("expected ErrNotInWorkspace, got: %v", err)
	}
}

func TestFindRoot_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := Init(tmpDir, "env-root"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	t.Setenv(EnvRoot, tmpDir)

	root, err := FindRoot()
	if err != nil {
		t.Fatalf("FindRoot failed: %v", err)
	}
	if root != tmpDir {
		t.Errorf("expected %s, got %s", tmpDir, root)
	}
}

func TestFindRoot_EnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvRoot, t.TempDir())

	if _, err := FindRoot(); err != ErrNotInWorkspace {
		t.Errorf("expected ErrNotInWorkspace, got: %v", err)
	}
}
