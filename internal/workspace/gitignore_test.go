package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddToIgnoreFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	if err := os.WriteFile(path, []byte("node_modules/\n.env\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AddToIgnoreFile(root, "packages/foo"); err != nil {
		t.Fatalf("AddToIgnoreFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "/packages/foo") {
		t.Errorf("expected '/packages/foo' line, got:\n%s", string(content))
	}
}

func TestAddToIgnoreFileIdempotent(t *testing.T) {
	root := t.TempDir()

	if err := AddToIgnoreFile(root, "packages/foo"); err != nil {
		t.Fatal(err)
	}
	if err := AddToIgnoreFile(root, "packages/foo"); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if count := strings.Count(string(content), "/packages/foo"); count != 1 {
		t.Errorf("expected exactly 1 occurrence, found %d in:\n%s", count, string(content))
	}
}

func TestAddToIgnoreFileNoTrailingNewline(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	if err := os.WriteFile(path, []byte("node_modules/"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AddToIgnoreFile(root, "packages/foo"); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "/packages/foo" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected '/packages/foo' on its own line, got:\n%s", string(content))
	}
}

func TestRemoveFromIgnoreFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	initial := "node_modules/\n/packages/foo\n/packages/bar\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveFromIgnoreFile(root, "packages/foo"); err != nil {
		t.Fatalf("RemoveFromIgnoreFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "/packages/foo") {
		t.Errorf("expected '/packages/foo' removed, got:\n%s", string(content))
	}
	if !strings.Contains(string(content), "/packages/bar") {
		t.Errorf("expected '/packages/bar' to remain, got:\n%s", string(content))
	}
}

func TestRemoveFromIgnoreFileMissing(t *testing.T) {
	root := t.TempDir()

	if err := RemoveFromIgnoreFile(root, "packages/ghost"); err != nil {
		t.Fatalf("RemoveFromIgnoreFile() error = %v", err)
	}
}
