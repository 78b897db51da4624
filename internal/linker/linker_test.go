package linker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/platform"
	"github.com/monolink-labs/monolink/internal/workspace"
	"github.com/rs/zerolog"
)

// fixture builds a monorepo root and an external package source directory.
func fixture(t *testing.T) (root string, d *descriptor.Descriptor, opts config.Options) {
	t.Helper()

	root = t.TempDir()
	src := t.TempDir()

	hostJSON := `{"dependencies": {"@ns/foo": "1.4.0"}}`
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(hostJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	pkgJSON := `{"name": "@ns/foo", "version": "2.0.0"}`
	if err := os.WriteFile(filepath.Join(src, "package.json"), []byte(pkgJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(src, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "src", "index.ts"), []byte("export const foo = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d = &descriptor.Descriptor{
		SourceDir:   src,
		Name:        "@ns/foo",
		Version:     "2.0.0",
		Destination: "packages/foo",
		Key:         "packages/foo",
	}
	opts = config.Options{
		Root:           root,
		LinkMode:       platform.LinkModeHard,
		MaxConcurrency: 1,
		Logger:         zerolog.Nop(),
	}
	return root, d, opts
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestInjectScenario(t *testing.T) {
	root, d, opts := fixture(t)

	broken, err := Inject(d, opts)
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("unexpected broken links: %v", broken)
	}

	// Destination file is hard-linked: identity check passes.
	srcFile := filepath.Join(d.SourceDir, "src", "index.ts")
	dstFile := filepath.Join(root, "packages", "foo", "src", "index.ts")
	same, err := platform.LinkModeHard.Same(srcFile, dstFile)
	if err != nil {
		t.Fatalf("Same() error = %v", err)
	}
	if !same {
		t.Error("destination file is not hard-linked to its source")
	}

	// Ignore file contains the destination line.
	if !strings.Contains(readFile(t, filepath.Join(root, ".gitignore")), "/packages/foo") {
		t.Error("expected /packages/foo in .gitignore")
	}

	// Alias table points at the destination index file.
	aliases, err := workspace.LoadAliases(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := aliases["@ns/foo"]; len(got) != 1 || got[0] != "packages/foo/src/index.ts" {
		t.Errorf("alias = %v, want [packages/foo/src/index.ts]", got)
	}

	// Pre-existing host dependency was removed and its version recorded.
	host, err := workspace.LoadHostManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := host.Dependencies["@ns/foo"]; ok {
		t.Error("expected @ns/foo removed from host dependencies")
	}

	man, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := man.Get("packages/foo")
	if !ok {
		t.Fatal("expected manifest entry after inject")
	}
	if entry.RecordedVersion != "1.4.0" || entry.RecordedDev {
		t.Errorf("entry recorded (%q, dev=%v), want (1.4.0, dev=false)", entry.RecordedVersion, entry.RecordedDev)
	}
}

func TestInjectIdempotent(t *testing.T) {
	root, d, opts := fixture(t)

	if _, err := Inject(d, opts); err != nil {
		t.Fatalf("first Inject() error = %v", err)
	}

	tsconfig1 := readFile(t, filepath.Join(root, "tsconfig.json"))
	host1 := readFile(t, filepath.Join(root, "package.json"))
	manifest1 := readFile(t, ManifestPath(root))

	if _, err := Inject(d, opts); err != nil {
		t.Fatalf("second Inject() error = %v", err)
	}

	if got := readFile(t, filepath.Join(root, "tsconfig.json")); got != tsconfig1 {
		t.Error("alias table changed on a no-op re-inject")
	}
	if got := readFile(t, filepath.Join(root, "package.json")); got != host1 {
		t.Error("host manifest changed on a no-op re-inject")
	}
	if got := readFile(t, ManifestPath(root)); got != manifest1 {
		t.Error("manifest changed on a no-op re-inject")
	}
}

func TestInjectMissingSource(t *testing.T) {
	_, d, opts := fixture(t)
	d.SourceDir = filepath.Join(d.SourceDir, "nope")

	_, err := Inject(d, opts)
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("expected ErrMissingSource, got %v", err)
	}
}

func TestInjectUntrackedConflict(t *testing.T) {
	root, d, opts := fixture(t)

	// The destination exists but no manifest entry owns it.
	dest := filepath.Join(root, "packages", "foo")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "precious.ts"), []byte("theirs"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Inject(d, opts)
	var conflict *UntrackedConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected UntrackedConflictError, got %v", err)
	}

	// Nothing was overwritten.
	if got := readFile(t, filepath.Join(dest, "precious.ts")); got != "theirs" {
		t.Errorf("untracked content mutated: %q", got)
	}
}

func TestInjectBrokenLinkWarning(t *testing.T) {
	root, d, opts := fixture(t)

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	// Replace a destination file in place, breaking inode identity.
	dstFile := filepath.Join(root, "packages", "foo", "src", "index.ts")
	if err := os.Remove(dstFile); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dstFile, []byte("edited in place\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	broken, err := Inject(d, opts)
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(broken) != 1 {
		t.Fatalf("expected 1 broken link, got %d", len(broken))
	}

	// Without the relink override the divergent file is left untouched.
	if got := readFile(t, dstFile); got != "edited in place\n" {
		t.Errorf("divergent file was mutated without override: %q", got)
	}

	// With the override it is deleted and relinked.
	opts.Relink = true
	broken, err = Inject(d, opts)
	if err != nil {
		t.Fatalf("Inject() with relink error = %v", err)
	}
	if len(broken) != 1 {
		t.Fatalf("expected 1 broken link during relink, got %d", len(broken))
	}
	same, err := platform.LinkModeHard.Same(filepath.Join(d.SourceDir, "src", "index.ts"), dstFile)
	if err != nil {
		t.Fatal(err)
	}
	if !same {
		t.Error("expected file relinked after override")
	}
}

func TestInjectDryRun(t *testing.T) {
	root, d, opts := fixture(t)
	opts.DryRun = true

	if _, err := Inject(d, opts); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "packages")); !os.IsNotExist(err) {
		t.Error("dry-run created the destination tree")
	}
	if _, err := os.Stat(ManifestPath(root)); !os.IsNotExist(err) {
		t.Error("dry-run wrote the manifest")
	}
}

func TestEjectRoundTrip(t *testing.T) {
	root, d, opts := fixture(t)

	hostBefore := readFile(t, filepath.Join(root, "package.json"))

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	// Eject with a fresh descriptor: persisted facts come from the manifest.
	fresh := &descriptor.Descriptor{
		SourceDir:   d.SourceDir,
		Name:        d.Name,
		Destination: d.Destination,
		Key:         d.Key,
	}
	if err := Eject(fresh, opts); err != nil {
		t.Fatalf("Eject() error = %v", err)
	}

	// Host dependency fields restored to their pre-inject values.
	host, err := workspace.LoadHostManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if host.Dependencies["@ns/foo"] != "1.4.0" {
		t.Errorf("host dependency not restored: %v; before inject: %s", host.Dependencies, hostBefore)
	}

	// Alias, manifest entry, and destination are gone.
	aliases, err := workspace.LoadAliases(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := aliases["@ns/foo"]; ok {
		t.Error("alias entry survived eject")
	}
	if _, err := os.Stat(ManifestPath(root)); !os.IsNotExist(err) {
		t.Error("manifest file should be deleted once empty")
	}
	if _, err := os.Stat(filepath.Join(root, "packages", "foo")); !os.IsNotExist(err) {
		t.Error("destination tree survived eject")
	}
}

func TestEjectRefusesToLoseChanges(t *testing.T) {
	root, d, opts := fixture(t)
	opts.LinkMode = platform.LinkModeCopy

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	// Edit the destination copy so it diverges from the source.
	dstFile := filepath.Join(root, "packages", "foo", "src", "index.ts")
	if err := os.WriteFile(dstFile, []byte("local-only changes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Eject(d, opts)
	var unlinked *UnlinkedFileError
	if !errors.As(err, &unlinked) {
		t.Fatalf("expected UnlinkedFileError, got %v", err)
	}

	// Nothing was deleted.
	if _, err := os.Stat(dstFile); err != nil {
		t.Error("eject deleted files despite failing verification")
	}
	man, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := man.Get(d.Key); !ok {
		t.Error("manifest entry removed despite failed eject")
	}
}

func TestEjectUnknownDestinationFile(t *testing.T) {
	root, d, opts := fixture(t)

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	// A file with no source counterpart appears in the destination.
	stray := filepath.Join(root, "packages", "foo", "src", "stray.ts")
	if err := os.WriteFile(stray, []byte("not ours\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Eject(d, opts)
	var unlinked *UnlinkedFileError
	if !errors.As(err, &unlinked) {
		t.Fatalf("expected UnlinkedFileError, got %v", err)
	}
	if unlinked.Path != filepath.Join("src", "stray.ts") {
		t.Errorf("Path = %q, want src/stray.ts", unlinked.Path)
	}
}

func TestEjectMissingSource(t *testing.T) {
	_, d, opts := fixture(t)
	d.SourceDir = filepath.Join(d.SourceDir, "nope")

	if err := Eject(d, opts); !errors.Is(err, ErrMissingSource) {
		t.Errorf("expected ErrMissingSource, got %v", err)
	}
}

func TestManifestRecordsBinDir(t *testing.T) {
	root, d, opts := fixture(t)
	d.BinDir = "bin"

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	man, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := man.Get(d.Key)
	if !ok {
		t.Fatal("expected manifest entry after inject")
	}
	if entry.BinDir != "bin" {
		t.Errorf("BinDir = %q, want bin", entry.BinDir)
	}

	// A later run without local config picks the value up from the entry.
	fresh := &descriptor.Descriptor{
		SourceDir:   d.SourceDir,
		Name:        d.Name,
		Destination: d.Destination,
		Key:         d.Key,
	}
	mergeFromEntry(fresh, entry)
	if fresh.BinDir != "bin" {
		t.Errorf("merged BinDir = %q, want bin", fresh.BinDir)
	}
}

func TestManifestSurvivesReinject(t *testing.T) {
	root, d, opts := fixture(t)

	if _, err := Inject(d, opts); err != nil {
		t.Fatal(err)
	}

	// Re-inject with a fresh descriptor: recorded facts must carry over
	// even though the host field was already displaced.
	fresh := &descriptor.Descriptor{
		SourceDir:   d.SourceDir,
		Name:        d.Name,
		Destination: d.Destination,
		Key:         d.Key,
	}
	if _, err := Inject(fresh, opts); err != nil {
		t.Fatal(err)
	}

	man, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := man.Get(d.Key)
	if !ok {
		t.Fatal("entry missing after re-inject")
	}
	if entry.RecordedVersion != "1.4.0" {
		t.Errorf("RecordedVersion = %q, want carried-over 1.4.0", entry.RecordedVersion)
	}
}
