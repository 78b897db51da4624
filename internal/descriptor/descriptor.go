package descriptor

import (
	"path"
	"strings"
)

// Descriptor represents one package managed by the tool.
type Descriptor struct {
	// SourceDir is the package's source directory, usually outside the
	// monorepo tree.
	SourceDir string

	// Name is the package name resolved from package.json.
	Name string

	// Version is the package's own declared version, if any.
	Version string

	// Destination is the repo-relative path the package is linked into.
	Destination string

	// Key is the normalized comparison key derived from Destination:
	// lowercased, trailing slash stripped. It is unique across all
	// descriptors in one run and joins against the persisted manifest.
	Key string

	// Per-package flags from .monolink.yaml.
	DisableGitignoreUpdate bool
	DisableManifestUpdate  bool
	DevDependency          bool

	// BinDir is an optional subdirectory holding executable entries.
	BinDir string

	// Scan results, populated by the dependency scanner.
	InternalDeps []string
	ExternalDeps []string
	Assets       []string

	// Prior host-manifest facts recorded during inject so eject can
	// restore them. Not recoverable from the source tree alone.
	RecordedVersion string
	RecordedDev     bool
}

// NormalizeKey derives the manifest comparison key from a destination path.
func NormalizeKey(destination string) string {
	key := path.Clean(strings.ReplaceAll(destination, "\\", "/"))
	key = strings.TrimSuffix(key, "/")
	return strings.ToLower(key)
}
