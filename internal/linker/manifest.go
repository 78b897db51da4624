package linker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/descriptor"
)

const (
	manifestDir  = ".monolink"
	manifestFile = "manifest.json"
)

// Entry is the persisted record of a completed injection, keyed by the
// descriptor key. It carries the facts that must survive across runs
// because they are not recoverable from the source tree alone.
type Entry struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	SourceDir   string `json:"sourceDir"`
	Destination string `json:"destination"`
	LinkMode    string `json:"linkMode"`

	// RecordedVersion and RecordedDev capture the host dependency entry
	// displaced by inject, restored on eject.
	RecordedVersion string `json:"recordedVersion,omitempty"`
	RecordedDev     bool   `json:"recordedDev,omitempty"`

	// BinDir is the package's executable subdirectory, surfaced when the
	// destination metadata is listed.
	BinDir string `json:"binDir,omitempty"`

	DevDependency          bool `json:"devDependency,omitempty"`
	DisableGitignoreUpdate bool `json:"disableGitignoreUpdate,omitempty"`
	DisableManifestUpdate  bool `json:"disableManifestUpdate,omitempty"`
}

// Manifest is the keyed in-memory view of the persisted entry array.
// Lookups are by key; the on-disk form stays a JSON array for readability.
type Manifest struct {
	path    string
	entries map[string]*Entry
}

// ManifestPath returns the manifest location for a monorepo root.
func ManifestPath(root string) string {
	return filepath.Join(root, manifestDir, manifestFile)
}

// LoadManifest reads the manifest at the well-known path under root.
// A missing file yields an empty manifest.
func LoadManifest(root string) (*Manifest, error) {
	m := &Manifest{
		path:    ManifestPath(root),
		entries: make(map[string]*Entry),
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading manifest %s: %w", m.path, err)
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing manifest %s: %v", config.ErrInvalidConfig, m.path, err)
	}
	for _, e := range entries {
		m.entries[e.Key] = e
	}
	return m, nil
}

// Get returns the entry for a key, if present.
func (m *Manifest) Get(key string) (*Entry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Put inserts or replaces the entry for its key.
func (m *Manifest) Put(e *Entry) {
	m.entries[e.Key] = e
}

// Remove deletes the entry for a key.
func (m *Manifest) Remove(key string) {
	delete(m.entries, key)
}

// Save persists the entries as a JSON array sorted by key. An empty
// manifest deletes the file entirely.
func (m *Manifest) Save() error {
	if len(m.entries) == 0 {
		if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing empty manifest %s: %w", m.path, err)
		}
		// Drop the containing directory too if nothing else lives there.
		_ = os.Remove(filepath.Dir(m.path))
		return nil
	}

	entries := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	if err := os.WriteFile(m.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", m.path, err)
	}
	return nil
}

// entryFromDescriptor builds a manifest entry for a completed injection.
func entryFromDescriptor(d *descriptor.Descriptor, mode string) *Entry {
	return &Entry{
		Key:                    d.Key,
		Name:                   d.Name,
		SourceDir:              d.SourceDir,
		Destination:            d.Destination,
		LinkMode:               mode,
		RecordedVersion:        d.RecordedVersion,
		RecordedDev:            d.RecordedDev,
		BinDir:                 d.BinDir,
		DevDependency:          d.DevDependency,
		DisableGitignoreUpdate: d.DisableGitignoreUpdate,
		DisableManifestUpdate:  d.DisableManifestUpdate,
	}
}

// mergeFromEntry fills only the descriptor fields the current run did not
// specify from a persisted entry, never overwriting present values.
func mergeFromEntry(d *descriptor.Descriptor, e *Entry) {
	if d.RecordedVersion == "" {
		d.RecordedVersion = e.RecordedVersion
		d.RecordedDev = e.RecordedDev
	}
	if d.BinDir == "" {
		d.BinDir = e.BinDir
	}
	if !d.DevDependency {
		d.DevDependency = e.DevDependency
	}
	if !d.DisableGitignoreUpdate {
		d.DisableGitignoreUpdate = e.DisableGitignoreUpdate
	}
	if !d.DisableManifestUpdate {
		d.DisableManifestUpdate = e.DisableManifestUpdate
	}
}
