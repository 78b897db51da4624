package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const hostManifestFile = "package.json"

// HostManifest is the monorepo root package.json. Unknown fields are
// preserved verbatim; the three dependency maps are decoded for mutation
// and re-marshaled with sorted keys on save.
type HostManifest struct {
	path string
	raw  map[string]json.RawMessage

	Dependencies     map[string]string
	DevDependencies  map[string]string
	PeerDependencies map[string]string
}

// LoadHostManifest reads package.json at the monorepo root. A missing file
// yields an empty manifest that can still be saved.
func LoadHostManifest(root string) (*HostManifest, error) {
	h := &HostManifest{
		path:             filepath.Join(root, hostManifestFile),
		raw:              make(map[string]json.RawMessage),
		Dependencies:     make(map[string]string),
		DevDependencies:  make(map[string]string),
		PeerDependencies: make(map[string]string),
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("reading %s: %w", h.path, err)
	}

	if err := json.Unmarshal(data, &h.raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", h.path, err)
	}

	for field, target := range map[string]*map[string]string{
		"dependencies":     &h.Dependencies,
		"devDependencies":  &h.DevDependencies,
		"peerDependencies": &h.PeerDependencies,
	} {
		if rawField, ok := h.raw[field]; ok {
			if err := json.Unmarshal(rawField, target); err != nil {
				return nil, fmt.Errorf("parsing %s field %q: %w", h.path, field, err)
			}
		}
	}

	return h, nil
}

// Save writes the manifest back with dependency maps sorted by key
// (encoding/json marshals map keys in sorted order).
func (h *HostManifest) Save() error {
	for field, m := range map[string]map[string]string{
		"dependencies":     h.Dependencies,
		"devDependencies":  h.DevDependencies,
		"peerDependencies": h.PeerDependencies,
	} {
		if len(m) == 0 {
			delete(h.raw, field)
			continue
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", field, err)
		}
		h.raw[field] = data
	}

	data, err := json.MarshalIndent(h.raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", h.path, err)
	}

	if err := os.WriteFile(h.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", h.path, err)
	}
	return nil
}

// Lookup reports the version and kind under which name is declared, if any.
// Peer declarations are not considered a kind inject needs to displace.
func (h *HostManifest) Lookup(name string) (version string, dev bool, ok bool) {
	if v, found := h.Dependencies[name]; found {
		return v, false, true
	}
	if v, found := h.DevDependencies[name]; found {
		return v, true, true
	}
	return "", false, false
}

// Remove deletes name from the regular or development dependency field and
// returns the displaced version and kind so they can be persisted.
func (h *HostManifest) Remove(name string) (version string, dev bool, ok bool) {
	version, dev, ok = h.Lookup(name)
	if !ok {
		return "", false, false
	}
	if dev {
		delete(h.DevDependencies, name)
	} else {
		delete(h.Dependencies, name)
	}
	return version, dev, true
}

// Restore puts a previously displaced entry back into the field matching
// its recorded kind. It returns false when the name is already declared,
// never overwriting a value the host currently specifies.
func (h *HostManifest) Restore(name, version string, dev bool) bool {
	if _, _, ok := h.Lookup(name); ok {
		return false
	}
	if dev {
		h.DevDependencies[name] = version
	} else {
		h.Dependencies[name] = version
	}
	return true
}

// DependencyNames returns every name declared in any dependency field,
// used by the scanner to classify imports as internal.
func (h *HostManifest) DependencyNames() map[string]bool {
	names := make(map[string]bool, len(h.Dependencies)+len(h.DevDependencies)+len(h.PeerDependencies))
	for name := range h.Dependencies {
		names[name] = true
	}
	for name := range h.DevDependencies {
		names[name] = true
	}
	for name := range h.PeerDependencies {
		names[name] = true
	}
	return names
}
