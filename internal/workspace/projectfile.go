package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/monolink-labs/monolink/internal/buildgraph"
)

// WriteProjectReferences writes the references list and composite flag into
// the per-package project file at dir/tsconfig.json, preserving any other
// fields already present. References are re-sorted by path before being
// persisted so the output is stable regardless of discovery order.
func WriteProjectReferences(dir string, refs []buildgraph.Reference) error {
	path := filepath.Join(dir, typeConfigFile)

	raw := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sorted := append([]buildgraph.Reference(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	refsData, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("marshaling references: %w", err)
	}
	raw["references"] = refsData

	opts := make(map[string]json.RawMessage)
	if rawOpts, ok := raw["compilerOptions"]; ok {
		if err := json.Unmarshal(rawOpts, &opts); err != nil {
			return fmt.Errorf("parsing compilerOptions in %s: %w", path, err)
		}
	}
	opts["composite"] = json.RawMessage("true")
	optsData, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("marshaling compilerOptions: %w", err)
	}
	raw["compilerOptions"] = optsData

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadProjectReferences returns the references currently persisted in the
// per-package project file, or nil when the file or field is absent.
func ReadProjectReferences(dir string) ([]buildgraph.Reference, error) {
	path := filepath.Join(dir, typeConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var parsed struct {
		References []buildgraph.Reference `json:"references"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parsed.References, nil
}
