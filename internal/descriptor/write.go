package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteVersion rewrites the version field of the package.json in dir,
// preserving every other field verbatim. The file is truncated in place so
// hard links to it stay intact.
func WriteVersion(dir, version string) error {
	path := filepath.Join(dir, packageJSONFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	versionData, err := json.Marshal(version)
	if err != nil {
		return fmt.Errorf("marshaling version: %w", err)
	}
	raw["version"] = versionData

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
