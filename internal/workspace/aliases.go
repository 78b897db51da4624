package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const typeConfigFile = "tsconfig.json"

// tsconfig models the slice of the shared type-reference configuration the
// tool owns: compilerOptions.paths. Everything else is preserved verbatim.
type tsconfig struct {
	path            string
	raw             map[string]json.RawMessage
	compilerOptions map[string]json.RawMessage
	paths           map[string][]string
}

func loadTypeConfig(root string) (*tsconfig, error) {
	c := &tsconfig{
		path:            filepath.Join(root, typeConfigFile),
		raw:             make(map[string]json.RawMessage),
		compilerOptions: make(map[string]json.RawMessage),
		paths:           make(map[string][]string),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading %s: %w", c.path, err)
	}

	if err := json.Unmarshal(data, &c.raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.path, err)
	}
	if rawOpts, ok := c.raw["compilerOptions"]; ok {
		if err := json.Unmarshal(rawOpts, &c.compilerOptions); err != nil {
			return nil, fmt.Errorf("parsing compilerOptions in %s: %w", c.path, err)
		}
	}
	if rawPaths, ok := c.compilerOptions["paths"]; ok {
		if err := json.Unmarshal(rawPaths, &c.paths); err != nil {
			return nil, fmt.Errorf("parsing compilerOptions.paths in %s: %w", c.path, err)
		}
	}

	return c, nil
}

func (c *tsconfig) save() error {
	if len(c.paths) == 0 {
		delete(c.compilerOptions, "paths")
	} else {
		data, err := json.Marshal(c.paths)
		if err != nil {
			return fmt.Errorf("marshaling paths: %w", err)
		}
		c.compilerOptions["paths"] = data
	}

	opts, err := json.Marshal(c.compilerOptions)
	if err != nil {
		return fmt.Errorf("marshaling compilerOptions: %w", err)
	}
	c.raw["compilerOptions"] = opts

	data, err := json.MarshalIndent(c.raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", c.path, err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	return nil
}

// LoadAliases returns the compilerOptions.paths table from the shared
// type-reference configuration. A missing file yields an empty table.
func LoadAliases(root string) (map[string][]string, error) {
	c, err := loadTypeConfig(root)
	if err != nil {
		return nil, err
	}
	return c.paths, nil
}

// AddAlias registers name -> target in the alias table, deduplicated and
// re-sorted. It returns false without writing when the mapping is already
// included.
func AddAlias(root, name, target string) (bool, error) {
	c, err := loadTypeConfig(root)
	if err != nil {
		return false, err
	}

	existing := c.paths[name]
	for _, t := range existing {
		if t == target {
			return false, nil // already included
		}
	}

	existing = append(existing, target)
	sort.Strings(existing)
	c.paths[name] = existing

	if err := c.save(); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAlias removes the alias entry for name. It returns false without
// writing when no entry exists.
func RemoveAlias(root, name string) (bool, error) {
	c, err := loadTypeConfig(root)
	if err != nil {
		return false, err
	}

	if _, ok := c.paths[name]; !ok {
		return false, nil
	}
	delete(c.paths, name)

	if err := c.save(); err != nil {
		return false, err
	}
	return true, nil
}
