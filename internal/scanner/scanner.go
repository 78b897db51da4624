package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultSkipDirs are directory names never descended into: build outputs,
// VCS metadata, and dependency trees.
var defaultSkipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".monolink":    true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// sourceExtensions are the file extensions scanned for imports.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
}

// assetExtensions are non-code files collected for packaging.
var assetExtensions = map[string]bool{
	".md":   true,
	".mdx":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

// Classifier decides whether a normalized module name is internal to the
// monorepo. A name is internal when it appears in the root manifest's
// dependency fields or in the root path-alias table; internal wins when a
// name appears in both worlds.
type Classifier struct {
	RootDependencies map[string]bool
	Aliases          map[string]bool
}

// IsInternal reports whether name resolves to another monorepo package.
func (c Classifier) IsInternal(name string) bool {
	return c.RootDependencies[name] || c.Aliases[name]
}

// Result holds the sorted, deduplicated scan output for one package.
type Result struct {
	Internal []string
	External []string
	Assets   []string
}

// Scan walks the package source tree rooted at root, extracting import
// targets from every non-test source file and collecting non-code assets.
// selfName imports are discarded. extraSkip extends the default ignore set.
func Scan(root, selfName string, extraSkip []string, cls Classifier) (*Result, error) {
	skip := make(map[string]bool, len(defaultSkipDirs)+len(extraSkip))
	for name := range defaultSkipDirs {
		skip[name] = true
	}
	for _, name := range extraSkip {
		skip[name] = true
	}

	internal := make(map[string]bool)
	external := make(map[string]bool)
	var assets []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ext := strings.ToLower(filepath.Ext(path))
		if assetExtensions[ext] {
			assets = append(assets, rel)
			return nil
		}
		if !sourceExtensions[ext] || isTestFile(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		for _, target := range extractImports(string(data)) {
			name, ok := normalizeTarget(target)
			if !ok || name == selfName {
				continue
			}
			if cls.IsInternal(name) {
				internal[name] = true
			} else {
				external[name] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(assets)
	return &Result{
		Internal: sortedKeys(internal),
		External: sortedKeys(external),
		Assets:   assets,
	}, nil
}

// isTestFile reports whether a relative path names a test or spec file.
func isTestFile(rel string) bool {
	base := filepath.Base(rel)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, part := range strings.Split(rel, "/") {
		if part == "__tests__" {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
