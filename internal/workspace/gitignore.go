package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ignoreFile = ".gitignore"

// ignoreLine returns the ignore-file line for an injected destination.
func ignoreLine(destination string) string {
	return "/" + strings.TrimPrefix(destination, "/")
}

// AddToIgnoreFile appends a /-prefixed line for the destination to the
// root .gitignore. If the line already exists, this is a no-op.
func AddToIgnoreFile(root, destination string) error {
	path := filepath.Join(root, ignoreFile)
	line := ignoreLine(destination)

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", ignoreFile, err)
	}

	// Check if line already exists.
	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(l) == line {
			return nil // already present
		}
	}

	// Append the line. Ensure there's a newline before our addition.
	suffix := line + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", ignoreFile, err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to %s: %w", ignoreFile, err)
	}

	return nil
}

// RemoveFromIgnoreFile removes the destination's line from the root
// .gitignore. If the line is not present, this is a no-op.
func RemoveFromIgnoreFile(root, destination string) error {
	path := filepath.Join(root, ignoreFile)
	line := ignoreLine(destination)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no ignore file, nothing to remove
		}
		return fmt.Errorf("reading %s: %w", ignoreFile, err)
	}

	lines := strings.Split(string(content), "\n")
	var result []string
	found := false

	for _, l := range lines {
		if strings.TrimSpace(l) == line {
			found = true
			continue // skip the line
		}
		result = append(result, l)
	}

	if !found {
		return nil // line wasn't present
	}

	output := strings.Join(result, "\n")
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ignoreFile, err)
	}

	return nil
}
