package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WorkspaceFile is the workspace configuration at the monorepo root.
const WorkspaceFile = "monolink.json"

// ErrInvalidConfig marks malformed or schema-violating configuration.
// Detected at startup; always fatal.
var ErrInvalidConfig = errors.New("invalid configuration")

// PackageRef names one external package to manage.
type PackageRef struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
}

// Workspace is the parsed monolink.json.
type Workspace struct {
	Packages         []PackageRef `json:"packages,omitempty"`
	Ignore           []string     `json:"ignore,omitempty"`
	Namespace        string       `json:"namespace,omitempty"`
	PublishScope     []string     `json:"publishScope,omitempty"`
	LinkMode         string       `json:"linkMode,omitempty"`
	MaxConcurrency   int          `json:"maxConcurrency,omitempty"`
	PeerInternalOnly bool         `json:"peerInternalOnly,omitempty"`
}

// LoadWorkspace reads and schema-validates monolink.json at the monorepo
// root. A missing file yields an empty workspace: packages can still be
// named as command arguments.
func LoadWorkspace(root string) (*Workspace, error) {
	path := filepath.Join(root, WorkspaceFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Workspace{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ws, err := parseWorkspace(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}
