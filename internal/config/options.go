package config

import (
	"fmt"

	"github.com/monolink-labs/monolink/internal/platform"
	"github.com/rs/zerolog"
)

// Options is the immutable configuration value threaded through every
// component call. Nothing reads process-wide mutable state after it is
// built.
type Options struct {
	// Root is the monorepo root directory.
	Root string

	// LinkMode selects the file-synchronization strategy.
	LinkMode platform.LinkMode

	// DryRun disables all filesystem mutation; intended actions are logged.
	DryRun bool

	// Relink allows inject to delete-and-relink destination files that
	// diverged from their source. Without it, broken links are reported
	// and left untouched.
	Relink bool

	// Ignore extends the scanner's directory ignore set.
	Ignore []string

	// PeerInternalOnly activates peer classification for internal deps.
	PeerInternalOnly bool

	// MaxConcurrency bounds simultaneously in-flight package tasks.
	MaxConcurrency int

	Logger zerolog.Logger
}

// BuildOptions merges the workspace config with flag values into one
// Options value. Flag values win over workspace values, which win over
// user-level defaults.
func BuildOptions(root string, ws *Workspace, flagMode string, dryRun, relink, peerInternalOnly bool, extraIgnore []string, logger zerolog.Logger) (Options, error) {
	mode := Get(KeyLinkMode)
	if ws.LinkMode != "" {
		mode = ws.LinkMode
	}
	if flagMode != "" {
		mode = flagMode
	}

	linkMode, err := platform.ParseLinkMode(mode)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	concurrency := GetInt(KeyMaxConcurrency)
	if ws.MaxConcurrency > 0 {
		concurrency = ws.MaxConcurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	ignore := append([]string(nil), ws.Ignore...)
	ignore = append(ignore, extraIgnore...)

	return Options{
		Root:             root,
		LinkMode:         linkMode,
		DryRun:           dryRun,
		Relink:           relink,
		Ignore:           ignore,
		PeerInternalOnly: peerInternalOnly || ws.PeerInternalOnly,
		MaxConcurrency:   concurrency,
		Logger:           logger,
	}, nil
}
