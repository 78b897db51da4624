package linker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/platform"
	"github.com/monolink-labs/monolink/internal/workspace"
)

// Eject reverses a prior injection: it verifies every destination file is
// still link-identical to its source, then removes the destination tree,
// the path alias, and the manifest entry, restoring the host dependency
// field that inject displaced. Verification is all-or-nothing — any
// divergence aborts before the first mutation.
func Eject(d *descriptor.Descriptor, opts config.Options) error {
	log := opts.Logger.With().Str("package", d.Name).Str("destination", d.Destination).Logger()

	if info, err := os.Stat(d.SourceDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingSource, d.SourceDir)
	}

	man, err := LoadManifest(opts.Root)
	if err != nil {
		return err
	}

	mode := opts.LinkMode
	if entry, ok := man.Get(d.Key); ok {
		mergeFromEntry(d, entry)
		// Verify under the mode the injection actually used.
		if m, err := platform.ParseLinkMode(entry.LinkMode); err == nil {
			mode = m
		}
	}

	dest := filepath.Join(opts.Root, filepath.FromSlash(d.Destination))
	if _, err := os.Stat(dest); err == nil {
		if err := verifyTree(d.SourceDir, dest, mode); err != nil {
			return err
		}
	}

	if opts.DryRun {
		log.Info().Msg("dry-run: would remove destination and restore host configuration")
		return nil
	}

	if !d.DisableManifestUpdate {
		removed, err := workspace.RemoveAlias(opts.Root, d.Name)
		if err != nil {
			return err
		}
		if removed {
			log.Debug().Msg("removed path alias")
		}

		if d.RecordedVersion != "" {
			host, err := workspace.LoadHostManifest(opts.Root)
			if err != nil {
				return err
			}
			if host.Restore(d.Name, d.RecordedVersion, d.RecordedDev) {
				if err := host.Save(); err != nil {
					return err
				}
				log.Debug().Str("version", d.RecordedVersion).Bool("dev", d.RecordedDev).Msg("restored host dependency")
			}
		}
	}

	if !d.DisableGitignoreUpdate {
		if err := workspace.RemoveFromIgnoreFile(opts.Root, d.Destination); err != nil {
			return err
		}
	}

	man.Remove(d.Key)
	if err := man.Save(); err != nil {
		return err
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("removing destination %s: %w", dest, err)
	}

	log.Info().Msg("ejected")
	return nil
}

// verifyTree requires every file under destRoot to exist at the source
// path and to pass the identity check. The first violation aborts the
// whole eject.
func verifyTree(srcRoot, destRoot string, mode platform.LinkMode) error {
	return filepath.WalkDir(destRoot, func(destPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(destRoot, destPath)
		if err != nil {
			return err
		}
		srcPath := filepath.Join(srcRoot, rel)

		if _, err := os.Stat(srcPath); err != nil {
			return &UnlinkedFileError{Path: rel}
		}
		same, err := mode.Same(srcPath, destPath)
		if err != nil {
			return fmt.Errorf("checking %s: %w", destPath, err)
		}
		if !same {
			return &UnlinkedFileError{Path: rel}
		}
		return nil
	})
}
