package linker

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/workspace"
)

// defaultIndexFile is the index location registered in the alias table.
const defaultIndexFile = "src/index.ts"

// excludedNames are files/directories never mirrored into a destination.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
	".monolink":    true,
}

// Inject links the package's source tree into its destination and
// registers it in the shared build configuration. Returns the broken
// links detected on already-existing destination files; these are
// warnings unless opts.Relink turned them into recovery relinks.
func Inject(d *descriptor.Descriptor, opts config.Options) ([]BrokenLink, error) {
	log := opts.Logger.With().Str("package", d.Name).Str("destination", d.Destination).Logger()

	if info, err := os.Stat(d.SourceDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, d.SourceDir)
	}

	man, err := LoadManifest(opts.Root)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(opts.Root, filepath.FromSlash(d.Destination))
	prev, tracked := man.Get(d.Key)
	if _, err := os.Stat(dest); err == nil && !tracked {
		return nil, &UntrackedConflictError{Key: d.Key, Destination: d.Destination}
	}

	if opts.DryRun {
		log.Info().Str("mode", string(opts.LinkMode)).Msg("dry-run: would link source tree into destination")
		return nil, nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination %s: %w", dest, err)
	}

	broken, err := mirrorTree(d.SourceDir, dest, opts)
	if err != nil {
		return nil, err
	}
	for _, b := range broken {
		if opts.Relink {
			log.Warn().Str("file", b.Destination).Msg("broken link relinked")
		} else {
			log.Warn().Str("file", b.Destination).Msg("broken link detected: destination diverged from source, left untouched")
		}
	}

	if !d.DisableGitignoreUpdate {
		if err := workspace.AddToIgnoreFile(opts.Root, d.Destination); err != nil {
			return nil, err
		}
	}

	if !d.DisableManifestUpdate {
		indexTarget := path.Join(d.Destination, defaultIndexFile)
		added, err := workspace.AddAlias(opts.Root, d.Name, indexTarget)
		if err != nil {
			return nil, err
		}
		if added {
			log.Debug().Str("alias", indexTarget).Msg("registered path alias")
		}

		host, err := workspace.LoadHostManifest(opts.Root)
		if err != nil {
			return nil, err
		}
		if version, dev, ok := host.Remove(d.Name); ok {
			d.RecordedVersion = version
			d.RecordedDev = dev
			if err := host.Save(); err != nil {
				return nil, err
			}
			log.Debug().Str("version", version).Bool("dev", dev).Msg("displaced host dependency recorded")
		}
	}

	// Facts recorded by an earlier inject survive re-injects: the host
	// field was already displaced then, so this run sees nothing to record.
	if tracked && d.RecordedVersion == "" {
		d.RecordedVersion = prev.RecordedVersion
		d.RecordedDev = prev.RecordedDev
	}

	man.Put(entryFromDescriptor(d, string(opts.LinkMode)))
	if err := man.Save(); err != nil {
		return nil, err
	}

	log.Info().Str("mode", string(opts.LinkMode)).Msg("injected")
	return broken, nil
}

// mirrorTree links every source file into the destination, verifying files
// that already exist. Diverged files are collected as broken links and
// only replaced when the relink override is set.
func mirrorTree(srcRoot, destRoot string, opts config.Options) ([]BrokenLink, error) {
	skip := make(map[string]bool, len(excludedNames)+len(opts.Ignore))
	for name := range excludedNames {
		skip[name] = true
	}
	for _, name := range opts.Ignore {
		skip[name] = true
	}

	var broken []BrokenLink

	err := filepath.WalkDir(srcRoot, func(srcPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if srcPath == srcRoot {
			return nil
		}
		if skip[entry.Name()] {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(srcRoot, srcPath)
		if err != nil {
			return err
		}
		destPath := filepath.Join(destRoot, rel)

		if entry.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}
		if !entry.Type().IsRegular() {
			return nil // skip symlinks and other special files in the source
		}

		if _, err := os.Lstat(destPath); err == nil {
			same, err := opts.LinkMode.Same(srcPath, destPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", destPath, err)
			}
			if same {
				return nil
			}

			broken = append(broken, BrokenLink{Source: srcPath, Destination: destPath})
			if !opts.Relink {
				return nil // report only, leave the divergent file in place
			}
			if err := os.Remove(destPath); err != nil {
				return fmt.Errorf("removing broken link %s: %w", destPath, err)
			}
		}

		if err := opts.LinkMode.Link(srcPath, destPath); err != nil {
			return fmt.Errorf("linking %s: %w", destPath, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mirroring %s: %w", srcRoot, err)
	}
	return broken, nil
}
