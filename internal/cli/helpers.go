package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/scanner"
	"github.com/monolink-labs/monolink/internal/workspace"
	"golang.org/x/sync/errgroup"
)

// resolveTargets resolves the packages named as arguments, or every package
// declared in monolink.json when no arguments are given.
func resolveTargets(args []string) ([]*descriptor.Descriptor, error) {
	var sources []descriptor.Source

	if len(args) > 0 {
		for _, arg := range args {
			src := descriptor.Source{Dir: arg}
			// Pick up a destination override declared for this source.
			for _, ref := range ws.Packages {
				if ref.Source == arg {
					src.Destination = ref.Destination
				}
			}
			sources = append(sources, src)
		}
	} else {
		for _, ref := range ws.Packages {
			dir := ref.Source
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(opts.Root, dir)
			}
			sources = append(sources, descriptor.Source{Dir: dir, Destination: ref.Destination})
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no packages: pass source directories or declare them in %s", config.WorkspaceFile)
	}

	return descriptor.ResolveAll(sources)
}

// buildClassifier assembles the scanner classifier from the host manifest
// dependency fields and the root alias table.
func buildClassifier() (scanner.Classifier, error) {
	host, err := workspace.LoadHostManifest(opts.Root)
	if err != nil {
		return scanner.Classifier{}, err
	}

	aliases, err := workspace.LoadAliases(opts.Root)
	if err != nil {
		return scanner.Classifier{}, err
	}
	aliasNames := make(map[string]bool, len(aliases))
	for name := range aliases {
		aliasNames[name] = true
	}

	return scanner.Classifier{
		RootDependencies: host.DependencyNames(),
		Aliases:          aliasNames,
	}, nil
}

// scanAll populates every descriptor's dependency and asset lists inside a
// bounded concurrency window. Each task writes only to its own descriptor.
func scanAll(descs []*descriptor.Descriptor) error {
	cls, err := buildClassifier()
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(opts.MaxConcurrency)

	for _, d := range descs {
		g.Go(func() error {
			res, err := scanner.Scan(d.SourceDir, d.Name, opts.Ignore, cls)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", d.Name, err)
			}
			d.InternalDeps = res.Internal
			d.ExternalDeps = res.External
			d.Assets = res.Assets
			return nil
		})
	}
	return g.Wait()
}

// taskDir returns where a package's external commands run: the injected
// destination when it exists, else the source tree.
func taskDir(d *descriptor.Descriptor) string {
	dest := filepath.Join(opts.Root, filepath.FromSlash(d.Destination))
	if dirExists(dest) {
		return dest
	}
	return d.SourceDir
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// binEntries lists a package's executable entries as bin-relative paths,
// sorted. Packages without a bin directory yield nothing.
func binEntries(d *descriptor.Descriptor) []string {
	if d.BinDir == "" {
		return nil
	}

	entries, err := os.ReadDir(filepath.Join(d.SourceDir, filepath.FromSlash(d.BinDir)))
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, path.Join(d.BinDir, entry.Name()))
		}
	}
	sort.Strings(names)
	return names
}
