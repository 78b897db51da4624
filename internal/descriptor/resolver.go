package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a package directory does not exist.
var ErrNotFound = errors.New("package directory not found")

const (
	packageJSONFile = "package.json"
	localConfigFile = ".monolink.yaml"
	defaultDestDir  = "packages"
)

// packageJSON holds the fields read from a package's package.json.
type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// localConfig is the optional per-package configuration in .monolink.yaml.
type localConfig struct {
	Destination            string `yaml:"destination"`
	DisableGitignoreUpdate bool   `yaml:"disable-gitignore-update"`
	DisableManifestUpdate  bool   `yaml:"disable-manifest-update"`
	DevDependency          bool   `yaml:"dev-dependency"`
	Bin                    string `yaml:"bin"`
}

// Resolve produces a Descriptor for the package at dir. Population is
// all-or-nothing: any failure leaves no partially filled descriptor behind.
// The destination argument overrides the per-package and default
// destinations when non-empty.
func Resolve(dir, destination string) (*Descriptor, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	pkg, err := readPackageJSON(dir)
	if err != nil {
		return nil, err
	}

	local, err := readLocalConfig(dir)
	if err != nil {
		return nil, err
	}

	dest := destination
	if dest == "" {
		dest = local.Destination
	}
	if dest == "" {
		dest = path.Join(defaultDestDir, filepath.Base(dir))
	}
	dest = filepath.ToSlash(dest)

	name := pkg.Name
	if name == "" {
		name = filepath.Base(dir)
	}

	return &Descriptor{
		SourceDir:              dir,
		Name:                   name,
		Version:                pkg.Version,
		Destination:            dest,
		Key:                    NormalizeKey(dest),
		DisableGitignoreUpdate: local.DisableGitignoreUpdate,
		DisableManifestUpdate:  local.DisableManifestUpdate,
		DevDependency:          local.DevDependency,
		BinDir:                 local.Bin,
	}, nil
}

// Source names a package directory to resolve, with an optional
// destination override from the workspace config.
type Source struct {
	Dir         string
	Destination string
}

// ResolveAll resolves every source concurrently, each task writing only its
// own slot, then enforces key uniqueness across the batch.
func ResolveAll(sources []Source) ([]*Descriptor, error) {
	descs := make([]*Descriptor, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			d, err := Resolve(src.Dir, src.Destination)
			if err != nil {
				return err
			}
			descs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byKey := make(map[string]string, len(descs))
	for _, d := range descs {
		if prev, ok := byKey[d.Key]; ok {
			return nil, fmt.Errorf("duplicate destination key %q: %s and %s", d.Key, prev, d.SourceDir)
		}
		byKey[d.Key] = d.SourceDir
	}

	return descs, nil
}

// readPackageJSON reads name and version from the package's package.json.
// A missing file is not an error; the directory base name is used instead.
func readPackageJSON(dir string) (*packageJSON, error) {
	data, err := os.ReadFile(filepath.Join(dir, packageJSONFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &packageJSON{}, nil
		}
		return nil, fmt.Errorf("reading %s in %s: %w", packageJSONFile, dir, err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s in %s: %w", packageJSONFile, dir, err)
	}
	return &pkg, nil
}

// readLocalConfig reads the optional .monolink.yaml from the package dir.
func readLocalConfig(dir string) (*localConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, localConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &localConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s in %s: %w", localConfigFile, dir, err)
	}

	var local localConfig
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("parsing %s in %s: %w", localConfigFile, dir, err)
	}
	return &local, nil
}
