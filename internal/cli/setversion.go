package cli

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/linker"
	"github.com/monolink-labs/monolink/internal/platform"
	"github.com/monolink-labs/monolink/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setVersionCmd)
}

var setVersionCmd = &cobra.Command{
	Use:   "set-version <version> [source-dir...]",
	Short: "Set the version of injected packages",
	Long: `Validate the version and rewrite the package.json of each named package,
or of every package declared in monolink.json. Host dependency fields
pointing at a rewritten package are updated to a caret range of the new
version.

Example:
  monolink set-version 1.4.0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := args[0]
		if _, err := semver.NewVersion(version); err != nil {
			return fmt.Errorf("invalid version %q: %w", version, err)
		}

		descs, err := resolveTargets(args[1:])
		if err != nil {
			return err
		}

		man, err := linker.LoadManifest(opts.Root)
		if err != nil {
			return err
		}
		host, err := workspace.LoadHostManifest(opts.Root)
		if err != nil {
			return err
		}

		hostDirty := false
		for _, d := range descs {
			if opts.DryRun {
				opts.Logger.Info().Str("package", d.Name).Str("version", version).
					Msg("dry-run: would set version")
				continue
			}

			if err := descriptor.WriteVersion(d.SourceDir, version); err != nil {
				return fmt.Errorf("setting version of %s: %w", d.Name, err)
			}
			// Copy mode leaves the injected tree detached from the source,
			// so its package.json needs the same rewrite.
			if e, tracked := man.Get(d.Key); tracked && e.LinkMode == string(platform.LinkModeCopy) && dirExists(destinationDir(d.Destination)) {
				if err := descriptor.WriteVersion(destinationDir(d.Destination), version); err != nil {
					return fmt.Errorf("setting version of %s: %w", d.Name, err)
				}
			}

			for _, m := range []map[string]string{host.Dependencies, host.DevDependencies, host.PeerDependencies} {
				if _, ok := m[d.Name]; ok {
					m[d.Name] = "^" + version
					hostDirty = true
				}
			}

			fmt.Printf("%s -> %s\n", d.Name, version)
		}

		if hostDirty {
			if err := host.Save(); err != nil {
				return err
			}
		}
		return nil
	},
}
