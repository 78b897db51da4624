package cli

import (
	"fmt"
	"path/filepath"

	"github.com/monolink-labs/monolink/internal/buildgraph"
	"github.com/monolink-labs/monolink/internal/runner"
	"github.com/monolink-labs/monolink/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [source-dir...]",
	Short: "Build injected packages in dependency order",
	Long: `Scan each package's imports, regenerate its project references, then run
"npm run build" per package. Packages whose dependencies all live in
earlier batches build concurrently, bounded by the concurrency limit.

Example:
  monolink build
  monolink build ../external/foo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := resolveTargets(args)
		if err != nil {
			return err
		}
		if err := scanAll(descs); err != nil {
			return err
		}

		byName := buildgraph.ByName(descs)
		for _, d := range descs {
			refs := buildgraph.References(d, byName)
			dir := taskDir(d)
			if opts.DryRun {
				opts.Logger.Info().Str("package", d.Name).Str("dir", dir).
					Int("references", len(refs)).Msg("dry-run: would write project references")
				continue
			}
			if err := workspace.WriteProjectReferences(dir, refs); err != nil {
				return fmt.Errorf("updating references for %s: %w", d.Name, err)
			}
		}

		levels, err := buildgraph.Levels(descs)
		if err != nil {
			return err
		}

		batches := make([][]runner.Task, 0, len(levels))
		for _, level := range levels {
			batch := make([]runner.Task, 0, len(level))
			for _, d := range level {
				batch = append(batch, runner.Task{
					Name: d.Name,
					Dir:  taskDir(d),
					Argv: []string{"npm", "run", "build"},
				})
			}
			batches = append(batches, batch)
		}

		r := &runner.Runner{
			Limit:  opts.MaxConcurrency,
			DryRun: opts.DryRun,
			Logger: opts.Logger,
		}
		// A failed build poisons everything downstream of it, so stop at
		// the first failure instead of finishing the batch.
		if err := r.RunBatches(cmd.Context(), batches, true); err != nil {
			return err
		}

		fmt.Printf("Built %d package(s) in %d batch(es).\n", len(descs), len(batches))
		return nil
	},
}

// destinationDir is the absolute injected location for a package.
func destinationDir(destination string) string {
	return filepath.Join(opts.Root, filepath.FromSlash(destination))
}
