package cli

import (
	"fmt"
	"strings"

	"github.com/monolink-labs/monolink/internal/descriptor"
	"github.com/monolink-labs/monolink/internal/runner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish [source-dir...]",
	Short: "Publish packages that match the workspace publish scope",
	Long: `Run "npm publish" for each package whose name falls inside the workspace
namespace and publish scope declared in monolink.json. Packages outside
the scope are skipped with a log line, never published by accident.

Example:
  monolink publish
  monolink publish --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := resolveTargets(args)
		if err != nil {
			return err
		}

		env, err := runner.LoadEnvFile(opts.Root)
		if err != nil {
			return err
		}

		var tasks []runner.Task
		for _, d := range descs {
			if !publishable(d) {
				opts.Logger.Info().Str("package", d.Name).Msg("outside publish scope, skipping")
				continue
			}
			tasks = append(tasks, runner.Task{
				Name: d.Name,
				Dir:  taskDir(d),
				Argv: []string{"npm", "publish"},
				Env:  env,
			})
		}
		if len(tasks) == 0 {
			fmt.Println("No packages in publish scope.")
			return nil
		}

		r := &runner.Runner{
			Limit:  opts.MaxConcurrency,
			DryRun: opts.DryRun,
			Logger: opts.Logger,
		}
		if err := r.RunBatches(cmd.Context(), [][]runner.Task{tasks}, true); err != nil {
			return err
		}

		fmt.Printf("Published %d package(s).\n", len(tasks))
		return nil
	},
}

// publishable reports whether a package passes the workspace namespace and
// publish-scope filters. An empty filter admits everything.
func publishable(d *descriptor.Descriptor) bool {
	if ns := ws.Namespace; ns != "" {
		if d.Name != ns && !strings.HasPrefix(d.Name, ns+"/") {
			return false
		}
	}
	if len(ws.PublishScope) == 0 {
		return true
	}
	for _, scope := range ws.PublishScope {
		if d.Name == scope || strings.HasPrefix(d.Name, scope+"/") {
			return true
		}
	}
	return false
}
