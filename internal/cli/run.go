package cli

import (
	"fmt"

	"github.com/monolink-labs/monolink/internal/runner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <script> [source-dir...]",
	Short: "Run an npm script across packages",
	Long: `Run "npm run <script>" in every named package, or in every package
declared in monolink.json. Values from the monorepo root .env file are
appended to each child's environment. All packages run even when some
fail; the failures are reported together.

Example:
  monolink run test
  monolink run lint ../external/foo`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script := args[0]

		descs, err := resolveTargets(args[1:])
		if err != nil {
			return err
		}

		env, err := runner.LoadEnvFile(opts.Root)
		if err != nil {
			return err
		}

		tasks := make([]runner.Task, 0, len(descs))
		for _, d := range descs {
			tasks = append(tasks, runner.Task{
				Name: d.Name,
				Dir:  taskDir(d),
				Argv: []string{"npm", "run", script},
				Env:  env,
			})
		}

		r := &runner.Runner{
			Limit:  opts.MaxConcurrency,
			DryRun: opts.DryRun,
			Logger: opts.Logger,
		}
		if err := r.RunAll(cmd.Context(), tasks, false); err != nil {
			return fmt.Errorf("running %q: %w", script, err)
		}
		return nil
	},
}
