package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Task is one external command executed in a package directory.
type Task struct {
	// Name identifies the task in logs and errors, usually the package name.
	Name string
	// Dir is the working directory for the command.
	Dir string
	// Argv is the command and its arguments.
	Argv []string
	// Env holds extra KEY=value pairs appended to the inherited environment.
	Env []string
}

// Runner executes tasks with at most Limit simultaneously in flight.
type Runner struct {
	// Limit bounds the concurrency window; values below 1 mean serial.
	Limit int
	// Stdout and Stderr receive the streamed child output; they default
	// to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// DryRun logs the commands instead of executing them.
	DryRun bool

	Logger zerolog.Logger
}

// RunAll executes the tasks inside a bounded window. With failFast, the
// first failure cancels the group context, which kills in-flight child
// processes; otherwise every task runs and the failures are joined.
func (r *Runner) RunAll(ctx context.Context, tasks []Task, failFast bool) error {
	limit := r.Limit
	if limit < 1 {
		limit = 1
	}

	var (
		mu       sync.Mutex
		failures []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, task := range tasks {
		g.Go(func() error {
			err := r.runOne(ctx, task)
			if err == nil {
				return nil
			}
			if failFast {
				return err
			}
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

// RunBatches executes batches in order, completing each batch before
// admitting the next. Used for build ordering: a batch holds packages
// whose dependencies all live in earlier batches.
func (r *Runner) RunBatches(ctx context.Context, batches [][]Task, failFast bool) error {
	for _, batch := range batches {
		if err := r.RunAll(ctx, batch, failFast); err != nil {
			return err
		}
	}
	return nil
}

// runOne spawns a single child process, streaming its output through.
func (r *Runner) runOne(ctx context.Context, task Task) error {
	if len(task.Argv) == 0 {
		return fmt.Errorf("task %s: empty command", task.Name)
	}

	log := r.Logger.With().Str("task", task.Name).Logger()

	if r.DryRun {
		log.Info().Strs("argv", task.Argv).Str("dir", task.Dir).Msg("dry-run: would execute")
		return nil
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cmd := exec.CommandContext(ctx, task.Argv[0], task.Argv[1:]...)
	cmd.Dir = task.Dir
	cmd.Env = append(os.Environ(), task.Env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Debug().Strs("argv", task.Argv).Msg("executing")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("task %s: %s: %w", task.Name, task.Argv[0], err)
	}
	return nil
}
