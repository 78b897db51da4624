// Package runner dispatches external commands (compiler, bundler, test
// runner, registry client) across packages with a bounded concurrency
// window. The commands themselves are external collaborators: the runner
// streams their output, maps exit codes to task failures, and kills
// in-flight processes through context cancellation, but implements none of
// their semantics.
package runner
