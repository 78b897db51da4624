// Package linker is the inject/eject engine. Inject mirrors an external
// package's source tree into its repo-local destination via filesystem
// links and registers the package in the shared build configuration; eject
// verifies no unsynced edits exist, then reverses everything inject did.
//
// The persisted manifest under .monolink/ is the single source of truth
// for whether a destination is owned by this tool. That distinction is
// load-bearing: inject refuses to touch a destination it does not own, and
// eject refuses to delete content that diverged from its source.
package linker
