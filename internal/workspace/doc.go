// Package workspace mutates the shared files at the monorepo root that
// inject/eject must keep consistent: the host package.json, the root
// tsconfig path-alias table, per-package project files, and .gitignore.
// Every mutation is guarded by an already-included check so repeated runs
// perform no unnecessary writes, and maps are re-sorted by key on save.
package workspace
