// Package descriptor resolves a package directory into its identity and
// per-package configuration: name, destination inside the monorepo, and
// the normalized key used to join against the persisted link manifest.
package descriptor
