// Package config loads the workspace configuration (monolink.json),
// validates it against an embedded JSON schema, layers user defaults and
// environment overrides through viper, and assembles the immutable Options
// value threaded through every component call.
package config
