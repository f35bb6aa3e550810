// Package config loads, normalizes, and validates clipforge configuration
// from TOML. Defaults live in defaults.go; Load applies the file over the
// defaults, expands paths, and rejects unusable settings before anything
// else starts.
package config
