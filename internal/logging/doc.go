// Package logging wires log/slog with console and JSON handlers plus
// context-derived structured fields (project, scene, provider, correlation
// id). Construct loggers through NewFromConfig and derive per-component
// loggers with NewComponentLogger.
package logging
