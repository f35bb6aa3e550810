// Package services defines shared utilities consumed by the sourcing
// pipeline and external provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp project IDs, scene numbers, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify provider
//     failures (quota vs transient vs no-results) and translate them into
//     consistent API error codes.
//
// Use these helpers when wiring new provider or pipeline logic so operational
// behaviour (error handling, observability) stays uniform across the system.
package services
