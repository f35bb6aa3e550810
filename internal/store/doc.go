// Package store manages clipforge persistence backed by SQLite: projects,
// narration scenes, ranked visual suggestions, and the segment download
// queue. An empty suggestion batch is persisted as an attempt marker so
// resumed runs can tell "no match found" apart from "never processed".
package store
