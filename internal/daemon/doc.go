// Package daemon owns the in-memory session library for the lifetime of the
// lecternd process and enforces single-instance execution. All mutations of
// the library flow through here so the CLI sees one consistent session.
package daemon
