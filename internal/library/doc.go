// Package library owns the in-memory session library of transcription
// records. Records are created from successful transcription results, carry
// a two-slot study-notes version history, and are ordered newest first. All
// mutation goes through the Store; callers only ever receive copies.
package library
