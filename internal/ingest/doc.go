// Package ingest converts raw uploaded files into encoded transport records
// for the AI backend: name, base64 payload, media type, and an optional
// text preview.
package ingest
