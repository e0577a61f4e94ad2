// Package llm implements the chat-completions client behind the
// transcription and study-notes gateways.
package llm
