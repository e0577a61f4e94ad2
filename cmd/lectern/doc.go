// Command lectern is the CLI front end for the lecture transcription daemon.
// It talks to lecternd over a Unix socket and never holds session state
// itself.
package main
