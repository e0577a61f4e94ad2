// Package services defines the shared error taxonomy for external service
// boundaries. Gateway clients tag failures with the sentinel errors here so
// callers can distinguish upstream failures from validation and not-found
// conditions without inspecting message text.
package services
