package services_test

import (
	"errors"
	"strings"
	"testing"

	"lectern/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrGateway, "transcriber", "transcribe", "request failed", cause)

	if !errors.Is(err, services.ErrGateway) {
		t.Fatalf("expected gateway marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	for _, fragment := range []string{"transcriber", "transcribe", "request failed", "connection refused"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in message, got %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsToGateway(t *testing.T) {
	err := services.Wrap(nil, "notes", "generate", "", nil)
	if !errors.Is(err, services.ErrGateway) {
		t.Fatalf("expected default gateway marker, got %v", err)
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}
