package courses_test

import (
	"errors"
	"path/filepath"
	"testing"

	"lectern/internal/courses"
	"lectern/internal/services"
)

func openCatalog(t *testing.T) *courses.Catalog {
	t.Helper()
	catalog, err := courses.Open(filepath.Join(t.TempDir(), "courses.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestOpenSeedsDefaultCourse(t *testing.T) {
	catalog := openCatalog(t)

	names, err := catalog.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != courses.DefaultCourse {
		t.Fatalf("expected seeded default course, got %v", names)
	}
	active, err := catalog.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != courses.DefaultCourse {
		t.Fatalf("expected default active, got %q", active)
	}
}

func TestAddListOrdering(t *testing.T) {
	catalog := openCatalog(t)
	for _, name := range []string{"Thermodynamics", "Algebra", "zoology"} {
		if _, err := catalog.Add(name); err != nil {
			t.Fatalf("Add %q: %v", name, err)
		}
	}

	names, err := catalog.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{courses.DefaultCourse, "Algebra", "Thermodynamics", "zoology"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestAddRejectsCaseInsensitiveDuplicate(t *testing.T) {
	catalog := openCatalog(t)
	if _, err := catalog.Add("Biology"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := catalog.Add("biology"); !errors.Is(err, services.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	if _, err := catalog.Add("  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestSetActiveResolvesCaseInsensitively(t *testing.T) {
	catalog := openCatalog(t)
	if _, err := catalog.Add("Quantum Mechanics"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := catalog.SetActive("quantum mechanics"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, err := catalog.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != "Quantum Mechanics" {
		t.Fatalf("expected stored casing, got %q", active)
	}

	if err := catalog.SetActive("missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveActiveFallsBackToDefault(t *testing.T) {
	catalog := openCatalog(t)
	if _, err := catalog.Add("History"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := catalog.SetActive("History"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := catalog.Remove("History"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	active, err := catalog.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != courses.DefaultCourse {
		t.Fatalf("expected fallback to default, got %q", active)
	}
}

func TestRemoveGuards(t *testing.T) {
	catalog := openCatalog(t)
	if err := catalog.Remove(courses.DefaultCourse); !errors.Is(err, services.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation removing default, got %v", err)
	}
	if err := catalog.Remove("never-added"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.db")
	catalog, err := courses.Open(path)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	if _, err := catalog.Add("Statistics"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := catalog.SetActive("Statistics"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := catalog.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := courses.Open(path)
	if err != nil {
		t.Fatalf("reopen catalog: %v", err)
	}
	defer reopened.Close()
	active, err := reopened.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != "Statistics" {
		t.Fatalf("expected persisted active course, got %q", active)
	}
}
