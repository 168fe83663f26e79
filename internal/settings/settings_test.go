package settings

import (
	"path/filepath"
	"testing"
)

func TestOpenDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if w, h := s.WindowSize(); w != 0 || h != 0 {
		t.Fatalf("expected unset geometry, got %dx%d", w, h)
	}
	if axis := s.MirrorAxis(); axis != "x" {
		t.Fatalf("expected default axis x, got %q", axis)
	}
	if tol := s.MirrorTolerance(); tol != 0.001 {
		t.Fatalf("expected default tolerance 0.001, got %v", tol)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.SetWindowSize(120, 40)
	s.SetMirrorAxis("z")
	s.SetMirrorTolerance(0.05)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if w, h := reloaded.WindowSize(); w != 120 || h != 40 {
		t.Fatalf("expected 120x40, got %dx%d", w, h)
	}
	if axis := reloaded.MirrorAxis(); axis != "z" {
		t.Fatalf("expected axis z, got %q", axis)
	}
	if tol := reloaded.MirrorTolerance(); tol != 0.05 {
		t.Fatalf("expected tolerance 0.05, got %v", tol)
	}
}
