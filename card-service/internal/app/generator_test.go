package app

import (
	"testing"
	"unicode"
)

func assertAllDigits(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		if !unicode.IsDigit(r) {
			t.Fatalf("expected only digits, got %q", s)
		}
	}
}

func TestGeneratePAN(t *testing.T) {
	g := NewCardNumberGenerator()
	pan, err := g.GeneratePAN()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pan) != 16 {
		t.Fatalf("expected 16 digits, got %d (%q)", len(pan), pan)
	}
	assertAllDigits(t, pan)
}

func TestGenerateCVV(t *testing.T) {
	g := NewCardNumberGenerator()
	cvv, err := g.GenerateCVV()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cvv) != 3 {
		t.Fatalf("expected 3 digits, got %d (%q)", len(cvv), cvv)
	}
	assertAllDigits(t, cvv)
}

func TestGeneratePANVaries(t *testing.T) {
	g := NewCardNumberGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		pan, err := g.GeneratePAN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[pan] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected distinct PANs across draws")
	}
}
