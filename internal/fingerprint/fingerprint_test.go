package fingerprint

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  What is HTMX? \r\n", "A library for AJAX.\r\nUsed with Go.")
	expected := "what is htmx?\na library for ajax.\nused with go."
	if got != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, got)
	}
}

func TestOf(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		if Of("Test", "x") != Of("Test", "x") {
			t.Error("Expected fingerprints for identical cards to be the same")
		}
	})

	t.Run("normalization produces same fingerprint", func(t *testing.T) {
		if Of("  what is go? ", "A language.") != Of("What Is Go?", "a language.") {
			t.Error("Expected fingerprints to be the same after normalization")
		}
	})

	t.Run("field boundary matters", func(t *testing.T) {
		if Of("ab", "c") == Of("a", "bc") {
			t.Error("Expected fingerprints to differ when text moves between fields")
		}
	})

	t.Run("different cards differ", func(t *testing.T) {
		if Of("Card 1", "a") == Of("Card 2", "a") {
			t.Error("Expected fingerprints for different cards to be different")
		}
	})

	t.Run("is hex sha256", func(t *testing.T) {
		if got := len(Of("q", "a")); got != 64 {
			t.Errorf("Expected 64 hex characters, got %d", got)
		}
	})
}
