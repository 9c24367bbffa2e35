package server

import (
	"strings"
	"testing"
)

func TestValidatePlayerNames(t *testing.T) {
	names, err := validatePlayerNames([]string{"  Alice ", "Bob", "  "}, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestValidatePlayerNamesRejectsDuplicates(t *testing.T) {
	if _, err := validatePlayerNames([]string{"Alice", "ALICE"}, 2, 10); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
}

func TestValidatePlayerNamesBounds(t *testing.T) {
	if _, err := validatePlayerNames([]string{"Alice"}, 2, 10); err == nil {
		t.Fatalf("expected too-few rejection")
	}
	many := make([]string, 11)
	for i := range many {
		many[i] = "player" + string(rune('a'+i))
	}
	if _, err := validatePlayerNames(many, 2, 10); err == nil {
		t.Fatalf("expected too-many rejection")
	}
	if _, err := validatePlayerNames([]string{strings.Repeat("x", 65), "Bob"}, 2, 10); err == nil {
		t.Fatalf("expected long-name rejection")
	}
}

func TestValidatePoints(t *testing.T) {
	if err := validatePoints(1, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validatePoints(1000, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, points := range []int{0, -10, 1001} {
		if err := validatePoints(points, 1000); err == nil {
			t.Fatalf("expected rejection for %d", points)
		}
	}
}

func TestValidateStatus(t *testing.T) {
	status, err := validateStatus("")
	if err != nil || status != statusActive {
		t.Fatalf("expected default active, got %q (%v)", status, err)
	}
	if _, err := validateStatus("paused"); err == nil {
		t.Fatalf("expected rejection of unknown status")
	}
}

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  two   words \t"); got != "two words" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
