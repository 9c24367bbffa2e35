package server

import (
	"errors"
	"fmt"
	"strings"
)

const maxNameLength = 64

// validatePlayerNames normalizes the roster: names are trimmed, blank
// entries dropped, and the result must hold between min and max players
// with no duplicates.
func validatePlayerNames(raw []string, minPlayers, maxPlayers int) ([]string, error) {
	names := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, name := range raw {
		trimmed := normalizeText(name)
		if trimmed == "" {
			continue
		}
		if len(trimmed) > maxNameLength {
			return nil, fmt.Errorf("player name must be %d characters or fewer", maxNameLength)
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate player name %q", trimmed)
		}
		seen[key] = struct{}{}
		names = append(names, trimmed)
	}
	if len(names) < minPlayers {
		return nil, fmt.Errorf("at least %d players are required", minPlayers)
	}
	if len(names) > maxPlayers {
		return nil, fmt.Errorf("at most %d players are allowed", maxPlayers)
	}
	return names, nil
}

func validatePoints(points, maxPoints int) error {
	if points < 1 {
		return errors.New("points must be a positive integer")
	}
	if points > maxPoints {
		return fmt.Errorf("points must be %d or fewer", maxPoints)
	}
	return nil
}

func validateStatus(status string) (string, error) {
	switch status {
	case "":
		return statusActive, nil
	case statusActive, statusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q", status)
	}
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
