package server

import (
	"html"
	"math"
	"strings"
)

// Handler data structures

// JoinData claims a combatant seat
type JoinData struct {
	Combatant int    `json:"combatant"`
	Name      string `json:"name,omitempty"`
}

// AimData carries an aim adjustment or a shot
type AimData struct {
	Angle float64 `json:"angle"` // Degrees, 0 = right, 90 = up
	Power float64 `json:"power"` // 0..100
}

// WeaponData selects a weapon by catalog key
type WeaponData struct {
	Weapon string `json:"weapon"`
}

// MessageData represents a chat message
type MessageData struct {
	Text string `json:"text"`
}

// Utility functions

// sanitizeText escapes HTML special characters to prevent XSS
func sanitizeText(text string) string {
	// Limit message length using runes to avoid splitting multi-byte characters
	const maxMessageLength = 200
	runes := []rune(text)
	if len(runes) > maxMessageLength {
		text = string(runes[:maxMessageLength])
	}
	return html.EscapeString(text)
}

// sanitizeName keeps letters, digits and single spaces
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' {
			return r
		}
		return -1
	}, name)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	const maxNameLength = 16
	if len(cleaned) > maxNameLength {
		cleaned = strings.TrimSpace(cleaned[:maxNameLength])
	}
	return cleaned
}

// validateAim rejects non-finite input; range clamping is left to the engine
func validateAim(aim AimData) bool {
	for _, v := range []float64{aim.Angle, aim.Power} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
