package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const strengthSymbols = "!@#$%^&*()_+-=[]{}|;':\",./<>?"

var commonPatterns = []string{"123", "abc", "qwerty", "password", "admin"}

// CalculatePasswordStrength scores a candidate password between 0 and 7 and
// returns machine-readable feedback tags for anything that kept the score
// down. The scoring is deterministic so clients can mirror it locally:
// one point per length tier (8, 12, 16) and per character class present,
// minus two when the password contains a well-known weak substring.
func CalculatePasswordStrength(password string) (int, []string) {
	score := 0
	feedback := []string{}

	// length is measured in characters, not bytes
	n := utf8.RuneCountInString(password)
	if n >= 8 {
		score++
	} else {
		feedback = append(feedback, "password_too_short")
	}
	if n >= 12 {
		score++
	}
	if n >= 16 {
		score++
	}

	if strings.ContainsFunc(password, unicode.IsUpper) {
		score++
	} else {
		feedback = append(feedback, "add_uppercase")
	}
	if strings.ContainsFunc(password, unicode.IsLower) {
		score++
	} else {
		feedback = append(feedback, "add_lowercase")
	}
	if strings.ContainsFunc(password, unicode.IsDigit) {
		score++
	} else {
		feedback = append(feedback, "add_numbers")
	}
	if strings.ContainsAny(password, strengthSymbols) {
		score++
	} else {
		feedback = append(feedback, "add_special")
	}

	lowered := strings.ToLower(password)
	for _, p := range commonPatterns {
		if strings.Contains(lowered, p) {
			score -= 2
			feedback = append(feedback, "avoid_common_patterns")
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 7 {
		score = 7
	}
	return score, feedback
}
