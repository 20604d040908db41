// Package filter decides whether a recognized transcript segment carries
// enough information to be worth feeding into the transcript ledger, or
// is just acknowledgement noise.
package filter

import "strings"

// acknowledgements is the fixed set of exact-match filler phrases rejected
// outright once normalized.
var acknowledgements = map[string]bool{
	"ok": true, "okay": true, "thanks": true, "thank you": true,
	"yeah": true, "yep": true, "uh": true, "um": true, "hmm": true,
	"right": true, "got it": true, "sounds good": true, "all right": true,
	"alright": true, "cool": true, "great": true,
}

// temporalKeywords is the fixed set of words/tokens whose presence makes
// even a short segment worth keeping, since they tend to carry action
// items or deadlines.
var temporalKeywords = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"today": true, "tomorrow": true, "yesterday": true, "tonight": true,
	"week": true, "weeks": true, "month": true, "months": true,
	"quarter": true, "quarters": true,
	"q1": true, "q2": true, "q3": true, "q4": true,
	"eod": true, "eow": true, "eom": true,
}

// Normalize lowercases text, keeps only ASCII alphanumerics and spaces,
// and collapses runs of whitespace to a single space.
func Normalize(text string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastSpace = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// isAcronym reports whether the original (pre-normalization) token is at
// least two alphabetic characters, all uppercase.
func isAcronym(original string) bool {
	letters := 0
	for _, r := range original {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			letters++
		}
	}
	return letters >= 2
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func hasTemporalKeyword(words []string) bool {
	for _, w := range words {
		if temporalKeywords[w] {
			return true
		}
	}
	return false
}

// ShouldKeep decides whether a recognized segment carries enough
// information to enter the transcript ledger. participantTokens is the
// lowercase set of known participant name tokens, so a lone name (e.g.
// someone being addressed) survives even as a single word.
func ShouldKeep(text string, participantTokens map[string]bool) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return false
	}
	if acknowledgements[normalized] {
		return false
	}

	words := strings.Split(normalized, " ")
	if len(words) >= 3 {
		return true
	}
	if hasDigit(normalized) || hasTemporalKeyword(words) {
		return true
	}
	if len(words) == 1 {
		if participantTokens[words[0]] {
			return true
		}
		return isAcronym(strings.TrimSpace(text))
	}
	return false
}
