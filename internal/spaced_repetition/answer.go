package spaced_repetition

import (
	"strings"
	"unicode"

	"github.com/example/fransbot/pkg/models"
)

// Normalization controls how strictly answers are compared
type Normalization int

const (
	// NormalizeTrim trims surrounding whitespace and lowercases
	NormalizeTrim Normalization = iota
	// NormalizeStrict also removes all internal whitespace, so "a vu" equals "avu"
	NormalizeStrict
)

// String returns the config name of n
func (n Normalization) String() string {
	if n == NormalizeStrict {
		return "strict"
	}
	return "trim"
}

// ParseNormalization maps a config value to a Normalization. Unknown values fall back to NormalizeTrim.
func ParseNormalization(s string) Normalization {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "true", "1", "yes":
		return NormalizeStrict
	default:
		return NormalizeTrim
	}
}

// Normalize prepares answer for comparison.
func (s *Scheduler) Normalize(answer string) string {
	return normalize(answer, s.normalization)
}

// CheckAnswer reports whether given matches the expected answer of item.
func (s *Scheduler) CheckAnswer(given string, item models.Item) bool {
	return s.Normalize(given) == s.Normalize(item.Answer)
}

func normalize(answer string, n Normalization) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if n != NormalizeStrict {
		return answer
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, answer)
}
