package domain

import (
	"strings"
	"unicode"
)

// DuplicateSimilarityThreshold is the business cut-off for fuzzy name
// matching: two normalized names more than 85% similar are treated as the
// same school. Tuned against real data; changing it changes which leads the
// creation gate rejects.
const DuplicateSimilarityThreshold = 0.85

// NormalizeName lowercases a school name, strips all whitespace, and folds
// "secondary school" into "high school". The synonym fold is a domain rule:
// the same school is routinely recorded under both suffixes, so they must
// compare equal. Not a generic text cleanup.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ReplaceAll(b.String(), "secondaryschool", "highschool")
}

// NameExists reports whether candidate matches any of the existing names:
// exact match after normalization, or Levenshtein similarity above
// DuplicateSimilarityThreshold. An empty existing set never matches.
func NameExists(candidate string, existing []string) bool {
	normalized := NormalizeName(candidate)
	for _, name := range existing {
		other := NormalizeName(name)
		if other == normalized {
			return true
		}
		if NameSimilarity(normalized, other) > DuplicateSimilarityThreshold {
			return true
		}
	}
	return false
}

// NameSimilarity returns the Levenshtein similarity of two already-normalized
// names: (maxLen - editDistance) / maxLen, in [0, 1]. Two empty strings are
// fully similar.
func NameSimilarity(a, b string) float64 {
	longer, shorter := a, b
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return 1.0
	}
	distance := editDistance(longer, shorter)
	return float64(len(longer)-distance) / float64(len(longer))
}

// editDistance computes the Levenshtein distance with a single-row cost
// table.
func editDistance(s1, s2 string) int {
	costs := make([]int, len(s2)+1)
	for i := 0; i <= len(s1); i++ {
		lastValue := i
		for j := 0; j <= len(s2); j++ {
			if i == 0 {
				costs[j] = j
				continue
			}
			if j > 0 {
				newValue := costs[j-1]
				if s1[i-1] != s2[j-1] {
					newValue = min(min(newValue, lastValue), costs[j]) + 1
				}
				costs[j-1] = lastValue
				lastValue = newValue
			}
		}
		if i > 0 {
			costs[len(s2)] = lastValue
		}
	}
	return costs[len(s2)]
}
