package rules

import "strings"

// DefaultFuzzyThreshold is the minimum token-overlap ratio for two party
// names to be treated as the same entity.
const DefaultFuzzyThreshold = 0.7

// FuzzyMatch reports whether two strings plausibly name the same entity.
// Both are normalized to trimmed lower case; exact equality and substring
// containment short-circuit, otherwise the whitespace-token overlap ratio
// |a ∩ b| / max(|a|, |b|) is compared against the threshold.
func FuzzyMatch(a, b string, threshold float64) bool {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	if s1 == s2 {
		return true
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return true
	}

	t1 := tokenSet(s1)
	t2 := tokenSet(s2)
	if len(t1) == 0 || len(t2) == 0 {
		return false
	}

	common := 0
	for tok := range t1 {
		if _, ok := t2[tok]; ok {
			common++
		}
	}
	return float64(common)/float64(max(len(t1), len(t2))) >= threshold
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
