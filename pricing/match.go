package pricing

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// MinSimilarity is the lowest ratio at which a known locality is accepted
// as the intended spelling of a query.
const MinSimilarity = 0.6

// closestMatch returns the candidate most similar to word, scored with the
// difflib ratio 2*M/T over case-folded characters. Candidates scoring below
// cutoff are ignored. On equal scores the earlier candidate wins.
func closestMatch(word string, candidates []string, cutoff float64) (string, float64, bool) {
	if len(candidates) == 0 {
		return "", 0, false
	}

	// The matcher caches its analysis of the second sequence, so the query
	// goes there and each candidate is swapped in as the first.
	m := difflib.NewMatcher(nil, runes(strings.ToLower(word)))

	best, bestScore, found := "", 0.0, false
	for _, c := range candidates {
		m.SetSeq1(runes(strings.ToLower(c)))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, bestScore, found
}

// Similarity returns the difflib ratio between two locality names, ignoring case.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b))).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
