package game

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Titles differ from model proposals mostly by qualifiers
// ("Paris" vs "Paris (disambiguation)"), which already cost a lot of
// edit distance, so the cutoff has to sit well below exact-ish.
const minSimilarity = 0.2

// closestMatch picks the candidate most similar to the model's proposal.
// Ties keep the earlier candidate, so selection is deterministic for a
// fixed candidate order. Below minSimilarity it fails with ErrNoMatch.
func closestMatch(proposal string, candidates []string) (string, float64, error) {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		if s := similarity(proposal, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < minSimilarity {
		return "", 0, fmt.Errorf("%w: %q", ErrNoMatch, proposal)
	}
	return best, bestScore, nil
}

// similarity is normalized edit distance on folded case, in [0,1].
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
