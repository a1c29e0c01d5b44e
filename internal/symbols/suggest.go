package symbols

import (
	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance returns how far a candidate may be from the queried
// name to still count as "similar". Short names tolerate less noise.
func maxSuggestDistance(name string) int {
	if len(name) >= 4 {
		return 2
	}
	return 1
}

// SuggestSimilar returns the visible name closest to name by edit distance,
// or "" when nothing is close enough. Ties break lexicographically so the
// result is deterministic.
func (r *Resolver) SuggestSimilar(name string) string {
	limit := maxSuggestDistance(name)
	best := ""
	bestDist := limit + 1

	seen := make(map[ScopeID]bool)
	scopeID := r.CurrentScope()
	for scopeID.IsValid() && !seen[scopeID] {
		seen[scopeID] = true
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		for candidateID := range scope.NameIndex {
			candidate := r.table.Strings.MustLookup(candidateID)
			if candidate == "" || candidate == name {
				continue
			}
			dist := levenshtein.ComputeDistance(name, candidate)
			if dist < bestDist || (dist == bestDist && candidate < best) {
				best = candidate
				bestDist = dist
			}
		}
		scopeID = scope.Parent
	}
	if bestDist > limit {
		return ""
	}
	return best
}
