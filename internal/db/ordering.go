package db

import (
	"math"
	"sort"

	"github.com/chris/histdb/pkg/models"
)

// reorderFuzzy sorts fuzzy results so tighter matches come first.
// The sort is stable, so equally tight matches keep their time order.
// Other modes are returned unchanged.
func reorderFuzzy(mode models.SearchMode, query string, res []*models.History) []*models.History {
	if mode != models.SearchFuzzy || len(res) < 2 {
		return res
	}

	q := []rune(query)
	type scored struct {
		h    *models.History
		span int
	}
	ranked := make([]scored, len(res))
	for i, h := range res {
		ranked[i] = scored{h: h, span: matchSpan(q, []rune(h.Command))}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].span < ranked[j].span
	})

	out := make([]*models.History, len(ranked))
	for i, r := range ranked {
		out[i] = r.h
	}
	return out
}

// noMatch scores candidates the raw query is not a subsequence of, as with
// operator queries like ^git where SQL did the matching
const noMatch = math.MaxInt

// matchSpan returns the length of the shortest window of cand that contains
// query as a subsequence. Candidates that do not contain the query share
// noMatch, so they sort after every real match and keep their time order.
func matchSpan(query, cand []rune) int {
	if len(query) == 0 {
		return 0
	}
	best := -1
	for start := range cand {
		if cand[start] != query[0] {
			continue
		}
		qi := 1
		end := start
		for ci := start + 1; ci < len(cand) && qi < len(query); ci++ {
			if cand[ci] == query[qi] {
				qi++
				end = ci
			}
		}
		if qi < len(query) {
			// later starts cannot complete either
			break
		}
		if span := end - start + 1; best < 0 || span < best {
			best = span
		}
	}
	if best < 0 {
		return noMatch
	}
	return best
}
