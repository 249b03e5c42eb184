package inspect

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

type Rank struct {
	// Target is the node name matched against.
	Target string

	// Distance is the Levenshtein distance between the query and Target.
	Distance int

	// Location of Target in the available names
	OriginalIndex int
}

// RankNames ranks names against query. Names that contain the query's
// characters in order come first by distance; names within a small edit
// distance of the query are added for plain typos.
func RankNames(names []string, query string) []Rank {
	if query == "" {
		return nil
	}

	ranked := fuzzy.RankFindFold(query, names)
	ranks := make([]Rank, 0, ranked.Len())
	seen := make(map[int]bool, ranked.Len())
	for _, r := range ranked {
		ranks = append(ranks, Rank{
			Target:        r.Target,
			Distance:      r.Distance,
			OriginalIndex: r.OriginalIndex,
		})
		seen[r.OriginalIndex] = true
	}

	lowered := strings.ToLower(query)
	limit := max(2, len(query)/3)
	for i, name := range names {
		if seen[i] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(lowered, strings.ToLower(name)); d <= limit {
			ranks = append(ranks, Rank{Target: name, Distance: d, OriginalIndex: i})
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	return ranks
}

// Suggest returns up to three node names close to query, best first.
func Suggest(names []string, query string) []string {
	ranks := RankNames(names, query)
	if len(ranks) > maxSuggestions {
		ranks = ranks[:maxSuggestions]
	}
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}
