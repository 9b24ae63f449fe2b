package fuzzymatch

import "sort"

// MatchKind records which tier produced a match.
type MatchKind string

const (
	KindExact      MatchKind = "exact"
	KindNormalized MatchKind = "normalized"
	KindFuzzy      MatchKind = "fuzzy"
)

// Match is one ranked candidate.
type Match struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Confidence float64   `json:"confidence"`
	Kind       MatchKind `json:"kind"`
}

// Entry is a named gazetteer record offered for ranking.
type Entry struct {
	ID   string
	Name string
}

// Rank scores the fragment against every entry and returns the candidates
// at or above Floor, best first. Ties break toward the shorter canonical
// name, then lexicographically, so the order is total and deterministic.
// The result is never nil.
func Rank(fragment string, entries []Entry, class Class) []Match {
	matches := []Match{}
	for _, e := range entries {
		conf, kind := scoreKind(fragment, e.Name, class)
		if conf >= Floor {
			matches = append(matches, Match{ID: e.ID, Name: e.Name, Confidence: conf, Kind: kind})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Name) != len(b.Name) {
			return len(a.Name) < len(b.Name)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return matches
}

// Ranker is the stateless default scorer handed to the resolver.
type Ranker struct{}

// Rank implements the resolver's scorer contract with the package scoring.
func (Ranker) Rank(fragment string, entries []Entry, class Class) []Match {
	return Rank(fragment, entries, class)
}
