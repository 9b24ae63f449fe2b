package fuzzymatch

import (
	"strings"

	"github.com/agnivade/levenshtein"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/xrash/smetrics"
)

// Confidence tiers. Fuzzy scores are capped under the normalized tier so a
// sloppier tier can never outrank a cleaner one.
const (
	scoreExact      = 1.0
	scoreNormalized = 0.9
	fuzzyCeiling    = 0.89

	// Floor is the confidence below which a candidate is discarded.
	Floor = 0.70
)

// Score rates how well a query fragment names a canonical entry,
// returning a confidence in [0,1].
func Score(fragment, canonical string, class Class) float64 {
	conf, _ := scoreKind(fragment, canonical, class)
	return conf
}

func scoreKind(fragment, canonical string, class Class) (float64, MatchKind) {
	if fragment == "" || canonical == "" {
		return 0, KindFuzzy
	}
	if strings.EqualFold(fragment, canonical) {
		return scoreExact, KindExact
	}
	nf, nc := Normalize(fragment, class), Normalize(canonical, class)
	if nf == "" || nc == "" {
		return 0, KindFuzzy
	}
	if nf == nc {
		return scoreNormalized, KindNormalized
	}

	var sim float64
	switch class {
	case ClassLineName:
		sim = lineSimilarity(nf, nc)
	case ClassStationName:
		sim = stationSimilarity(nf, nc)
	default:
		sim = stopSimilarity(nf, nc)
	}
	if sim > fuzzyCeiling {
		sim = fuzzyCeiling
	}
	return sim, KindFuzzy
}

// ratio is the sequence similarity both stop classes build on, in [0,1].
func ratio(a, b string) float64 {
	return float64(fuzzy.Ratio(a, b)) / 100
}

// stopSimilarity rates bus stop names. The dataset suffixes interchange
// stops with STN variants, so affix agreement around that marker outranks
// plain sequence similarity.
func stopSimilarity(query, canonical string) float64 {
	if query == "stn" || strings.HasSuffix(query, " stn") {
		if strings.HasPrefix(canonical, query) {
			return 0.89
		}
		if strings.HasSuffix(canonical, query) {
			return 0.88
		}
	} else {
		if strings.HasPrefix(canonical, query+" stn") || strings.HasPrefix(canonical, query+" bus stn") {
			return 0.87
		}
		if strings.HasSuffix(canonical, query+" stn") || strings.HasSuffix(canonical, query+" bus stn") {
			return 0.86
		}
	}
	return ratio(query, canonical)
}

// stationSimilarity rates rail station names. Riders often type just the
// first word or two of a long station name, so when the plain ratio fails
// the query is retried against the equal-length prefix of the canonical.
func stationSimilarity(query, canonical string) float64 {
	score := ratio(query, canonical)
	if score < Floor && len(query) < len(canonical) {
		if abbr := ratio(query, canonical[:len(query)]); abbr >= 0.90 {
			return abbr
		}
	}
	return score
}

// lineSimilarity rates short line names with a prefix-weighted blend;
// Jaro-Winkler rewards shared prefixes and the Levenshtein term keeps the
// result monotone in edit distance.
func lineSimilarity(a, b string) float64 {
	j := smetrics.JaroWinkler(a, b, 0.7, 4)
	ld := levenshtein.ComputeDistance(a, b)
	den := len(a)
	if len(b) > den {
		den = len(b)
	}
	lev := 1.0 - float64(ld)/float64(den)
	return 0.7*j + 0.3*lev
}
