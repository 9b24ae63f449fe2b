package fuzzymatch

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Class selects the scoring profile for a comparison.
type Class int

const (
	ClassStopName    Class = iota // bus stop names
	ClassStationName              // rail and DLR station names
	ClassLineName                 // line names
)

// Platform markers the dataset carries in stop names (step-free access,
// tram interchange, DLR tags). They are noise for matching.
var noiseMarkers = strings.NewReplacer("<>", " ", ">T<", " ", "[DLR]", " ", "#", " ")

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)
	spaces   = regexp.MustCompile(`\s+`)
)

// abbreviations maps full tokens to the abbreviated forms the dataset uses.
var abbreviations = map[string]string{
	"street":  "st",
	"saint":   "st",
	"square":  "sq",
	"avenue":  "ave",
	"road":    "rd",
	"station": "stn",
}

// Normalize folds a display name to its comparison form: ASCII, lowercase,
// punctuation-free, abbreviation-normalized, single-spaced. For the
// station-name class a trailing "station" token is dropped, since riders
// rarely type it and the dataset is inconsistent about it.
func Normalize(name string, class Class) string {
	s := unidecode.Unidecode(name)
	s = noiseMarkers.Replace(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ToLower(s)
	// Possessives compact rather than split: king's -> kings.
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "public house", "pub")
	s = nonAlnum.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}

	tokens := strings.Split(s, " ")
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "the" {
			continue
		}
		if abbr, ok := abbreviations[tok]; ok {
			tok = abbr
		}
		out = append(out, tok)
	}
	if class == ClassStationName {
		if n := len(out); n > 1 && out[n-1] == "stn" {
			out = out[:n-1]
		}
	}
	return strings.Join(out, " ")
}
