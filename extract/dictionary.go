package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

// lineAliases maps a line's canonical lowercase name to the alternate
// spellings riders actually use.
var lineAliases = map[string][]string{
	"hammersmith & city": {"hammersmith and city", "h&c"},
	"waterloo & city":    {"waterloo and city", "w&c"},
	"jubilee":            {"jubillee"},
	"metropolitan":       {"met"},
	"piccadilly":         {"picadilly"},
	"dlr":                {"docklands light railway", "docklands light rail", "docklands"},
}

// Dictionary finds known line names inside free text with one Aho-Corasick
// scan. Patterns and scanned text go through the same canonicalizer, so a
// match in canonical space is a match. Built once per gazetteer; read-only
// afterwards.
type Dictionary struct {
	ac      *ahocorasick.Automaton
	lineIDs []string         // pattern index -> line ID
	modes   []gazetteer.Mode // pattern index -> line mode
}

// LineHit is one recognized line reference. Offsets index the canonical
// form of the scanned text.
type LineHit struct {
	LineID string
	Mode   gazetteer.Mode
	Start  int
	End    int
}

// NewDictionary indexes the names and alternate spellings of every tube and
// DLR line. Bus lines are excluded: their references are numeric route
// tokens, which the grammar matches directly.
func NewDictionary(idx *gazetteer.Index) (*Dictionary, error) {
	d := &Dictionary{}
	var patterns []string
	seen := map[string]struct{}{}
	add := func(surface, lineID string, mode gazetteer.Mode) {
		key := canonicalize(surface)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		patterns = append(patterns, key)
		d.lineIDs = append(d.lineIDs, lineID)
		d.modes = append(d.modes, mode)
	}
	for _, mode := range []gazetteer.Mode{gazetteer.ModeTube, gazetteer.ModeDLR} {
		for _, line := range idx.LinesForMode(mode) {
			surfaces := []string{line.Name}
			surfaces = append(surfaces, lineAliases[strings.ToLower(line.Name)]...)
			for _, s := range surfaces {
				add(s, line.ID, mode)
				// Swallow the trailing keyword: "district line".
				add(s+" line", line.ID, mode)
			}
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build line dictionary: %w", err)
	}
	d.ac = ac
	return d, nil
}

// FindLines returns the line references of the given mode found in text,
// leftmost-longest, non-overlapping, aligned to word boundaries. The text
// is canonicalized before scanning; returned offsets index that canonical
// form, which Canonical exposes.
func (d *Dictionary) FindLines(text string, mode gazetteer.Mode) []LineHit {
	canon := canonicalize(text)
	if canon == "" {
		return nil
	}
	raw := d.ac.FindAllOverlapping([]byte(canon))
	cands := make([]LineHit, 0, len(raw))
	for _, m := range raw {
		if d.modes[m.PatternID] != mode {
			continue
		}
		if !boundaryAligned(canon, m.Start, m.End) {
			continue
		}
		cands = append(cands, LineHit{
			LineID: d.lineIDs[m.PatternID],
			Mode:   d.modes[m.PatternID],
			Start:  m.Start,
			End:    m.End,
		})
	}
	// Leftmost-longest, then drop overlaps.
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		return cands[i].End > cands[j].End
	})
	var hits []LineHit
	lastEnd := -1
	for _, c := range cands {
		if c.Start < lastEnd {
			continue
		}
		hits = append(hits, c)
		lastEnd = c.End
	}
	return hits
}

// Canonical exposes the canonical form FindLines offsets refer to.
func (d *Dictionary) Canonical(text string) string { return canonicalize(text) }

func boundaryAligned(s string, start, end int) bool {
	if start > 0 && s[start-1] != ' ' {
		return false
	}
	if end < len(s) && s[end] != ' ' {
		return false
	}
	return true
}

// canonicalize folds text for automaton matching: lowercase, letters and
// digits kept, ampersands and apostrophes kept as joiners ("h&c", "king's"),
// every other rune a single space.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '&' || c == '\'' {
			out.WriteRune(c)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}
	return strings.TrimRight(out.String(), " ")
}
