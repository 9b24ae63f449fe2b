package extract

import (
	"testing"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	stops := []gazetteer.Stop{
		{ID: "TWH", Name: "Tower Hill", Mode: gazetteer.ModeTube},
		{ID: "EMB", Name: "Embankment", Mode: gazetteer.ModeTube},
		{ID: "BNK", Name: "Bank", Mode: gazetteer.ModeDLR},
		{ID: "LEW", Name: "Lewisham", Mode: gazetteer.ModeDLR},
		{ID: "47001", Name: "Trafalgar Square", Mode: gazetteer.ModeBus},
		{ID: "53452", Name: "Tower Hill / Tower of London", Mode: gazetteer.ModeBus},
	}
	lines := []gazetteer.Line{
		{ID: "D", Name: "District", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "O", Name: "Circle", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "V", Name: "Victoria", Mode: gazetteer.ModeTube, Stops: []string{"EMB", "TWH"}},
		{ID: "H", Name: "Hammersmith & City", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "M", Name: "Metropolitan", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "J", Name: "Jubilee", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "P", Name: "Piccadilly", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
		{ID: "DLR", Name: "DLR", Mode: gazetteer.ModeDLR, Stops: []string{"BNK", "LEW"}},
		{ID: "15", Name: "15", Mode: gazetteer.ModeBus, Stops: []string{"47001", "53452"}},
	}
	idx, err := gazetteer.NewIndex(stops, lines)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	dict, err := NewDictionary(idx)
	if err != nil {
		t.Fatalf("Failed to build dictionary: %v", err)
	}
	return NewExtractor(dict, "whensmytransport")
}

func TestFindLinesAliases(t *testing.T) {
	e := testExtractor(t)
	tests := []struct {
		name string
		text string
		mode gazetteer.Mode
		want string
	}{
		{name: "canonical", text: "district", mode: gazetteer.ModeTube, want: "D"},
		{name: "with keyword", text: "district line", mode: gazetteer.ModeTube, want: "D"},
		{name: "ampersand short form", text: "h&c", mode: gazetteer.ModeTube, want: "H"},
		{name: "spelled out", text: "hammersmith and city line", mode: gazetteer.ModeTube, want: "H"},
		{name: "met", text: "met", mode: gazetteer.ModeTube, want: "M"},
		{name: "jubilee misspelling", text: "jubillee line", mode: gazetteer.ModeTube, want: "J"},
		{name: "piccadilly misspelling", text: "picadilly", mode: gazetteer.ModeTube, want: "P"},
		{name: "docklands", text: "docklands", mode: gazetteer.ModeDLR, want: "DLR"},
		{name: "docklands light railway", text: "docklands light railway", mode: gazetteer.ModeDLR, want: "DLR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := e.dict.FindLines(tt.text, tt.mode)
			if len(hits) != 1 {
				t.Fatalf("expected 1 hit, got %d: %v", len(hits), hits)
			}
			if hits[0].LineID != tt.want {
				t.Errorf("expected %s, got %s", tt.want, hits[0].LineID)
			}
		})
	}
}

func TestFindLinesLeftmostLongest(t *testing.T) {
	e := testExtractor(t)
	// "met" must not win inside "metropolitan", and the "line" keyword is
	// swallowed by the longer pattern.
	hits := e.dict.FindLines("metropolitan line from aldgate", gazetteer.ModeTube)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d: %v", len(hits), hits)
	}
	if hits[0].LineID != "M" {
		t.Errorf("expected M, got %s", hits[0].LineID)
	}
	if hits[0].Start != 0 || hits[0].End != len("metropolitan line") {
		t.Errorf("expected span over %q, got [%d:%d]", "metropolitan line", hits[0].Start, hits[0].End)
	}
}

func TestFindLinesWordBoundaries(t *testing.T) {
	e := testExtractor(t)
	// "met" embedded in another word is not a line reference.
	if hits := e.dict.FindLines("gomet station", gazetteer.ModeTube); len(hits) != 0 {
		t.Errorf("expected no hits inside words, got %v", hits)
	}
	if hits := e.dict.FindLines("dometo", gazetteer.ModeTube); len(hits) != 0 {
		t.Errorf("expected no hits inside words, got %v", hits)
	}
}

func TestFindLinesModeFilter(t *testing.T) {
	e := testExtractor(t)
	if hits := e.dict.FindLines("dlr from bank", gazetteer.ModeTube); len(hits) != 0 {
		t.Errorf("expected no tube hits for a DLR reference, got %v", hits)
	}
	hits := e.dict.FindLines("dlr from bank", gazetteer.ModeDLR)
	if len(hits) != 1 || hits[0].LineID != "DLR" {
		t.Errorf("expected DLR hit, got %v", hits)
	}
}

func TestFindLinesMultipleInOrder(t *testing.T) {
	e := testExtractor(t)
	hits := e.dict.FindLines("circle district from tower hill", gazetteer.ModeTube)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %v", len(hits), hits)
	}
	if hits[0].LineID != "O" || hits[1].LineID != "D" {
		t.Errorf("expected [O D] in text order, got [%s %s]", hits[0].LineID, hits[1].LineID)
	}
}
