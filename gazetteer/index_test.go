package gazetteer

import "testing"

func testStops() []Stop {
	return []Stop{
		{ID: "TWH", Name: "Tower Hill", Lat: 51.5098, Lon: -0.0766, Mode: ModeTube},
		{ID: "EMB", Name: "Embankment", Lat: 51.5073, Lon: -0.1223, Mode: ModeTube},
		{ID: "VIC", Name: "Victoria", Lat: 51.4965, Lon: -0.1447, Mode: ModeTube},
		{ID: "UPM", Name: "Upminster", Lat: 51.5590, Lon: 0.2510, Mode: ModeTube},
		{ID: "BNK", Name: "Bank", Lat: 51.5133, Lon: -0.0886, Mode: ModeDLR},
		{ID: "47001", Name: "Trafalgar Square / Charing Cross Stn", Lat: 51.5080, Lon: -0.1281, Mode: ModeBus},
		{ID: "53452", Name: "Tower Hill / Tower of London", Lat: 51.5096, Lon: -0.0784, Mode: ModeBus},
	}
}

func testLines() []Line {
	return []Line{
		{ID: "D", Name: "District", Mode: ModeTube, Stops: []string{"UPM", "TWH", "EMB", "VIC"}},
		{ID: "O", Name: "Circle", Mode: ModeTube, Stops: []string{"TWH", "EMB", "VIC"}},
		{ID: "DLR", Name: "DLR", Mode: ModeDLR, Stops: []string{"BNK"}},
		{ID: "15", Name: "15", Mode: ModeBus, Stops: []string{"47001", "53452"}},
	}
}

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(testStops(), testLines())
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	return idx
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "bus", input: "bus", want: ModeBus},
		{name: "uppercase", input: "TUBE", want: ModeTube},
		{name: "padded", input: " dlr ", want: ModeDLR},
		{name: "unknown", input: "tram", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewIndexRejectsDuplicateStopID(t *testing.T) {
	stops := append(testStops(), Stop{ID: "TWH", Name: "Tower Hill again", Mode: ModeTube})
	if _, err := NewIndex(stops, nil); err == nil {
		t.Error("expected duplicate stop id error, got nil")
	}
}

func TestNewIndexRejectsDuplicateLineID(t *testing.T) {
	lines := append(testLines(), Line{ID: "D", Name: "District again", Mode: ModeTube})
	if _, err := NewIndex(testStops(), lines); err == nil {
		t.Error("expected duplicate line id error, got nil")
	}
}

func TestNewIndexRejectsUnknownStopReference(t *testing.T) {
	lines := []Line{{ID: "D", Name: "District", Mode: ModeTube, Stops: []string{"NOPE"}}}
	if _, err := NewIndex(testStops(), lines); err == nil {
		t.Error("expected unknown stop reference error, got nil")
	}
}

func TestNewIndexDerivesServingLines(t *testing.T) {
	idx := testIndex(t)
	twh, ok := idx.GetStop("TWH")
	if !ok {
		t.Fatal("TWH missing from index")
	}
	if len(twh.Lines) != 2 || twh.Lines[0] != "D" || twh.Lines[1] != "O" {
		t.Errorf("expected TWH served by [D O], got %v", twh.Lines)
	}
	upm, _ := idx.GetStop("UPM")
	if len(upm.Lines) != 1 || upm.Lines[0] != "D" {
		t.Errorf("expected UPM served by [D], got %v", upm.Lines)
	}
}

func TestIndexLookups(t *testing.T) {
	idx := testIndex(t)

	if got := idx.GetStopName("VIC"); got != "Victoria" {
		t.Errorf("expected Victoria, got %q", got)
	}
	if got := idx.GetLineName("O"); got != "Circle" {
		t.Errorf("expected Circle, got %q", got)
	}
	if got := idx.GetStopName("NOPE"); got != "" {
		t.Errorf("expected empty name for unknown stop, got %q", got)
	}
	if _, ok := idx.GetLine("NOPE"); ok {
		t.Error("expected unknown line lookup to miss")
	}
	if idx.StopCount() != 7 || idx.LineCount() != 4 {
		t.Errorf("expected 7 stops and 4 lines, got %d and %d", idx.StopCount(), idx.LineCount())
	}
}

func TestStopsForModeSortedByID(t *testing.T) {
	idx := testIndex(t)
	tube := idx.StopsForMode(ModeTube)
	if len(tube) != 4 {
		t.Fatalf("expected 4 tube stops, got %d", len(tube))
	}
	for i := 1; i < len(tube); i++ {
		if tube[i-1].ID >= tube[i].ID {
			t.Errorf("stops not sorted by ID: %s before %s", tube[i-1].ID, tube[i].ID)
		}
	}
	if got := idx.StopsForMode(ModeBus); len(got) != 2 {
		t.Errorf("expected 2 bus stops, got %d", len(got))
	}
}
