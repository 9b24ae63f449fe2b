// Package helpers builds the shared test fixtures: a London-flavored
// dataset in the loader's SQLite contract shape and a fully wired engine
// over it.
package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/transit-query-resolver/extract"
	"github.com/theoremus-urban-solutions/transit-query-resolver/fuzzymatch"
	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/geocode"
	"github.com/theoremus-urban-solutions/transit-query-resolver/resolver"
	"github.com/theoremus-urban-solutions/transit-query-resolver/topology"
)

// Fixture network. Victoria is served by three lines, the two Church
// Streets collide by name, and bus stop 48201 is on the 135 only.
var (
	fixtureStops = []gazetteer.Stop{
		{ID: "ANG", Name: "Angel", Lat: 51.5326, Lon: -0.1058, Mode: gazetteer.ModeTube},
		{ID: "BRN", Name: "Bromley", Lat: 51.5248, Lon: 0.0119, Mode: gazetteer.ModeTube},
		{ID: "BRS", Name: "Bromley", Lat: 51.4007, Lon: 0.0144, Mode: gazetteer.ModeTube},
		{ID: "BRX", Name: "Brixton", Lat: 51.4627, Lon: -0.1145, Mode: gazetteer.ModeTube},
		{ID: "BST", Name: "Baker Street", Lat: 51.5226, Lon: -0.1571, Mode: gazetteer.ModeTube},
		{ID: "EMB", Name: "Embankment", Lat: 51.5073, Lon: -0.1223, Mode: gazetteer.ModeTube},
		{ID: "MOR", Name: "Morden", Lat: 51.4023, Lon: -0.1947, Mode: gazetteer.ModeTube},
		{ID: "STM", Name: "Stanmore", Lat: 51.6194, Lon: -0.3028, Mode: gazetteer.ModeTube},
		{ID: "TWH", Name: "Tower Hill", Lat: 51.5098, Lon: -0.0766, Mode: gazetteer.ModeTube},
		{ID: "UPM", Name: "Upminster", Lat: 51.5590, Lon: 0.2510, Mode: gazetteer.ModeTube},
		{ID: "VIC", Name: "Victoria", Lat: 51.4965, Lon: -0.1447, Mode: gazetteer.ModeTube},
		{ID: "BNK", Name: "Bank", Lat: 51.5133, Lon: -0.0886, Mode: gazetteer.ModeDLR},
		{ID: "LEW", Name: "Lewisham", Lat: 51.4657, Lon: -0.0142, Mode: gazetteer.ModeDLR},
		{ID: "47001", Name: "Trafalgar Square", Lat: 51.5080, Lon: -0.1281, Mode: gazetteer.ModeBus},
		{ID: "48201", Name: "Limehouse", Lat: 51.5123, Lon: -0.0396, Mode: gazetteer.ModeBus},
		{ID: "51800", Name: "Regent Street", Lat: 51.5101, Lon: -0.1340, Mode: gazetteer.ModeBus},
		{ID: "53452", Name: "Tower Hill", Lat: 51.5096, Lon: -0.0784, Mode: gazetteer.ModeBus},
		{ID: "60001", Name: "Church Street", Lat: 51.5214, Lon: -0.0693, Mode: gazetteer.ModeBus},
		{ID: "60002", Name: "Church Street", Lat: 51.5302, Lon: -0.0811, Mode: gazetteer.ModeBus},
	}
	fixtureLines = []gazetteer.Line{
		{ID: "D", Name: "District", Mode: gazetteer.ModeTube, Stops: []string{"UPM", "TWH", "EMB", "VIC"}},
		{ID: "M", Name: "Metropolitan", Mode: gazetteer.ModeTube, Stops: []string{"BST", "STM", "BRN"}},
		{ID: "N", Name: "Northern", Mode: gazetteer.ModeTube, Stops: []string{"ANG", "MOR"}},
		{ID: "O", Name: "Circle", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB", "VIC", "BST", "BRS"}},
		{ID: "V", Name: "Victoria", Mode: gazetteer.ModeTube, Stops: []string{"VIC", "BRX"}},
		{ID: "DLR", Name: "DLR", Mode: gazetteer.ModeDLR, Stops: []string{"BNK", "LEW"}},
		{ID: "15", Name: "15", Mode: gazetteer.ModeBus, Stops: []string{"51800", "47001", "53452", "60001", "60002"}},
		{ID: "135", Name: "135", Mode: gazetteer.ModeBus, Stops: []string{"53452", "48201"}},
	}
)

// WriteLondonDataset writes the fixture network into a throwaway SQLite
// file in the loader's contract schema and returns its path.
func WriteLondonDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "london.geodata.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open fixture database: %v", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE stops (id TEXT, name TEXT, lat REAL, lon REAL, mode TEXT)`,
		`CREATE TABLE lines (id TEXT, name TEXT, mode TEXT)`,
		`CREATE TABLE line_stops (line_id TEXT, stop_id TEXT, position INTEGER)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create fixture schema: %v", err)
		}
	}
	for _, s := range fixtureStops {
		if _, err := db.Exec(`INSERT INTO stops VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Lat, s.Lon, string(s.Mode)); err != nil {
			t.Fatalf("Failed to insert stop %s: %v", s.ID, err)
		}
	}
	for _, l := range fixtureLines {
		if _, err := db.Exec(`INSERT INTO lines VALUES (?, ?, ?)`,
			l.ID, l.Name, string(l.Mode)); err != nil {
			t.Fatalf("Failed to insert line %s: %v", l.ID, err)
		}
		for pos, stopID := range l.Stops {
			if _, err := db.Exec(`INSERT INTO line_stops VALUES (?, ?, ?)`,
				l.ID, stopID, pos); err != nil {
				t.Fatalf("Failed to insert line stop %s/%s: %v", l.ID, stopID, err)
			}
		}
	}
	return path
}

// LoadLondonIndex loads the fixture dataset through the production loader.
func LoadLondonIndex(t *testing.T) *gazetteer.Index {
	t.Helper()
	idx, err := gazetteer.LoadFromSQLite(WriteLondonDataset(t), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load fixture dataset: %v", err)
	}
	return idx
}

// ScriptedProvider is an in-memory geocoder with a canned answer and a
// call counter for chain-order assertions.
type ScriptedProvider struct {
	ProviderName string
	Places       []geocode.Place
	Err          error
	Delay        time.Duration
	Calls        int
}

func (p *ScriptedProvider) Name() string { return p.ProviderName }

func (p *ScriptedProvider) Geocode(ctx context.Context, query string) ([]geocode.Place, error) {
	p.Calls++
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Places, nil
}

// NewEngine assembles the full pipeline over idx: extractor, graph,
// matcher, geocode chain with the given per-provider timeout (zero means
// caller-bounded) and a 5 km stop search radius.
func NewEngine(t *testing.T, idx *gazetteer.Index, timeout time.Duration, providers ...geocode.Provider) *resolver.Resolver {
	t.Helper()
	graph := topology.NewGraph(idx)
	dict, err := extract.NewDictionary(idx)
	if err != nil {
		t.Fatalf("Failed to build dictionary: %v", err)
	}
	ex := extract.NewExtractor(dict, "whensmytransport")
	chain := geocode.NewChain(providers, timeout, geocode.NewCache(64, time.Minute), zap.NewNop())
	locator := geocode.NewLocator(chain, idx, 5)
	return resolver.New(idx, graph, fuzzymatch.Ranker{}, locator, ex, resolver.Options{}, zap.NewNop())
}
