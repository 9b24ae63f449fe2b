package gazetteer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// writeDataset builds a throwaway dataset file through the same driver the
// loader uses. Tables intentionally carry no uniqueness constraints so the
// loader's own ID checks can be exercised.
func writeDataset(t *testing.T, stmts []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.geodata.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open fixture database: %v", err)
	}
	defer db.Close()
	all := append([]string{
		`CREATE TABLE stops (id TEXT, name TEXT, lat REAL, lon REAL, mode TEXT)`,
		`CREATE TABLE lines (id TEXT, name TEXT, mode TEXT)`,
		`CREATE TABLE line_stops (line_id TEXT, stop_id TEXT, position INTEGER)`,
	}, stmts...)
	for _, stmt := range all {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to execute %q: %v", stmt, err)
		}
	}
	return path
}

func TestLoadFromSQLite(t *testing.T) {
	path := writeDataset(t, []string{
		`INSERT INTO stops VALUES ('TWH', 'Tower Hill', 51.5098, -0.0766, 'tube')`,
		`INSERT INTO stops VALUES ('EMB', 'Embankment', 51.5073, -0.1223, 'tube')`,
		`INSERT INTO stops VALUES ('47001', 'Trafalgar Square', 51.5080, -0.1281, 'bus')`,
		`INSERT INTO lines VALUES ('D', 'District', 'tube')`,
		`INSERT INTO line_stops VALUES ('D', 'EMB', 2)`,
		`INSERT INTO line_stops VALUES ('D', 'TWH', 1)`,
	})

	idx, err := LoadFromSQLite(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	if idx.StopCount() != 3 || idx.LineCount() != 1 {
		t.Errorf("expected 3 stops and 1 line, got %d and %d", idx.StopCount(), idx.LineCount())
	}

	d, ok := idx.GetLine("D")
	if !ok {
		t.Fatal("line D missing after load")
	}
	// line_stops rows are inserted out of order; position must win.
	if len(d.Stops) != 2 || d.Stops[0] != "TWH" || d.Stops[1] != "EMB" {
		t.Errorf("expected stop order [TWH EMB], got %v", d.Stops)
	}

	twh, _ := idx.GetStop("TWH")
	if twh == nil || twh.Mode != ModeTube || twh.Name != "Tower Hill" {
		t.Errorf("unexpected TWH record: %+v", twh)
	}
	if len(twh.Lines) != 1 || twh.Lines[0] != "D" {
		t.Errorf("expected TWH served by [D], got %v", twh.Lines)
	}
}

func TestLoadFromSQLiteErrors(t *testing.T) {
	tests := []struct {
		name  string
		stmts []string
	}{
		{
			name: "duplicate stop id",
			stmts: []string{
				`INSERT INTO stops VALUES ('TWH', 'Tower Hill', 51.5098, -0.0766, 'tube')`,
				`INSERT INTO stops VALUES ('TWH', 'Tower Hill copy', 51.5098, -0.0766, 'tube')`,
			},
		},
		{
			name: "duplicate line id",
			stmts: []string{
				`INSERT INTO lines VALUES ('D', 'District', 'tube')`,
				`INSERT INTO lines VALUES ('D', 'District copy', 'tube')`,
			},
		},
		{
			name: "unknown mode",
			stmts: []string{
				`INSERT INTO stops VALUES ('X', 'Somewhere', 0, 0, 'tram')`,
			},
		},
		{
			name: "line_stops references unknown line",
			stmts: []string{
				`INSERT INTO stops VALUES ('TWH', 'Tower Hill', 51.5098, -0.0766, 'tube')`,
				`INSERT INTO line_stops VALUES ('NOPE', 'TWH', 1)`,
			},
		},
		{
			name: "line references unknown stop",
			stmts: []string{
				`INSERT INTO lines VALUES ('D', 'District', 'tube')`,
				`INSERT INTO line_stops VALUES ('D', 'NOPE', 1)`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDataset(t, tt.stmts)
			if _, err := LoadFromSQLite(path, zap.NewNop()); err == nil {
				t.Error("expected load error, got nil")
			}
		})
	}
}

func TestLoadFromSQLiteMissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if _, err := LoadFromSQLite(path, zap.NewNop()); err == nil {
		t.Error("expected error for dataset without contract tables, got nil")
	}
}
