package gazetteer

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// LoadFromSQLite reads the pre-built dataset and returns the Index over it.
// The loader runs once at startup; the dataset file is opened read-only in
// effect (nothing here writes) and closed before returning. Contract tables:
//
//	stops(id, name, lat, lon, mode)
//	lines(id, name, mode)
//	line_stops(line_id, stop_id, position)
func LoadFromSQLite(path string, logger *zap.Logger) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	stops, err := readStops(db)
	if err != nil {
		return nil, fmt.Errorf("read stops: %w", err)
	}
	lines, err := readLines(db)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	idx, err := NewIndex(stops, lines)
	if err != nil {
		return nil, err
	}
	logger.Info("gazetteer loaded",
		zap.String("path", path),
		zap.Int("stops", idx.StopCount()),
		zap.Int("lines", idx.LineCount()))
	return idx, nil
}

func readStops(db *sql.DB) ([]Stop, error) {
	rows, err := db.Query(`SELECT id, name, lat, lon, mode FROM stops`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stops []Stop
	for rows.Next() {
		var s Stop
		var mode string
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &mode); err != nil {
			return nil, err
		}
		m, err := ParseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("stop %s: %w", s.ID, err)
		}
		s.Mode = m
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func readLines(db *sql.DB) ([]Line, error) {
	rows, err := db.Query(`SELECT id, name, mode FROM lines`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []Line
	byID := map[string]int{}
	for rows.Next() {
		var l Line
		var mode string
		if err := rows.Scan(&l.ID, &l.Name, &mode); err != nil {
			return nil, err
		}
		m, err := ParseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
		l.Mode = m
		byID[l.ID] = len(lines)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	seq, err := db.Query(`SELECT line_id, stop_id FROM line_stops ORDER BY line_id, position`)
	if err != nil {
		return nil, err
	}
	defer seq.Close()
	for seq.Next() {
		var lineID, stopID string
		if err := seq.Scan(&lineID, &stopID); err != nil {
			return nil, err
		}
		i, ok := byID[lineID]
		if !ok {
			return nil, fmt.Errorf("line_stops references unknown line %q", lineID)
		}
		lines[i].Stops = append(lines[i].Stops, stopID)
	}
	return lines, seq.Err()
}
