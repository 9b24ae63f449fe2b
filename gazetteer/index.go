package gazetteer

import (
	"fmt"
	"sort"
)

// Index stores the loaded dataset in memory for fast lookups.
// It is immutable after construction and safe for concurrent reads.
type Index struct {
	stops       map[string]*Stop
	lines       map[string]*Line
	stopsByMode map[Mode][]*Stop
	linesByMode map[Mode][]*Line
	trees       map[Mode]*kdNode
}

// NewIndex builds an Index from loaded stops and lines. Duplicate stop or
// line IDs and line references to unknown stops are load errors. Stop.Lines
// is derived here from the line stop sequences; any value set by the caller
// is discarded.
func NewIndex(stops []Stop, lines []Line) (*Index, error) {
	idx := &Index{
		stops:       make(map[string]*Stop, len(stops)),
		lines:       make(map[string]*Line, len(lines)),
		stopsByMode: map[Mode][]*Stop{},
		linesByMode: map[Mode][]*Line{},
		trees:       map[Mode]*kdNode{},
	}
	for i := range stops {
		s := &stops[i]
		if _, dup := idx.stops[s.ID]; dup {
			return nil, fmt.Errorf("duplicate stop id %q", s.ID)
		}
		s.Lines = nil
		idx.stops[s.ID] = s
		idx.stopsByMode[s.Mode] = append(idx.stopsByMode[s.Mode], s)
	}
	for i := range lines {
		l := &lines[i]
		if _, dup := idx.lines[l.ID]; dup {
			return nil, fmt.Errorf("duplicate line id %q", l.ID)
		}
		seen := make(map[string]struct{}, len(l.Stops))
		for _, stopID := range l.Stops {
			s, ok := idx.stops[stopID]
			if !ok {
				return nil, fmt.Errorf("line %q references unknown stop %q", l.ID, stopID)
			}
			if _, already := seen[stopID]; !already {
				seen[stopID] = struct{}{}
				s.Lines = append(s.Lines, l.ID)
			}
		}
		idx.lines[l.ID] = l
		idx.linesByMode[l.Mode] = append(idx.linesByMode[l.Mode], l)
	}
	for _, ss := range idx.stopsByMode {
		sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
	}
	for _, ls := range idx.linesByMode {
		sort.Slice(ls, func(i, j int) bool { return ls[i].ID < ls[j].ID })
	}
	for mode, ss := range idx.stopsByMode {
		// buildKD reorders its input slice, so give it a copy.
		nodes := make([]*Stop, len(ss))
		copy(nodes, ss)
		idx.trees[mode] = buildKD(nodes, 0)
	}
	return idx, nil
}

// GetStop looks up a stop by its dataset ID.
func (x *Index) GetStop(id string) (*Stop, bool) {
	s, ok := x.stops[id]
	return s, ok
}

// GetLine looks up a line by its dataset ID.
func (x *Index) GetLine(id string) (*Line, bool) {
	l, ok := x.lines[id]
	return l, ok
}

// GetStopName returns the display name for a stop ID, or "" when unknown.
func (x *Index) GetStopName(id string) string {
	if s, ok := x.stops[id]; ok {
		return s.Name
	}
	return ""
}

// GetLineName returns the display name for a line ID, or "" when unknown.
func (x *Index) GetLineName(id string) string {
	if l, ok := x.lines[id]; ok {
		return l.Name
	}
	return ""
}

// StopsForMode returns every stop of the given mode, ordered by ID.
// Callers must not modify the returned slice.
func (x *Index) StopsForMode(m Mode) []*Stop { return x.stopsByMode[m] }

// LinesForMode returns every line of the given mode, ordered by ID.
// Callers must not modify the returned slice.
func (x *Index) LinesForMode(m Mode) []*Line { return x.linesByMode[m] }

// StopCount returns the number of stops across all modes.
func (x *Index) StopCount() int { return len(x.stops) }

// LineCount returns the number of lines across all modes.
func (x *Index) LineCount() int { return len(x.lines) }

// NearbyStops returns every stop of the given mode within radiusKM of the
// point, closest first. Stops at identical distance are ordered by ID, so
// equidistant candidates are deterministic for the caller to inspect.
func (x *Index) NearbyStops(m Mode, lat, lon, radiusKM float64) []StopDistance {
	found := withinRadius(x.trees[m], lat, lon, radiusKM, nil)
	sort.Slice(found, func(i, j int) bool {
		if found[i].DistanceKM != found[j].DistanceKM {
			return found[i].DistanceKM < found[j].DistanceKM
		}
		return found[i].Stop.ID < found[j].Stop.ID
	})
	return found
}
