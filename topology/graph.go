package topology

import (
	"sort"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

// Graph is a line-labeled adjacency over stop IDs.
// Immutable after NewGraph and safe for concurrent reads.
type Graph struct {
	serves map[string]map[string]struct{} // line -> stops it calls at
	adj    map[string]map[string][]string // line -> stop -> adjacent stops on that line
	byStop map[string][]string            // stop -> serving lines, sorted
}

// NewGraph builds the graph from every line in the gazetteer. Consecutive
// stops in a line's sequence become edges in both directions; a stop may
// appear at several positions (branch layouts), which only adds edges.
func NewGraph(idx *gazetteer.Index) *Graph {
	g := &Graph{
		serves: map[string]map[string]struct{}{},
		adj:    map[string]map[string][]string{},
		byStop: map[string][]string{},
	}
	for _, mode := range []gazetteer.Mode{gazetteer.ModeBus, gazetteer.ModeTube, gazetteer.ModeDLR} {
		for _, line := range idx.LinesForMode(mode) {
			g.addLine(line)
		}
	}
	for _, ls := range g.byStop {
		sort.Strings(ls)
	}
	return g
}

func (g *Graph) addLine(line *gazetteer.Line) {
	stopSet := map[string]struct{}{}
	edges := map[string][]string{}
	g.serves[line.ID] = stopSet
	g.adj[line.ID] = edges
	for i, stopID := range line.Stops {
		if _, seen := stopSet[stopID]; !seen {
			stopSet[stopID] = struct{}{}
			g.byStop[stopID] = append(g.byStop[stopID], line.ID)
		}
		if i > 0 {
			if prev := line.Stops[i-1]; prev != stopID {
				edges[prev] = appendUnique(edges[prev], stopID)
				edges[stopID] = appendUnique(edges[stopID], prev)
			}
		}
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// Serves reports whether the line calls at the stop.
func (g *Graph) Serves(lineID, stopID string) bool {
	_, ok := g.serves[lineID][stopID]
	return ok
}

// LinesServing returns the IDs of every line calling at the stop, sorted.
// Callers must not modify the returned slice.
func (g *Graph) LinesServing(stopID string) []string {
	return g.byStop[stopID]
}

// CommonLines returns the sorted IDs of the lines serving both stops.
func (g *Graph) CommonLines(stopA, stopB string) []string {
	var common []string
	for _, lineID := range g.byStop[stopA] {
		if g.Serves(lineID, stopB) {
			common = append(common, lineID)
		}
	}
	return common
}

// DirectRoute reports whether the line links the two stops without a change,
// by breadth-first search along the line's edges.
func (g *Graph) DirectRoute(lineID, from, to string) bool {
	if !g.Serves(lineID, from) || !g.Serves(lineID, to) {
		return false
	}
	if from == to {
		return true
	}
	edges := g.adj[lineID]
	visited := map[string]struct{}{from: {}}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edges[cur] {
			if next == to {
				return true
			}
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return false
}
