package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/theoremus-urban-solutions/transit-query-resolver/extract"
	"github.com/theoremus-urban-solutions/transit-query-resolver/fuzzymatch"
	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/geocode"
)

// disambiguate turns the extracted fragments into a consistent
// (line, stop) pairing or a typed Failure. Rules, in order: pin down an
// explicitly requested line; find the origin stop by code, name, attached
// point, or geocoded place; match an optional destination; infer the line
// from topology when none was requested; validate reachability.
func (r *Resolver) disambiguate(ctx context.Context, msg Message, pr extract.ParsedRequest) (*ResolvedRequest, error) {
	line, err := r.resolveLine(msg, pr)
	if err != nil {
		return nil, err
	}

	// A bare line fragment may really name a station ("Victoria" is both).
	// When nothing else can supply an origin, re-read it as one before
	// asking the user where they are.
	if line != nil && pr.StopCode == "" && pr.StopText == "" && msg.Geo == nil {
		if surface := r.lineAsStop(msg.Mode, pr, line); surface != "" {
			pr.StopText = surface
			pr.Location = surface
			line = nil
		}
	}

	origin, err := r.resolveOrigin(ctx, msg, pr, line)
	if err != nil {
		return nil, err
	}

	dest := r.resolveDestination(msg.Mode, pr, line)

	if line == nil {
		line, err = r.inferLine(msg.Mode, origin, dest)
		if err != nil {
			return nil, err
		}
	}

	if dest != nil && !r.graph.DirectRoute(line.ID, origin.ID, dest.ID) {
		return nil, &Failure{
			Kind:     LineStopMismatch,
			Mode:     msg.Mode,
			LineName: line.Name,
			StopName: origin.Name,
			Via:      dest.Name,
		}
	}

	return r.newResolvedRequest(msg.Mode, line, origin, dest, pr.Direction)
}

// newResolvedRequest is the only constructor for a ResolvedRequest: the
// line must serve the stop or the request is not constructible.
func (r *Resolver) newResolvedRequest(mode gazetteer.Mode, line *gazetteer.Line, origin, dest *gazetteer.Stop, direction string) (*ResolvedRequest, error) {
	if !r.graph.Serves(line.ID, origin.ID) {
		return nil, &Failure{Kind: LineStopMismatch, Mode: mode, LineName: line.Name, StopName: origin.Name}
	}
	res := &ResolvedRequest{
		Mode:      mode,
		LineID:    line.ID,
		LineName:  line.Name,
		StopID:    origin.ID,
		StopName:  origin.Name,
		Direction: direction,
	}
	if dest != nil {
		res.ViaID = dest.ID
		res.Via = dest.Name
	}
	return res, nil
}

// resolveLine pins down an explicitly requested line. nil with no error
// means no line was named, which is fine for rail: it is inferred from the
// origin later. Buses always need a route number.
func (r *Resolver) resolveLine(msg Message, pr extract.ParsedRequest) (*gazetteer.Line, error) {
	if msg.Mode == gazetteer.ModeBus {
		if len(pr.Routes) == 0 {
			return nil, &Failure{Kind: InsufficientInput, Mode: msg.Mode, direct: msg.Kind == MsgDirect}
		}
		for _, route := range pr.Routes {
			if line, ok := r.idx.GetLine(route); ok {
				return line, nil
			}
		}
		return nil, &Failure{Kind: NoMatch, Mode: msg.Mode, Slot: SlotLine, Fragment: pr.Routes[0]}
	}

	if len(pr.LineIDs) > 0 {
		if line, ok := r.idx.GetLine(pr.LineIDs[0]); ok {
			return line, nil
		}
	}

	if pr.LineText != "" {
		matches := r.aboveMin(r.scorer.Rank(pr.LineText, r.lineEntries(msg.Mode), fuzzymatch.ClassLineName))
		if len(matches) == 0 {
			return nil, &Failure{Kind: NoMatch, Mode: msg.Mode, Slot: SlotLine, Fragment: pr.LineText}
		}
		if tied := r.withinMargin(matches); len(tied) > 1 {
			return nil, &Failure{Kind: AmbiguousLine, Mode: msg.Mode, Fragment: pr.LineText, Candidates: tied}
		}
		line, _ := r.idx.GetLine(matches[0].ID)
		return line, nil
	}

	return nil, nil
}

// lineAsStop re-ranks the line's surface text against stop names. A
// non-empty return means the text also names a stop and should be treated
// as one.
func (r *Resolver) lineAsStop(mode gazetteer.Mode, pr extract.ParsedRequest, line *gazetteer.Line) string {
	surface := pr.LineText
	if surface == "" {
		surface = line.Name
	}
	matches := r.aboveMin(r.rankStops(surface, r.stopEntries(mode, ""), mode))
	if len(matches) == 0 {
		return ""
	}
	return surface
}

// resolveOrigin finds the departure stop. Priority: explicit stop code,
// then stop name (falling back to geocoding when the name matches
// nothing), then an attached coordinate.
func (r *Resolver) resolveOrigin(ctx context.Context, msg Message, pr extract.ParsedRequest, line *gazetteer.Line) (*gazetteer.Stop, error) {
	if pr.StopCode != "" {
		stop, ok := r.idx.GetStop(pr.StopCode)
		if !ok {
			return nil, &Failure{Kind: NoMatch, Mode: msg.Mode, Slot: SlotCode, Fragment: pr.StopCode}
		}
		if line != nil && !r.graph.Serves(line.ID, stop.ID) {
			return nil, &Failure{
				Kind:     LineStopMismatch,
				Mode:     msg.Mode,
				Slot:     SlotCode,
				Fragment: pr.StopCode,
				LineName: line.Name,
				StopName: stop.Name,
			}
		}
		return stop, nil
	}

	if pr.StopText != "" {
		return r.originByName(ctx, msg, pr, line)
	}

	if msg.Geo != nil {
		return r.originByPoint(msg.Mode, msg.Geo.Lat, msg.Geo.Lon, line)
	}

	f := &Failure{Kind: InsufficientInput, Mode: msg.Mode, direct: msg.Kind == MsgDirect}
	if line != nil {
		f.Fragment = line.Name
	}
	return nil, f
}

func (r *Resolver) originByName(ctx context.Context, msg Message, pr extract.ParsedRequest, line *gazetteer.Line) (*gazetteer.Stop, error) {
	lineID := ""
	if line != nil {
		lineID = line.ID
	}
	matches := r.aboveMin(r.rankStops(pr.StopText, r.stopEntries(msg.Mode, lineID), msg.Mode))
	if len(matches) == 0 {
		// The fragment matches no stop name; read it as a place and look
		// for stops around wherever it geocodes to.
		return r.originByPlace(ctx, msg, pr, line)
	}
	if tied := r.withinMargin(matches); len(tied) > 1 {
		if pick := r.separateByDestination(msg.Mode, pr, tied); pick != "" {
			stop, _ := r.idx.GetStop(pick)
			return stop, nil
		}
		return nil, &Failure{Kind: AmbiguousStop, Mode: msg.Mode, Fragment: pr.StopText, Candidates: tied}
	}
	stop, _ := r.idx.GetStop(matches[0].ID)
	return stop, nil
}

func (r *Resolver) originByPlace(ctx context.Context, msg Message, pr extract.ParsedRequest, line *gazetteer.Line) (*gazetteer.Stop, error) {
	stops, place, err := r.locator.StopsNearPhrase(ctx, msg.Mode, pr.Location)
	switch {
	case errors.Is(err, geocode.ErrNoResults):
		f := &Failure{Kind: NoMatch, Mode: msg.Mode, Slot: SlotStop, Fragment: pr.StopText}
		if line != nil {
			f.LineName = line.Name
		}
		return nil, f
	case errors.Is(err, geocode.ErrOutOfRange):
		f := &Failure{Kind: OutOfRange, Mode: msg.Mode, Fragment: pr.Location, RadiusKM: r.locator.RadiusKM()}
		if place != nil {
			f.Fragment = place.DisplayName
		}
		return nil, f
	case errors.Is(err, geocode.ErrUnavailable):
		return nil, &Failure{Kind: GeocodeUnavailable, Mode: msg.Mode, Fragment: pr.Location}
	case err != nil:
		// Context cancellation and other non-semantic errors pass through.
		return nil, err
	}
	return r.firstServed(msg.Mode, stops, line, place.DisplayName)
}

func (r *Resolver) originByPoint(mode gazetteer.Mode, lat, lon float64, line *gazetteer.Line) (*gazetteer.Stop, error) {
	stops, err := r.locator.StopsNearPoint(mode, lat, lon)
	if errors.Is(err, geocode.ErrOutOfRange) {
		return nil, &Failure{Kind: OutOfRange, Mode: mode, RadiusKM: r.locator.RadiusKM()}
	}
	if err != nil {
		return nil, err
	}
	return r.firstServed(mode, stops, line, "")
}

// firstServed picks the closest stop, honoring the line filter when a line
// was requested.
func (r *Resolver) firstServed(mode gazetteer.Mode, stops []gazetteer.StopDistance, line *gazetteer.Line, placeName string) (*gazetteer.Stop, error) {
	if line == nil {
		return stops[0].Stop, nil
	}
	for _, sd := range stops {
		if r.graph.Serves(line.ID, sd.Stop.ID) {
			return sd.Stop, nil
		}
	}
	return nil, &Failure{
		Kind:     OutOfRange,
		Mode:     mode,
		LineName: line.Name,
		Fragment: placeName,
		RadiusKM: r.locator.RadiusKM(),
	}
}

// resolveDestination matches the TO-slot against the line's stops (or the
// whole mode when no line is pinned yet). A destination matching nothing
// is dropped rather than failing the query: it only ever narrows the
// answer.
func (r *Resolver) resolveDestination(mode gazetteer.Mode, pr extract.ParsedRequest, line *gazetteer.Line) *gazetteer.Stop {
	if pr.Destination == "" {
		return nil
	}
	lineID := ""
	if line != nil {
		lineID = line.ID
	}
	matches := r.aboveMin(r.rankStops(pr.Destination, r.stopEntries(mode, lineID), mode))
	if len(matches) == 0 {
		return nil
	}
	stop, _ := r.idx.GetStop(matches[0].ID)
	return stop
}

// inferLine works out the line when none was requested: the one line
// serving the origin (and destination, when given), several lines being an
// ambiguity for the user to settle.
func (r *Resolver) inferLine(mode gazetteer.Mode, origin, dest *gazetteer.Stop) (*gazetteer.Line, error) {
	var lineIDs []string
	if dest != nil {
		lineIDs = r.graph.CommonLines(origin.ID, dest.ID)
	} else {
		lineIDs = r.graph.LinesServing(origin.ID)
	}

	switch len(lineIDs) {
	case 0:
		if dest != nil {
			return nil, &Failure{Kind: LineStopMismatch, Mode: mode, StopName: origin.Name, Via: dest.Name}
		}
		return nil, &Failure{Kind: NoMatch, Mode: mode, Slot: SlotLine, StopName: origin.Name}
	case 1:
		line, ok := r.idx.GetLine(lineIDs[0])
		if !ok {
			return nil, fmt.Errorf("line %q present in topology but not in gazetteer", lineIDs[0])
		}
		return line, nil
	}

	candidates := make([]Candidate, 0, len(lineIDs))
	for _, id := range lineIDs {
		candidates = append(candidates, Candidate{ID: id, Name: r.idx.GetLineName(id)})
	}
	return nil, &Failure{Kind: AmbiguousLine, Mode: mode, StopName: origin.Name, Candidates: candidates}
}

// separateByDestination breaks a tie between stop candidates using the
// TO-slot: when exactly one tied candidate shares a line with the
// likeliest destination, that candidate wins.
func (r *Resolver) separateByDestination(mode gazetteer.Mode, pr extract.ParsedRequest, tied []Candidate) string {
	if pr.Destination == "" {
		return ""
	}
	destMatches := r.aboveMin(r.rankStops(pr.Destination, r.stopEntries(mode, ""), mode))
	if len(destMatches) == 0 {
		return ""
	}
	destID := destMatches[0].ID

	winner := ""
	for _, c := range tied {
		if len(r.graph.CommonLines(c.ID, destID)) == 0 {
			continue
		}
		if winner != "" {
			return ""
		}
		winner = c.ID
	}
	return winner
}

// aboveMin drops candidates under the configured acceptance bar. Rank
// already floors at the matcher's own minimum; this can only raise it.
func (r *Resolver) aboveMin(matches []fuzzymatch.Match) []fuzzymatch.Match {
	var kept []fuzzymatch.Match
	for _, m := range matches {
		if m.Confidence >= r.minConfidence {
			kept = append(kept, m)
		}
	}
	return kept
}

// withinMargin returns the distinct leading candidates whose confidence
// trails the best by less than the ambiguity margin. More than one entry
// means no candidate dominates.
func (r *Resolver) withinMargin(matches []fuzzymatch.Match) []Candidate {
	if len(matches) == 0 {
		return nil
	}
	top := matches[0].Confidence
	seen := map[string]struct{}{}
	var out []Candidate
	for _, m := range matches {
		if top-m.Confidence >= r.margin {
			break
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, Candidate{ID: m.ID, Name: m.Name, Confidence: m.Confidence})
	}
	return out
}

func (r *Resolver) rankStops(fragment string, entries []fuzzymatch.Entry, mode gazetteer.Mode) []fuzzymatch.Match {
	return r.scorer.Rank(fragment, entries, stopClass(mode))
}

func stopClass(mode gazetteer.Mode) fuzzymatch.Class {
	if mode == gazetteer.ModeBus {
		return fuzzymatch.ClassStopName
	}
	return fuzzymatch.ClassStationName
}

// stopEntries lists the stops a fragment may match: the line's own stops
// when a line is pinned, otherwise every stop of the mode.
func (r *Resolver) stopEntries(mode gazetteer.Mode, lineID string) []fuzzymatch.Entry {
	if lineID != "" {
		line, ok := r.idx.GetLine(lineID)
		if !ok {
			return nil
		}
		entries := make([]fuzzymatch.Entry, 0, len(line.Stops))
		seen := make(map[string]struct{}, len(line.Stops))
		for _, stopID := range line.Stops {
			if _, dup := seen[stopID]; dup {
				continue
			}
			seen[stopID] = struct{}{}
			if s, ok := r.idx.GetStop(stopID); ok {
				entries = append(entries, fuzzymatch.Entry{ID: s.ID, Name: s.Name})
			}
		}
		return entries
	}

	stops := r.idx.StopsForMode(mode)
	entries := make([]fuzzymatch.Entry, 0, len(stops))
	for _, s := range stops {
		entries = append(entries, fuzzymatch.Entry{ID: s.ID, Name: s.Name})
	}
	return entries
}

func (r *Resolver) lineEntries(mode gazetteer.Mode) []fuzzymatch.Entry {
	lines := r.idx.LinesForMode(mode)
	entries := make([]fuzzymatch.Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, fuzzymatch.Entry{ID: l.ID, Name: l.Name})
	}
	return entries
}
