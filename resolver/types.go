package resolver

import (
	"context"

	"github.com/theoremus-urban-solutions/transit-query-resolver/fuzzymatch"
	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/geocode"
)

// MessageKind says how the message reached the bot. Direct messages get a
// different clarification prompt because they cannot carry a location tag.
type MessageKind string

const (
	MsgPublic MessageKind = "public"
	MsgDirect MessageKind = "direct"
)

// GeoPoint is a coordinate attached to the inbound message.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Message is one inbound transit query.
type Message struct {
	Text   string         `json:"text"`
	Mode   gazetteer.Mode `json:"mode"`
	Geo    *GeoPoint      `json:"geo,omitempty"`
	Sender string         `json:"sender,omitempty"`
	Kind   MessageKind    `json:"kind,omitempty"`
}

// ResolvedRequest is the validated output handed to the arrival-time
// layer. The stop is guaranteed to be served by the line.
type ResolvedRequest struct {
	Mode      gazetteer.Mode `json:"mode"`
	LineID    string         `json:"line_id"`
	LineName  string         `json:"line_name"`
	StopID    string         `json:"stop_id"`
	StopName  string         `json:"stop_name"`
	Direction string         `json:"direction,omitempty"`
	ViaID     string         `json:"via_id,omitempty"`
	Via       string         `json:"via,omitempty"`
}

// Scorer ranks a text fragment against candidate entries.
// fuzzymatch.Ranker is the default implementation.
type Scorer interface {
	Rank(fragment string, entries []fuzzymatch.Entry, class fuzzymatch.Class) []fuzzymatch.Match
}

// TopologyIndex answers membership and reachability questions about the
// network. topology.Graph is the default implementation.
type TopologyIndex interface {
	Serves(lineID, stopID string) bool
	LinesServing(stopID string) []string
	CommonLines(stopA, stopB string) []string
	DirectRoute(lineID, from, to string) bool
}

// StopLocator finds stops near a point or a free-text place phrase.
// geocode.Locator is the default implementation.
type StopLocator interface {
	RadiusKM() float64
	StopsNearPoint(mode gazetteer.Mode, lat, lon float64) ([]gazetteer.StopDistance, error)
	StopsNearPhrase(ctx context.Context, mode gazetteer.Mode, phrase string) ([]gazetteer.StopDistance, *geocode.Place, error)
}
