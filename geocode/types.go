package geocode

import (
	"context"
	"errors"
)

// Place is a single geocoder placement for a query phrase.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Provider turns a free-text phrase into zero or more placements.
//
// A nil error with an empty slice is an authoritative "nowhere by that
// name": the provider understood the query and found nothing. A non-nil
// error means the provider could not answer at all and the next provider
// in the chain should be asked.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]Place, error)
}

var (
	// ErrUnavailable means every provider in the chain failed. Callers may
	// retry the same query later.
	ErrUnavailable = errors.New("geocode: no provider available")

	// ErrNoResults relays a provider's authoritative empty answer.
	ErrNoResults = errors.New("geocode: no results")

	// ErrOutOfRange means the query located a real point, but every stop of
	// the requested mode lies beyond the search radius.
	ErrOutOfRange = errors.New("geocode: no stops in range")
)
