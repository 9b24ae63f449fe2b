package geocode

import (
	"context"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

// Locator turns a phrase or an attached point into candidate stops. When a
// point is already known the provider chain is never consulted.
type Locator struct {
	chain    *Chain
	idx      *gazetteer.Index
	radiusKM float64
}

func NewLocator(chain *Chain, idx *gazetteer.Index, radiusKM float64) *Locator {
	return &Locator{chain: chain, idx: idx, radiusKM: radiusKM}
}

// RadiusKM reports the search radius stops must fall within.
func (l *Locator) RadiusKM() float64 { return l.radiusKM }

// StopsNearPoint returns the stops of the mode within the radius, closest
// first. ErrOutOfRange means the point is real but every stop of the mode
// lies too far away.
func (l *Locator) StopsNearPoint(mode gazetteer.Mode, lat, lon float64) ([]gazetteer.StopDistance, error) {
	found := l.idx.NearbyStops(mode, lat, lon, l.radiusKM)
	if len(found) == 0 {
		return nil, ErrOutOfRange
	}
	return found, nil
}

// StopsNearPhrase geocodes the phrase and returns stops near the best
// placement. Providers rank placements by likelihood, so the first one
// wins. ErrNoResults relays a provider's authoritative empty answer; the
// place is returned alongside ErrOutOfRange so callers can name where the
// query landed.
func (l *Locator) StopsNearPhrase(ctx context.Context, mode gazetteer.Mode, phrase string) ([]gazetteer.StopDistance, *Place, error) {
	places, err := l.chain.Geocode(ctx, phrase)
	if err != nil {
		return nil, nil, err
	}
	if len(places) == 0 {
		return nil, nil, ErrNoResults
	}
	best := places[0]
	stops, err := l.StopsNearPoint(mode, best.Lat, best.Lon)
	if err != nil {
		return nil, &best, err
	}
	return stops, &best, nil
}
