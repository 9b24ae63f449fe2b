package gazetteer

import (
	"fmt"
	"strings"
)

// Mode identifies the transport network a stop or line belongs to.
type Mode string

const (
	ModeBus  Mode = "bus"
	ModeTube Mode = "tube"
	ModeDLR  Mode = "dlr"
)

// ParseMode converts a dataset or request string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBus:
		return ModeBus, nil
	case ModeTube:
		return ModeTube, nil
	case ModeDLR:
		return ModeDLR, nil
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

// Stop is a boarding point: a bus stop or a rail station.
type Stop struct {
	ID    string // five-digit SMS code for bus stops, short station code for rail
	Name  string
	Lat   float64
	Lon   float64
	Mode  Mode
	Lines []string // IDs of the lines serving this stop, derived at index build
}

// Line is a named service over an ordered sequence of stops.
type Line struct {
	ID    string
	Name  string
	Mode  Mode
	Stops []string // stop IDs in route order
}

// StopDistance pairs a stop with its great-circle distance from a query point.
type StopDistance struct {
	Stop       *Stop
	DistanceKM float64
}
