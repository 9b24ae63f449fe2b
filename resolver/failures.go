package resolver

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

// FailureKind names one outcome in the failure taxonomy.
type FailureKind string

const (
	InsufficientInput  FailureKind = "insufficient_input"
	NoMatch            FailureKind = "no_match"
	AmbiguousStop      FailureKind = "ambiguous_stop"
	AmbiguousLine      FailureKind = "ambiguous_line"
	LineStopMismatch   FailureKind = "line_stop_mismatch"
	GeocodeUnavailable FailureKind = "geocode_unavailable"
	OutOfRange         FailureKind = "out_of_range"
)

// Slot values name which input slot a NoMatch refers to.
const (
	SlotLine  = "line"
	SlotStop  = "stop"
	SlotCode  = "code"
	SlotPlace = "place"
)

// Candidate is a partial interpretation carried by ambiguous failures so
// the reply layer can list the options.
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Failure is the typed outcome for a query that could not be resolved. It
// satisfies error. Prompt renders the clarification question for the
// sender; the reply layer sends it verbatim.
type Failure struct {
	Kind       FailureKind    `json:"kind"`
	Mode       gazetteer.Mode `json:"mode,omitempty"`
	Slot       string         `json:"slot,omitempty"`
	Fragment   string         `json:"fragment,omitempty"`
	LineName   string         `json:"line_name,omitempty"`
	StopName   string         `json:"stop_name,omitempty"`
	Via        string         `json:"via,omitempty"`
	RadiusKM   float64        `json:"radius_km,omitempty"`
	Candidates []Candidate    `json:"candidates,omitempty"`

	direct bool
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Prompt())
}

// Retryable reports whether resolving the same message again later could
// succeed. Semantic failures are final; only a geocoder outage is
// transient.
func (f *Failure) Retryable() bool {
	return f.Kind == GeocodeUnavailable
}

// Prompt renders a distinct, specific clarification per kind, so the reply
// never degrades into a generic error.
func (f *Failure) Prompt() string {
	switch f.Kind {
	case InsufficientInput:
		return f.insufficientPrompt()
	case NoMatch:
		return f.noMatchPrompt()
	case AmbiguousStop:
		return fmt.Sprintf("There are several stops matching %s: %s. Which one do you mean?",
			f.Fragment, joinCandidates(f.Candidates))
	case AmbiguousLine:
		if f.StopName != "" {
			return fmt.Sprintf("There is more than one line serving %s. Which do you need: %s?",
				f.StopName, joinCandidates(f.Candidates))
		}
		return fmt.Sprintf("I couldn't tell which line you meant by %s. Did you mean %s?",
			f.Fragment, joinCandidates(f.Candidates))
	case LineStopMismatch:
		return f.mismatchPrompt()
	case GeocodeUnavailable:
		return "I can't look up place names right now. Please try again in a minute, or name the stop instead"
	case OutOfRange:
		return f.outOfRangePrompt()
	}
	return "I couldn't work out what you meant. Try 'route or line from stop'"
}

func (f *Failure) insufficientPrompt() string {
	if f.Fragment != "" {
		if f.direct {
			return fmt.Sprintf("Direct messages can't use location tagging. Please send your message in the format '%s from <placename>'", f.Fragment)
		}
		return fmt.Sprintf("Your message wasn't geotagged. Please turn on location, or say '%s from <placename>'", f.Fragment)
	}
	if f.Mode == gazetteer.ModeBus {
		return "I need a bus number in order to find the times for it"
	}
	return "I need a line or a station in order to find the times for it"
}

func (f *Failure) noMatchPrompt() string {
	switch f.Slot {
	case SlotLine:
		if f.Fragment == "" && f.StopName != "" {
			return fmt.Sprintf("I couldn't find any line serving %s", f.StopName)
		}
		if f.Mode == gazetteer.ModeBus {
			return fmt.Sprintf("I couldn't recognise the number you gave me (%s) as a bus route", f.Fragment)
		}
		return fmt.Sprintf("I couldn't recognise that line (%s)", f.Fragment)
	case SlotCode:
		return fmt.Sprintf("I couldn't recognise the number you gave me (%s) as a valid bus stop ID", f.Fragment)
	case SlotStop:
		if f.Mode == gazetteer.ModeBus {
			if f.LineName != "" {
				return fmt.Sprintf("I couldn't find any stops on the %s route by that name (%s)", f.LineName, f.Fragment)
			}
			return fmt.Sprintf("I couldn't find any bus stops by that name (%s)", f.Fragment)
		}
		if f.LineName != "" {
			return fmt.Sprintf("I couldn't recognise that station (%s) as being on the %s", f.Fragment, f.LineName)
		}
		return fmt.Sprintf("I couldn't recognise that station (%s)", f.Fragment)
	case SlotPlace:
		return fmt.Sprintf("I couldn't find anywhere called %s", f.Fragment)
	}
	return fmt.Sprintf("I couldn't match %s to anything I know", f.Fragment)
}

func (f *Failure) mismatchPrompt() string {
	if f.Via != "" {
		if f.LineName != "" {
			return fmt.Sprintf("There is no direct route between %s and %s on the %s", f.StopName, f.Via, f.LineName)
		}
		return fmt.Sprintf("There is no direct route between %s and %s", f.StopName, f.Via)
	}
	if f.Slot == SlotCode {
		return fmt.Sprintf("The %s route doesn't call at the stop with ID %s", f.LineName, f.Fragment)
	}
	return fmt.Sprintf("The %s doesn't call at %s", f.LineName, f.StopName)
}

func (f *Failure) outOfRangePrompt() string {
	where := f.Fragment
	if where == "" {
		where = "your location"
	}
	if f.LineName != "" {
		return fmt.Sprintf("I couldn't find any stops on the %s within %.0f km of %s", f.LineName, f.RadiusKM, where)
	}
	return fmt.Sprintf("I couldn't find any stops within %.0f km of %s", f.RadiusKM, where)
}

func joinCandidates(candidates []Candidate) string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return strings.Join(names, " or ")
}
