package extract

import "strings"

// ParsedRequest carries the raw fragments recognized in one message.
// Empty fields mean the slot was not present in the text.
type ParsedRequest struct {
	LineIDs     []string // dictionary-recognized lines, in order of appearance
	LineText    string   // unrecognized line fragment left in the head
	Routes      []string // bus route tokens, uppercased, in head order
	StopCode    string   // five-digit SMS stop code (bus mode only)
	StopText    string   // origin stop or station fragment
	Location    string   // origin phrase for geocoding; same text as StopText
	Destination string   // TO/TOWARDS fragment
	Direction   string   // canonical compass direction, e.g. "Northbound"
}

// Empty reports whether nothing usable was recognized.
func (p ParsedRequest) Empty() bool {
	return len(p.LineIDs) == 0 && p.LineText == "" && len(p.Routes) == 0 &&
		p.StopCode == "" && p.StopText == "" && p.Destination == "" && p.Direction == ""
}

// Compass vocabulary. Strong forms carry the -bound suffix and are
// unambiguous anywhere; bare words only count when they stand alone, so
// "North Acton" stays a name.
var (
	compassStrong = map[string]string{}
	compassWeak   = map[string]string{}
)

func init() {
	for _, c := range []string{"Northbound", "Eastbound", "Southbound", "Westbound"} {
		long := strings.ToLower(c)                  // northbound
		word := strings.TrimSuffix(long, "bound")   // north
		first := word[:1]                           // n
		for _, v := range []string{long, first + "bound", first + "-bound"} {
			compassStrong[v] = c
		}
		compassWeak[word] = c
		compassWeak[first] = c
	}
}

// strongDirection maps unambiguous compass tokens to their canonical form.
func strongDirection(tok string) (string, bool) {
	c, ok := compassStrong[tok]
	return c, ok
}

// anyDirection also accepts the bare forms ("north", "n").
func anyDirection(tok string) (string, bool) {
	if c, ok := compassStrong[tok]; ok {
		return c, true
	}
	c, ok := compassWeak[tok]
	return c, ok
}
