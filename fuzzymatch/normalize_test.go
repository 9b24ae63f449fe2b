package fuzzymatch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		class Class
		want  string
	}{
		{name: "plain", input: "Tower Hill", class: ClassStationName, want: "tower hill"},
		{name: "abbreviations", input: "Trafalgar Square / Charing Cross Stn", class: ClassStopName, want: "trafalgar sq charing cross stn"},
		{name: "street and road", input: "Electric Avenue / Brixton Road", class: ClassStopName, want: "electric ave brixton rd"},
		{name: "saint folds with street", input: "Saint James Street", class: ClassStopName, want: "st james st"},
		{name: "drops the", input: "The Angel", class: ClassStopName, want: "angel"},
		{name: "ampersand", input: "Hammersmith & City", class: ClassLineName, want: "hammersmith and city"},
		{name: "platform markers", input: "Bank [DLR] <>", class: ClassStationName, want: "bank"},
		{name: "tram marker", input: "Wimbledon >T<", class: ClassStationName, want: "wimbledon"},
		{name: "hash marker", input: "Oxford Circus #", class: ClassStopName, want: "oxford circus"},
		{name: "accents fold", input: "Café Royal", class: ClassStopName, want: "cafe royal"},
		{name: "possessive compacts", input: "King's Cross", class: ClassStationName, want: "kings cross"},
		{name: "public house", input: "The Green Man Public House", class: ClassStopName, want: "green man pub"},
		{name: "station class drops trailing station", input: "Paddington Station", class: ClassStationName, want: "paddington"},
		{name: "stop class keeps trailing stn", input: "Paddington Station", class: ClassStopName, want: "paddington stn"},
		{name: "bare station survives", input: "Station", class: ClassStationName, want: "stn"},
		{name: "whitespace collapses", input: "  Mile   End  ", class: ClassStationName, want: "mile end"},
		{name: "empty", input: "", class: ClassStopName, want: ""},
		{name: "symbols only", input: "<> #", class: ClassStopName, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input, tt.class); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
