// Package topology models which lines serve which stops as a line-labeled
// graph over the gazetteer, built once at startup and read-only afterwards.
//
// The graph answers the validation questions the resolver asks: does a line
// serve a stop, which lines serve a stop, which lines two stops share, and
// whether a line links two stops directly. Reachability runs along the
// line's own edges, so branch layouts encoded as repeated stops in the
// sequence are handled.
package topology
