/*
Package gazetteer loads and indexes the stop and line dataset that queries
are resolved against.

The dataset is a pre-built read-only SQLite file produced by the offline
import tooling. LoadFromSQLite reads it once at startup into an Index;
after construction the Index is never mutated, so every lookup (by ID, by
mode, by proximity) is a lock-free in-memory read that is safe for
concurrent use.

Proximity lookups go through a k-d tree over stop coordinates with a
haversine distance metric; NearbyStops returns every stop of a mode within
a radius, closest first.
*/
package gazetteer
