/*
Package geocode resolves free-text location phrases to coordinates and
coordinates to nearby stops.

Providers (Nominatim, Bing Maps, Google Geocoding) sit behind a narrow
interface and are tried in configured order by Chain, each attempt bounded
by its own timeout. A provider error or timeout moves the chain to the next
provider; an empty result set does not. The empty answer is authoritative:
when a provider positively reports that a phrase names no place, asking
another provider would only manufacture disagreement. Only when every
provider fails does Chain return ErrUnavailable, the one retryable
condition in the engine.

Responses, including authoritative-empty ones, are memoized in an LRU cache
with a TTL. Failures are never cached.

Locator combines the chain with the gazetteer's spatial index: a phrase or
an attached point becomes the list of in-radius stops, closest first, or
ErrOutOfRange when the point is real but no stop is near enough.
*/
package geocode
