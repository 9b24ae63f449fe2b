/*
Package resolver orchestrates query resolution end to end.

One inbound Message (text, mode hint, optional coordinate) flows through
entity extraction, fuzzy matching against the gazetteer, geocoding when
the text names a place rather than a stop, and topology validation. The
outcome is either a ResolvedRequest, whose stop is guaranteed to be served
by its line, or a *Failure from a fixed taxonomy with a clarification
prompt the reply layer can send verbatim.

The Resolver holds no per-query state and is safe for concurrent use. Its
collaborators sit behind narrow interfaces (Scorer, TopologyIndex,
StopLocator) so matching and topology strategies can be swapped without
touching the disambiguation rules.
*/
package resolver
