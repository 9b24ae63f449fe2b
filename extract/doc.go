/*
Package extract turns a raw message into the fragments the resolver works
with: line references, bus route tokens, stop codes, origin and destination
text, and compass directions.

Extraction is a fixed grammar, not general language understanding. The
message is sanitized (mentions, hashtags), tokenized, and split into slots
by the separators "from", "to" and "towards"; without a separator, the
leading tokens that read as route or line references end the head and the
remainder becomes the origin. Known line names and their alternate
spellings are found with an Aho-Corasick automaton built once from the
gazetteer.

Extraction never fails: unrecognizable input yields an empty ParsedRequest.
*/
package extract
