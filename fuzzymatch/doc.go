/*
Package fuzzymatch rates free-text fragments against gazetteer names.

Scoring is tiered: exact case-insensitive equality scores 1.0, equality
after normalization scores 0.9, and anything else is similarity-scored and
capped below the normalized tier, so a sloppier tier can never outrank a
cleaner one. Candidates under the floor are dropped.

Normalization folds names to a comparison form: ASCII, lowercase, free of
punctuation and the dataset's platform markers, with the usual street
abbreviations applied. Stop and station names are compared with a
sequence-ratio metric plus the dataset's affix conventions; short line
names use a prefix-weighted Jaro-Winkler / Levenshtein blend.

Everything here is pure computation: no I/O, no logging, no shared state.
*/
package fuzzymatch
