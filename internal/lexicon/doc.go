// Package lexicon holds the static configuration of the card pipeline: the
// ordered category keyword tables, the general and per-category translation
// dictionaries, and the casing overrides used when rendering display words.
//
// A Lexicon is loaded once per process and shared read-only by every caller.
// Order matters in two places: category order breaks scoring ties, and
// dictionary order decides which entry a partial match picks.
package lexicon
