// Package translation resolves the target-language label of a canonical word
// and repairs labels that were never translated.
//
// Resolution walks an ordered chain of dictionary tiers and falls back to the
// word itself. Labels are repaired by re-running that chain and, when a
// machine translator is configured, by asking it on a best-effort basis.
package translation
