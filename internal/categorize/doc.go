// Package categorize assigns image filenames to lexicon categories with a
// keyword-weighted substring score.
package categorize
