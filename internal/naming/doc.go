// Package naming derives display words and companion audio filenames from
// raw image filenames. Both derivations strip the extension and any trailing
// disambiguation suffix; only the display word is re-cased.
package naming
