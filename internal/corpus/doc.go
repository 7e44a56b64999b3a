// Package corpus assembles image filenames into the bilingual card corpus
// and reads and writes its JSON form.
//
// Assembly is a parallel map over filenames followed by a deterministic
// grouping step, so the output does not depend on input order or on how
// the work was scheduled.
package corpus
