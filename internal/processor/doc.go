// Package processor contains the steps behind the flashsort subcommands.
// It reads inputs, runs the corpus assembler, the translation fix pass, the
// voice batch, the organizer and the Anki export, and prints a summary of
// each run.
package processor
