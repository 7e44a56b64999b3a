// Package batch lists pipeline inputs and runs the voice synthesis batch.
//
// A voice batch treats existing output files as a cache and every synthesis
// call as an independent job: a failure or timeout is recorded and the batch
// moves on.
package batch
