// Package placement decides where a model runs.
//
// DefaultBatchSize guesses an inference batch size from the accelerator a
// Probe reports, and MoveToDevice relocates (and optionally casts) a Model
// onto that accelerator. Both are stateless: every call asks the Probe again
// and nothing is cached here.
package placement
