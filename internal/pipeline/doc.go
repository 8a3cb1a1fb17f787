// Package pipeline sequences the two halves of the system.
//
// Collection walks a channel list with one collector.Collector at a time and
// hands every page to the checkpoint store, resuming an interrupted channel
// first. Analysis loads the vocabulary and every collected channel, scores
// each transcript and records the run in the result store.
package pipeline
