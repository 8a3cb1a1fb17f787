// Package analysis finds anglicisms in transcripts and scores how surprising
// their local context is.
//
// A Matcher indexes every variant of every loanword and records, per
// transcript, the first token position each loanword appears at. Windows
// assigns each occurrence a context range of up to W tokens on either side,
// clamped so that ranges of neighbouring occurrences never overlap. Entropy
// measures the Shannon entropy (base 2) of a window with the loanword's own
// forms removed; an empty remainder scores 0.
//
// Analyzer combines these for one transcript and BuildReport aggregates a
// corpus into the top-N tables.
package analysis
