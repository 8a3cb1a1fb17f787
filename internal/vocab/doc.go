// Package vocab models the anglicism vocabulary: loanwords with their part of
// speech, the German inflection rules that expand a base form into its
// surface variants, and the JSON vocabulary file that persists the word list.
//
// Variant sets are computed once when a Loanword is constructed and never
// change afterwards. Matching a token against a loanword is an explicit
// membership test (Matches); loanwords are never compared with each other.
package vocab
