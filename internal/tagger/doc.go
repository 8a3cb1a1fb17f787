// Package tagger provides the part-of-speech capability the vocabulary
// importer consults for words whose tag is unknown.
//
// The model itself runs elsewhere; Client talks to it over HTTP. Commands
// build one tagger per process, wrap it in a Cache so repeated words cost a
// single request, and inject it where needed.
package tagger
