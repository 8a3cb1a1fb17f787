// Package textutil provides text processing utilities for transcript tokens,
// caption markup, and filename sanitization.
//
// The primary use cases are:
//   - Splitting transcripts into NFC-normalized whitespace tokens
//   - Reducing caption fragments (entities, inline tags) to plain text
//   - Sanitizing identifiers for safe filesystem use
package textutil
