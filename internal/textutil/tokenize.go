package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text on Unicode whitespace after NFC normalization, so
// decomposed umlauts from caption sources compare equal to vocabulary entries.
// Punctuation and case are preserved.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Fields(norm.NFC.String(text))
}

// NormalizeWord trims word and puts it in NFC, the same form Tokenize
// produces.
func NormalizeWord(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

// JoinFragments concatenates caption fragments with single spaces, skipping
// fragments that are blank after trimming.
func JoinFragments(fragments []string) string {
	var b strings.Builder
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fragment)
	}
	return b.String()
}
