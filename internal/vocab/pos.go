package vocab

import (
	"fmt"
	"strings"
)

// POS is a coarse part-of-speech tag. Only verbs, nouns, and adjectives get
// inflected variants.
type POS string

const (
	Verb      POS = "VERB"
	Noun      POS = "NOUN"
	Adjective POS = "ADJ"
	Other     POS = "OTHER"
)

// ParsePOS normalizes a tag name. Tagger labels outside the three inflected
// classes (PROPN, ADV, X, ...) collapse to Other; an empty string is an error.
func ParsePOS(value string) (POS, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return "", fmt.Errorf("empty part of speech")
	case "VERB":
		return Verb, nil
	case "NOUN":
		return Noun, nil
	case "ADJ", "ADJECTIVE":
		return Adjective, nil
	default:
		return Other, nil
	}
}

// Valid reports whether p is one of the four known tags.
func (p POS) Valid() bool {
	switch p {
	case Verb, Noun, Adjective, Other:
		return true
	}
	return false
}

func (p POS) String() string { return string(p) }
