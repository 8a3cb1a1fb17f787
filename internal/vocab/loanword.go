package vocab

import (
	"unicode/utf8"

	"anglicorpus/internal/textutil"
)

// Loanword is an English-origin base form with its German inflected variants.
type Loanword struct {
	Base string
	POS  POS

	variants []string
	index    map[string]struct{}
}

// NewLoanword expands base according to pos. The base is normalized to NFC
// so it compares equal to tokenized text. The variant set is fixed from here
// on.
func NewLoanword(base string, pos POS) *Loanword {
	base = textutil.NormalizeWord(base)
	variants := Expand(base, pos)
	index := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		index[v] = struct{}{}
	}
	return &Loanword{Base: base, POS: pos, variants: variants, index: index}
}

// Variants returns a copy of the surface forms in generation order.
func (l *Loanword) Variants() []string {
	out := make([]string, len(l.variants))
	copy(out, l.variants)
	return out
}

// Matches reports whether token is one of the loanword's surface forms.
func (l *Loanword) Matches(token string) bool {
	if l == nil {
		return false
	}
	_, ok := l.index[token]
	return ok
}

// Len returns the base form length in characters.
func (l *Loanword) Len() int {
	return utf8.RuneCountInString(l.Base)
}

func (l *Loanword) String() string {
	return l.Base + ": " + string(l.POS)
}

// Matches reports whether token is a surface form of lw.
func Matches(lw *Loanword, token string) bool {
	return lw.Matches(token)
}
