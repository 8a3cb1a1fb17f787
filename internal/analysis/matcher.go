package analysis

import (
	"sort"

	"anglicorpus/internal/vocab"
)

// DefaultMinBaseLength drops very short base forms, which mostly match
// unrelated German words.
const DefaultMinBaseLength = 3

// Occurrence is the first position of a loanword in a token sequence.
type Occurrence struct {
	Loanword *vocab.Loanword
	Index    int
}

// Matcher locates loanwords in token sequences in a single pass.
type Matcher struct {
	words []*vocab.Loanword
	// forms maps each surface form to the positions in words that own it.
	forms map[string][]int
}

// NewMatcher indexes words. Loanwords whose base has fewer than minBaseLength
// characters are left out entirely.
func NewMatcher(words []*vocab.Loanword, minBaseLength int) *Matcher {
	m := &Matcher{forms: make(map[string][]int)}
	for _, lw := range words {
		if lw == nil || lw.Len() < minBaseLength {
			continue
		}
		pos := len(m.words)
		m.words = append(m.words, lw)
		for _, form := range lw.Variants() {
			m.forms[form] = append(m.forms[form], pos)
		}
	}
	return m
}

// Size returns the number of loanwords the matcher searches for.
func (m *Matcher) Size() int { return len(m.words) }

// Find returns one occurrence per matching loanword, ordered by index. Two
// loanwords first seen at the same index keep vocabulary order.
func (m *Matcher) Find(tokens []string) []Occurrence {
	occurrences, _ := m.scan(tokens)
	return occurrences
}

// scan returns the sorted first occurrences plus, per matched loanword, the
// number of tokens that are one of its forms.
func (m *Matcher) scan(tokens []string) ([]Occurrence, map[*vocab.Loanword]int) {
	first := make(map[int]int)
	hits := make(map[*vocab.Loanword]int)
	for i, token := range tokens {
		owners, ok := m.forms[token]
		if !ok {
			continue
		}
		for _, pos := range owners {
			if _, seen := first[pos]; !seen {
				first[pos] = i
			}
			hits[m.words[pos]]++
		}
	}

	order := make([]int, 0, len(first))
	for pos := range first {
		order = append(order, pos)
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := first[order[a]], first[order[b]]
		if ia != ib {
			return ia < ib
		}
		return order[a] < order[b]
	})

	occurrences := make([]Occurrence, 0, len(order))
	for _, pos := range order {
		occurrences = append(occurrences, Occurrence{Loanword: m.words[pos], Index: first[pos]})
	}
	return occurrences, hits
}
