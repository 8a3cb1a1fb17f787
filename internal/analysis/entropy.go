package analysis

import (
	"math"

	"anglicorpus/internal/vocab"
)

// DefaultHalfWidth is the nominal number of tokens on each side of an
// occurrence.
const DefaultHalfWidth = 25

// Window is the half-open token range [Lower, Upper).
type Window struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// Len returns the number of tokens covered.
func (w Window) Len() int {
	if w.Upper <= w.Lower {
		return 0
	}
	return w.Upper - w.Lower
}

// Windows assigns each occurrence its context range within a sequence of n
// tokens. occurrences must be sorted by index. Each upper bound stops at the
// next occurrence and each lower bound starts no earlier than the previous
// window's end, so the ranges are pairwise disjoint.
func Windows(occurrences []Occurrence, n, halfWidth int) []Window {
	windows := make([]Window, len(occurrences))
	prevUpper := 0
	for i, occ := range occurrences {
		lower := max(0, occ.Index-halfWidth, prevUpper)
		upper := min(n, occ.Index+halfWidth)
		if i+1 < len(occurrences) && occurrences[i+1].Index < upper {
			upper = occurrences[i+1].Index
		}
		if upper < lower {
			upper = lower
		}
		windows[i] = Window{Lower: lower, Upper: upper}
		prevUpper = upper
	}
	return windows
}

// Entropy returns the Shannon entropy in bits of the token distribution in
// window, ignoring tokens that are forms of lw. A window with nothing left
// to count has entropy 0.
func Entropy(lw *vocab.Loanword, window []string) float64 {
	counts := make(map[string]int, len(window))
	order := make([]string, 0, len(window))
	total := 0
	for _, token := range window {
		if lw.Matches(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
		total++
	}
	if total == 0 {
		return 0
	}
	var sum float64
	for _, token := range order {
		p := float64(counts[token]) / float64(total)
		sum += p * math.Log2(p)
	}
	if sum == 0 {
		return 0
	}
	return -sum
}
