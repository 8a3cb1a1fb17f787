package analysis

import (
	"math"
	"testing"

	"anglicorpus/internal/vocab"
)

func TestEntropyExactValue(t *testing.T) {
	lw := vocab.NewLoanword("Computer", vocab.Noun)
	got := Entropy(lw, []string{"a", "a", "b"})
	want := -(2.0/3*math.Log2(2.0/3) + 1.0/3*math.Log2(1.0/3))
	if got != want {
		t.Fatalf("Entropy = %v, want %v", got, want)
	}
}

func TestEntropyIgnoresLoanwordForms(t *testing.T) {
	lw := vocab.NewLoanword("Computer", vocab.Noun)
	got := Entropy(lw, []string{"Computer", "a", "Computers", "b"})
	if got != 1 {
		t.Fatalf("Entropy = %v, want 1", got)
	}
}

func TestEntropyEmptyWindowIsZero(t *testing.T) {
	lw := vocab.NewLoanword("Computer", vocab.Noun)
	for _, window := range [][]string{nil, {"Computer"}, {"Computer", "Computern", "Computer"}} {
		got := Entropy(lw, window)
		if got != 0 || math.Signbit(got) {
			t.Fatalf("Entropy(%q) = %v, want 0", window, got)
		}
	}
	if got := Entropy(lw, []string{"x", "x"}); got != 0 || math.Signbit(got) {
		t.Fatalf("single-token distribution must be +0, got %v", got)
	}
}

func TestWindowsClampToNextOccurrence(t *testing.T) {
	lw := vocab.NewLoanword("Team", vocab.Noun)
	occurrences := []Occurrence{{lw, 5}, {lw, 12}, {lw, 90}}
	got := Windows(occurrences, 100, 25)
	want := []Window{{0, 12}, {12, 37}, {65, 100}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWindowsNeverOverlap(t *testing.T) {
	lw := vocab.NewLoanword("Team", vocab.Noun)
	for _, halfWidth := range []int{1, 3, 25} {
		indices := []int{0, 1, 2, 2, 7, 30, 31, 58, 99}
		occurrences := make([]Occurrence, len(indices))
		for i, idx := range indices {
			occurrences[i] = Occurrence{lw, idx}
		}
		windows := Windows(occurrences, 100, halfWidth)
		for i := range windows {
			w := windows[i]
			if w.Lower < 0 || w.Upper > 100 || w.Lower > w.Upper {
				t.Fatalf("W=%d: invalid window %d: %+v", halfWidth, i, w)
			}
			if i+1 < len(windows) {
				if w.Upper > occurrences[i+1].Index {
					t.Fatalf("W=%d: window %d upper %d exceeds next index %d", halfWidth, i, w.Upper, occurrences[i+1].Index)
				}
				if w.Upper > windows[i+1].Lower {
					t.Fatalf("W=%d: windows %d and %d overlap: %+v %+v", halfWidth, i, i+1, w, windows[i+1])
				}
			}
		}
	}
}

func TestWindowLen(t *testing.T) {
	if (Window{3, 3}).Len() != 0 || (Window{2, 7}).Len() != 5 {
		t.Fatal("unexpected window length")
	}
}
