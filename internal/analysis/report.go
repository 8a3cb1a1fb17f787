package analysis

import (
	"sort"
)

// DefaultTopN is the number of transcripts listed in each report table.
const DefaultTopN = 15

// WordSummary aggregates one loanword across the corpus.
type WordSummary struct {
	Loanword    string  `json:"loanword"`
	Occurrences int     `json:"occurrences"`
	Transcripts int     `json:"transcripts"`
	MeanEntropy float64 `json:"mean_entropy"`
}

// Report is the corpus-level outcome of an analysis run.
type Report struct {
	Transcripts  int                `json:"transcripts"`
	Results      []TranscriptResult `json:"-"`
	TopCounts    []TranscriptResult `json:"top_counts"`
	TopEntropies []TranscriptResult `json:"top_entropies"`
	Words        []WordSummary      `json:"words"`
}

// BuildReport ranks results. TopCounts orders transcripts by their total
// loanword count and TopEntropies by how many entropy scores they carry, both
// descending; ties keep corpus order. Words is sorted by occurrences, then
// base form.
func BuildReport(results []TranscriptResult, topN int) Report {
	if topN <= 0 {
		topN = DefaultTopN
	}
	report := Report{Transcripts: len(results), Results: results}

	byCount := make([]TranscriptResult, len(results))
	copy(byCount, results)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].Total() > byCount[j].Total()
	})
	report.TopCounts = byCount[:min(topN, len(byCount))]

	byScores := make([]TranscriptResult, len(results))
	copy(byScores, results)
	sort.SliceStable(byScores, func(i, j int) bool {
		return len(byScores[i].Scores) > len(byScores[j].Scores)
	})
	report.TopEntropies = byScores[:min(topN, len(byScores))]

	report.Words = summarizeWords(results)
	return report
}

func summarizeWords(results []TranscriptResult) []WordSummary {
	type acc struct {
		occurrences int
		transcripts int
		entropySum  float64
		scored      int
	}
	totals := make(map[string]*acc)
	for _, r := range results {
		for word, n := range r.Counts {
			a := totals[word]
			if a == nil {
				a = &acc{}
				totals[word] = a
			}
			a.occurrences += n
			a.transcripts++
		}
		for _, s := range r.Scores {
			a := totals[s.Loanword]
			if a == nil {
				a = &acc{}
				totals[s.Loanword] = a
			}
			a.entropySum += s.Entropy
			a.scored++
		}
	}

	words := make([]WordSummary, 0, len(totals))
	for word, a := range totals {
		summary := WordSummary{Loanword: word, Occurrences: a.occurrences, Transcripts: a.transcripts}
		if a.scored > 0 {
			summary.MeanEntropy = a.entropySum / float64(a.scored)
		}
		words = append(words, summary)
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Occurrences != words[j].Occurrences {
			return words[i].Occurrences > words[j].Occurrences
		}
		return words[i].Loanword < words[j].Loanword
	})
	return words
}
