package analysis

import (
	"fmt"
	"testing"
)

func result(title string, counts map[string]int, scores ...Score) TranscriptResult {
	return TranscriptResult{Title: title, Counts: counts, Scores: scores}
}

func TestBuildReportRanksAndTruncates(t *testing.T) {
	var results []TranscriptResult
	for i := range 20 {
		results = append(results, result(fmt.Sprintf("t%02d", i), map[string]int{"Team": i % 4}))
	}
	results[3].Scores = []Score{{Loanword: "Team", Entropy: 1}, {Loanword: "Meeting", Entropy: 2}}
	results[7].Scores = []Score{{Loanword: "Team", Entropy: 3}}

	report := BuildReport(results, 15)
	if report.Transcripts != 20 {
		t.Fatalf("transcripts = %d", report.Transcripts)
	}
	if len(report.TopCounts) != 15 || len(report.TopEntropies) != 15 {
		t.Fatalf("expected 15 rows, got %d/%d", len(report.TopCounts), len(report.TopEntropies))
	}
	// Totals of 3 come from t03, t07, t11, t15, t19 in corpus order.
	for i, want := range []string{"t03", "t07", "t11", "t15", "t19", "t02"} {
		if report.TopCounts[i].Title != want {
			t.Fatalf("TopCounts[%d] = %s, want %s", i, report.TopCounts[i].Title, want)
		}
	}
	if report.TopEntropies[0].Title != "t03" || report.TopEntropies[1].Title != "t07" || report.TopEntropies[2].Title != "t00" {
		t.Fatalf("unexpected entropy ranking: %s %s %s", report.TopEntropies[0].Title, report.TopEntropies[1].Title, report.TopEntropies[2].Title)
	}
}

func TestBuildReportWordSummaries(t *testing.T) {
	results := []TranscriptResult{
		result("a", map[string]int{"Team": 2, "Meeting": 1}, Score{Loanword: "Team", Entropy: 2}, Score{Loanword: "Meeting", Entropy: 1}),
		result("b", map[string]int{"Team": 1}, Score{Loanword: "Team", Entropy: 4}),
	}
	report := BuildReport(results, 0)
	if len(report.Words) != 2 {
		t.Fatalf("words = %+v", report.Words)
	}
	team := report.Words[0]
	if team.Loanword != "Team" || team.Occurrences != 3 || team.Transcripts != 2 || team.MeanEntropy != 3 {
		t.Fatalf("unexpected Team summary: %+v", team)
	}
	if report.Words[1].Loanword != "Meeting" || report.Words[1].MeanEntropy != 1 {
		t.Fatalf("unexpected Meeting summary: %+v", report.Words[1])
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil, 15)
	if report.Transcripts != 0 || len(report.TopCounts) != 0 || len(report.Words) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
