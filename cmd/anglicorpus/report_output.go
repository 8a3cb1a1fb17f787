package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"anglicorpus/internal/analysis"
	"anglicorpus/internal/resultstore"
)

// reportJSON is the machine-readable form of a stored or fresh report.
type reportJSON struct {
	Run    runJSON         `json:"run"`
	Report analysis.Report `json:"report"`
}

type runJSON struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	VocabularySize int       `json:"vocabulary_size"`
	Channels       int       `json:"channels"`
	Transcripts    int       `json:"transcripts"`
	HalfWidth      int       `json:"half_width"`
	MinBaseLength  int       `json:"min_base_length"`
	CountMode      string    `json:"count_mode"`
	TopN           int       `json:"top_n"`
}

func newRunJSON(run resultstore.Run) runJSON {
	return runJSON{
		ID:             run.ID,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		VocabularySize: run.VocabularySize,
		Channels:       run.Channels,
		Transcripts:    run.Transcripts,
		HalfWidth:      run.Options.HalfWidth,
		MinBaseLength:  run.Options.MinBaseLength,
		CountMode:      string(run.Options.CountMode),
		TopN:           run.TopN,
	}
}

func printReport(w io.Writer, run resultstore.Run, report analysis.Report, colorize bool) {
	printLines(w, renderSectionHeader("Analysis run", colorize)...)
	fmt.Fprintf(w, "Run:          %s\n", run.ID)
	fmt.Fprintf(w, "Finished:     %s\n", run.FinishedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Corpus:       %d transcripts from %d channels\n", run.Transcripts, run.Channels)
	fmt.Fprintf(w, "Vocabulary:   %d loanwords (min length %d)\n", run.VocabularySize, run.Options.MinBaseLength)
	fmt.Fprintf(w, "Window:       +/-%d tokens, count mode %s\n", run.Options.HalfWidth, run.Options.CountMode)
	fmt.Fprintln(w)

	if report.Transcripts == 0 {
		fmt.Fprintln(w, "No transcripts in the corpus")
		return
	}

	printLines(w, renderSectionHeader("Top transcripts by loanword count", colorize)...)
	rows := make([][]string, 0, len(report.TopCounts))
	for i, r := range report.TopCounts {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.ChannelID,
			r.Title,
			strconv.Itoa(r.Total()),
			formatCounts(r.Counts),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Channel", "Title", "Total", "Loanwords"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintln(w)

	printLines(w, renderSectionHeader("Top transcripts by entropy entries", colorize)...)
	rows = make([][]string, 0, len(report.TopEntropies))
	for i, r := range report.TopEntropies {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.ChannelID,
			r.Title,
			strconv.Itoa(len(r.Scores)),
			formatScores(r.Scores),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Channel", "Title", "Entries", "Entropies"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintln(w)

	printLines(w, renderSectionHeader("Loanwords", colorize)...)
	if len(report.Words) == 0 {
		fmt.Fprintln(w, "No loanwords found")
		return
	}
	limit := min(run.TopN, len(report.Words))
	if limit <= 0 {
		limit = len(report.Words)
	}
	rows = make([][]string, 0, limit)
	for _, word := range report.Words[:limit] {
		rows = append(rows, []string{
			word.Loanword,
			strconv.Itoa(word.Occurrences),
			strconv.Itoa(word.Transcripts),
			formatEntropy(word.MeanEntropy),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Loanword", "Occurrences", "Transcripts", "Mean entropy"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	if limit < len(report.Words) {
		fmt.Fprintf(w, "%d more loanwords not shown (use --json for the full list)\n", len(report.Words)-limit)
	}
}

// formatCounts lists loanword counts, highest first.
func formatCounts(counts map[string]int) string {
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	parts := make([]string, 0, len(words))
	for _, word := range words {
		parts = append(parts, fmt.Sprintf("%s=%d", word, counts[word]))
	}
	return strings.Join(parts, ", ")
}

func formatScores(scores []analysis.Score) string {
	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		parts = append(parts, fmt.Sprintf("%s %s", s.Loanword, formatEntropy(s.Entropy)))
	}
	return strings.Join(parts, ", ")
}

func formatEntropy(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func printRuns(w io.Writer, runs []resultstore.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No analysis runs recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.FinishedAt.Local().Format(time.DateTime),
			strconv.Itoa(run.Channels),
			strconv.Itoa(run.Transcripts),
			strconv.Itoa(run.VocabularySize),
			string(run.Options.CountMode),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Run", "Finished", "Channels", "Transcripts", "Loanwords", "Count mode"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
}
