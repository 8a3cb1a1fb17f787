package analysis

import (
	"fmt"

	"anglicorpus/internal/textutil"
	"anglicorpus/internal/vocab"
)

// CountMode selects how loanword occurrences are counted per transcript.
type CountMode string

const (
	// CountFirst counts each found loanword once per transcript.
	CountFirst CountMode = "first"
	// CountAll counts every token that is a form of the loanword.
	CountAll CountMode = "all"
)

// Options tunes an Analyzer.
type Options struct {
	HalfWidth     int
	MinBaseLength int
	CountMode     CountMode
}

// Score is the entropy of one occurrence's context window.
type Score struct {
	Loanword string  `json:"loanword"`
	Index    int     `json:"index"`
	Window   Window  `json:"window"`
	Entropy  float64 `json:"entropy"`
}

// Document is one transcript as stored by the collector.
type Document struct {
	ChannelID  string
	Position   int
	Title      string
	Category   string
	Transcript string
}

// TranscriptResult holds the findings for one transcript.
type TranscriptResult struct {
	ChannelID string         `json:"channel_id"`
	Position  int            `json:"position"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Tokens    int            `json:"tokens"`
	Counts    map[string]int `json:"counts"`
	Scores    []Score        `json:"entropies"`
}

// Total returns the sum of all loanword counts.
func (r TranscriptResult) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Analyzer runs the matcher and entropy scorer over transcripts.
type Analyzer struct {
	matcher *Matcher
	opts    Options
}

// NewAnalyzer prepares an analyzer for the given vocabulary.
func NewAnalyzer(words []*vocab.Loanword, opts Options) (*Analyzer, error) {
	if opts.HalfWidth == 0 {
		opts.HalfWidth = DefaultHalfWidth
	}
	if opts.HalfWidth < 0 {
		return nil, fmt.Errorf("analysis: half width must be positive, got %d", opts.HalfWidth)
	}
	if opts.MinBaseLength == 0 {
		opts.MinBaseLength = DefaultMinBaseLength
	}
	if opts.MinBaseLength < 0 {
		return nil, fmt.Errorf("analysis: min base length must be positive, got %d", opts.MinBaseLength)
	}
	switch opts.CountMode {
	case "":
		opts.CountMode = CountAll
	case CountFirst, CountAll:
	default:
		return nil, fmt.Errorf("analysis: unknown count mode %q", opts.CountMode)
	}
	return &Analyzer{matcher: NewMatcher(words, opts.MinBaseLength), opts: opts}, nil
}

// Options returns the options in effect, with defaults applied.
func (a *Analyzer) Options() Options { return a.opts }

// Loanwords returns how many loanwords take part in matching.
func (a *Analyzer) Loanwords() int { return a.matcher.Size() }

// Analyze scores a single transcript.
func (a *Analyzer) Analyze(doc Document) TranscriptResult {
	tokens := textutil.Tokenize(doc.Transcript)
	occurrences, hits := a.matcher.scan(tokens)
	windows := Windows(occurrences, len(tokens), a.opts.HalfWidth)

	result := TranscriptResult{
		ChannelID: doc.ChannelID,
		Position:  doc.Position,
		Title:     doc.Title,
		Category:  doc.Category,
		Tokens:    len(tokens),
		Counts:    make(map[string]int, len(occurrences)),
		Scores:    make([]Score, 0, len(occurrences)),
	}
	for i, occ := range occurrences {
		w := windows[i]
		result.Scores = append(result.Scores, Score{
			Loanword: occ.Loanword.Base,
			Index:    occ.Index,
			Window:   w,
			Entropy:  Entropy(occ.Loanword, tokens[w.Lower:w.Upper]),
		})
		switch a.opts.CountMode {
		case CountFirst:
			result.Counts[occ.Loanword.Base]++
		default:
			result.Counts[occ.Loanword.Base] += hits[occ.Loanword]
		}
	}
	return result
}
