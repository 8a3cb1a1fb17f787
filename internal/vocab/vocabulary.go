package vocab

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"anglicorpus/internal/fileutil"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/services"
	"anglicorpus/internal/textutil"
)

var (
	// ErrDuplicate is returned when adding a base form that already exists.
	ErrDuplicate = errors.New("vocabulary entry already exists")
	// ErrUnknownWord is returned when editing a base form that does not exist.
	ErrUnknownWord = errors.New("vocabulary entry not found")
)

// Entry is the persisted form of a loanword. Variants are derived on load.
type Entry struct {
	Base string `json:"base"`
	POS  POS    `json:"pos"`
}

// Tagger supplies a part of speech for a single word.
type Tagger interface {
	Tag(ctx context.Context, word string) (POS, error)
}

// Vocabulary is the ordered, editable word list backing a vocabulary file.
type Vocabulary struct {
	entries []Entry
}

// New builds a vocabulary from entries, preserving their order.
func New(entries []Entry) *Vocabulary {
	v := &Vocabulary{entries: make([]Entry, 0, len(entries))}
	v.entries = append(v.entries, entries...)
	return v
}

// Load reads the vocabulary file at path.
func Load(path string) (*Vocabulary, error) {
	var entries []Entry
	if err := fileutil.ReadJSON(path, &entries); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "vocab", "load", fmt.Sprintf("vocabulary file %s not found (create it with 'anglicorpus vocab import')", path), err)
		}
		return nil, fmt.Errorf("vocab: load: %w", err)
	}
	for i, entry := range entries {
		entry.Base = textutil.NormalizeWord(entry.Base)
		entries[i].Base = entry.Base
		if entry.Base == "" {
			return nil, services.Wrap(services.ErrValidation, "vocab", "load", fmt.Sprintf("entry %d has an empty base form", i), nil)
		}
		if !entry.POS.Valid() {
			pos, err := ParsePOS(string(entry.POS))
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "vocab", "load", fmt.Sprintf("entry %q", entry.Base), err)
			}
			entries[i].POS = pos
		}
	}
	return New(entries), nil
}

// LoadOrEmpty reads path, returning an empty vocabulary if the file is absent.
func LoadOrEmpty(path string) (*Vocabulary, error) {
	v, err := Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return New(nil), nil
	}
	return v, err
}

// Save atomically writes the vocabulary to path.
func (v *Vocabulary) Save(path string) error {
	entries := v.entries
	if entries == nil {
		entries = []Entry{}
	}
	if err := fileutil.WriteJSONAtomic(path, entries); err != nil {
		return fmt.Errorf("vocab: save: %w", err)
	}
	return nil
}

// Entries returns a copy of the entries in file order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int { return len(v.entries) }

// Loanwords expands every entry, in file order.
func (v *Vocabulary) Loanwords() []*Loanword {
	out := make([]*Loanword, 0, len(v.entries))
	for _, entry := range v.entries {
		out = append(out, NewLoanword(entry.Base, entry.POS))
	}
	return out
}

// Find returns the entry for base.
func (v *Vocabulary) Find(base string) (Entry, bool) {
	if i := v.indexOf(base); i >= 0 {
		return v.entries[i], true
	}
	return Entry{}, false
}

// Add appends a new entry.
func (v *Vocabulary) Add(base string, pos POS) error {
	base = textutil.NormalizeWord(base)
	if base == "" {
		return services.Wrap(services.ErrValidation, "vocab", "add", "empty base form", nil)
	}
	if !pos.Valid() {
		return services.Wrap(services.ErrValidation, "vocab", "add", fmt.Sprintf("unknown part of speech %q", pos), nil)
	}
	if v.indexOf(base) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, base)
	}
	v.entries = append(v.entries, Entry{Base: base, POS: pos})
	return nil
}

// Remove deletes the entry for base.
func (v *Vocabulary) Remove(base string) error {
	i := v.indexOf(base)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownWord, base)
	}
	v.entries = append(v.entries[:i], v.entries[i+1:]...)
	return nil
}

// SetPOS changes the part of speech of base.
func (v *Vocabulary) SetPOS(base string, pos POS) error {
	if !pos.Valid() {
		return services.Wrap(services.ErrValidation, "vocab", "set-pos", fmt.Sprintf("unknown part of speech %q", pos), nil)
	}
	i := v.indexOf(base)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownWord, base)
	}
	v.entries[i].POS = pos
	return nil
}

func (v *Vocabulary) indexOf(base string) int {
	base = textutil.NormalizeWord(base)
	for i, entry := range v.entries {
		if entry.Base == base {
			return i
		}
	}
	return -1
}

// ImportResult summarizes a word-list import.
type ImportResult struct {
	Read     int
	Added    int
	Tagged   int
	Untagged int
}

// Import merges a plain-text word list into the vocabulary. Each line holds a
// word, optionally followed by a tab and a part of speech; blank lines and
// lines starting with '#' are ignored, and stray colons are stripped. Existing
// entries keep their tag. New words without a tag are tagged with tagger, or
// recorded as Other when the tagger is nil or fails. The merged list is
// de-duplicated and sorted by base form.
func (v *Vocabulary) Import(ctx context.Context, r io.Reader, tagger Tagger, logger *slog.Logger) (ImportResult, error) {
	logger = logging.NewComponentLogger(logger, "vocab")
	var result ImportResult

	scanner := bufio.NewScanner(r)
	pending := make(map[string]POS)
	var order []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, tag, _ := strings.Cut(line, "\t")
		word = textutil.NormalizeWord(strings.ReplaceAll(word, ":", ""))
		if word == "" {
			continue
		}
		result.Read++
		if v.indexOf(word) >= 0 {
			continue
		}
		var pos POS
		if strings.TrimSpace(tag) != "" {
			parsed, err := ParsePOS(tag)
			if err != nil {
				return result, services.Wrap(services.ErrValidation, "vocab", "import", fmt.Sprintf("word %q", word), err)
			}
			pos = parsed
		}
		if _, seen := pending[word]; !seen {
			order = append(order, word)
			pending[word] = pos
		} else if pos != "" {
			pending[word] = pos
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("vocab: import: read word list: %w", err)
	}

	for _, word := range order {
		pos := pending[word]
		if pos == "" {
			pos = tagWord(ctx, tagger, word, logger, &result)
		}
		v.entries = append(v.entries, Entry{Base: word, POS: pos})
		result.Added++
	}

	sort.SliceStable(v.entries, func(i, j int) bool {
		return v.entries[i].Base < v.entries[j].Base
	})
	return result, nil
}

func tagWord(ctx context.Context, tagger Tagger, word string, logger *slog.Logger, result *ImportResult) POS {
	if tagger == nil {
		result.Untagged++
		return Other
	}
	pos, err := tagger.Tag(ctx, word)
	if err != nil {
		result.Untagged++
		logging.WarnWithContext(logger, "part-of-speech tagging failed", "vocab_tag_failed",
			logging.String("word", word),
			logging.Error(err),
			logging.String(logging.FieldImpact, "word stored as OTHER and matches only its base form"),
			logging.String(logging.FieldErrorHint, "fix the tag with 'anglicorpus vocab set-pos'"),
		)
		return Other
	}
	result.Tagged++
	return pos
}
