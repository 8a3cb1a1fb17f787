package vocab

import "strings"

var (
	verbInfinitive = []string{"en", "n", "len", "eln"}
	verbPresent    = []string{"e", "st", "et", "t", "en", "n"}
	verbPast       = []string{"te", "ete", "test", "etest", "ten", "eten", "tet", "etet"}

	adjAttributive = []string{"e", "n", "en"}
	adjComparative = []string{"r", "er", "re", "ere", "ren", "eren"}
	adjSuperlative = []string{"sten", "esten", "ste", "este"}
	adjIntensifier = []string{"super", "ultra", "mega"}
	adjIntensified = []string{"e", "en", "n", "er", "r"}
	adjAdverbial   = []string{"rweise", "erweise"}
)

// Expand returns every surface form of base for the given part of speech.
// The result always starts with base, holds no duplicates, and depends only
// on its arguments.
func Expand(base string, pos POS) []string {
	forms := newFormSet(base)
	if base == "" {
		return forms.list
	}
	switch pos {
	case Verb:
		forms.suffixes(base, verbInfinitive)
		forms.suffixes(base, verbPresent)
		forms.suffixes(base, verbPast)
		forms.add(base + "d")
		forms.add("ge" + base + "t")
		forms.add("ge" + base + "ed")
		forms.add(base + "t")
		forms.add(base + "ed")
	case Noun:
		if first, second, ok := strings.Cut(base, "-"); ok {
			forms.add(first + second)
			forms.add(first + " " + second)
		}
		if strings.HasSuffix(base, "y") {
			forms.add(strings.TrimSuffix(base, "y") + "ies")
		} else {
			forms.add(base + "s")
		}
		if strings.HasSuffix(base, "s") {
			forms.add(base + "es")
		} else {
			forms.add(base + "s")
			forms.add(base + "n")
		}
		forms.add(base + "in")
		forms.add(base + "innen")
	case Adjective:
		forms.suffixes(base, adjAttributive)
		forms.suffixes(base, adjComparative)
		forms.suffixes(base, adjSuperlative)
		for _, prefix := range adjIntensifier {
			forms.suffixes(prefix+base, adjIntensified)
		}
		forms.suffixes(base, adjAdverbial)
	}
	return forms.list
}

type formSet struct {
	seen map[string]struct{}
	list []string
}

func newFormSet(base string) *formSet {
	return &formSet{
		seen: map[string]struct{}{base: {}},
		list: []string{base},
	}
}

func (f *formSet) add(form string) {
	if _, ok := f.seen[form]; ok {
		return
	}
	f.seen[form] = struct{}{}
	f.list = append(f.list, form)
}

func (f *formSet) suffixes(stem string, suffixes []string) {
	for _, suffix := range suffixes {
		f.add(stem + suffix)
	}
}
