// Package moderation censors configured words in message bodies before they
// are persisted. Matching runs over a normalized view of the text (lowercase,
// leet speak folded, punctuation stripped) so obfuscated spellings are still
// caught, while replacement happens on the original runes.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Filter struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewFilter builds the Aho-Corasick automaton from the censored word list.
// An empty list yields a pass-through filter.
func NewFilter(censoredWords []string, replacement rune) (*Filter, error) {
	if len(censoredWords) == 0 {
		return &Filter{replacement: replacement}, nil
	}

	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = normalize([]rune(word), nil)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{matcher: m, replacement: replacement}, nil
}

// Censor replaces every matched span with the replacement rune and returns
// the sanitized text plus the matched (normalized) words.
func (f *Filter) Censor(original string) (string, []string) {
	if f.matcher == nil {
		return original, nil
	}

	origRunes := []rune(original)
	var origIdx []int
	normalized := normalize(origRunes, &origIdx)
	if len(normalized) == 0 {
		return original, nil
	}

	spans := f.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		found = append(found, string(span.Word))

		// Map the normalized span back to the original rune range and
		// overwrite it, noise characters included.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = f.replacement
		}
	}
	return string(origRunes), found
}

// normalize lowercases, folds leet speak, and drops punctuation/space/symbol
// runes. When idx is non-nil it records, per kept rune, its position in the
// input so matches can be projected back.
func normalize(input []rune, idx *[]int) []rune {
	out := make([]rune, 0, len(input))
	for i, r := range input {
		folded := foldLeet(r)
		if unicode.IsPunct(folded) || unicode.IsSpace(folded) || unicode.IsSymbol(folded) {
			continue
		}
		out = append(out, unicode.ToLower(folded))
		if idx != nil {
			*idx = append(*idx, i)
		}
	}
	return out
}

// foldLeet maps common leet speak characters back to their letters.
func foldLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
