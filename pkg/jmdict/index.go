package jmdict

import (
	"sort"

	"github.com/japaniel/joyodb/pkg/kana"
)

// Index looks entries up by any of their written forms. It is read-only
// after NewIndex and safe for concurrent use.
type Index struct {
	index map[string][]Entry
}

// NewIndex builds an in-memory index of the provided dictionary.
func NewIndex(entries []Entry) *Index {
	idx := make(map[string][]Entry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &Index{index: idx}
}

// Lookup returns the entries written as text and read as reading, sorted
// by id. An empty reading matches any reading; readings are compared in
// hiragana.
func (ix *Index) Lookup(text, reading string) []Entry {
	var results []Entry
	seen := make(map[string]bool)
	for _, e := range ix.index[text] {
		if seen[e.ID] || !isMatch(e, text, reading) {
			continue
		}
		seen[e.ID] = true
		results = append(results, e)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// Confirms reports whether some entry writes text and reads it as reading.
func (ix *Index) Confirms(text, reading string) bool {
	return len(ix.Lookup(text, reading)) > 0
}

// Glosses returns the English glosses of the matching entries, in order.
func (ix *Index) Glosses(text, reading string) []string {
	var out []string
	for _, e := range ix.Lookup(text, reading) {
		for _, s := range e.Sense {
			for _, g := range s.Gloss {
				if g.Lang == "" || g.Lang == "eng" {
					out = append(out, g.Text)
				}
			}
		}
	}
	return out
}

func isMatch(e Entry, text, reading string) bool {
	if reading == "" {
		return true
	}
	want := kana.ToHiragana(reading)

	// Kana-only words match on the text itself.
	for _, k := range e.Kana {
		if k.Text == text {
			return kana.ToHiragana(k.Text) == want
		}
	}

	for _, k := range e.Kana {
		if kana.ToHiragana(k.Text) == want && appliesTo(k, text) {
			return true
		}
	}
	return false
}

func appliesTo(k Element, text string) bool {
	if len(k.AppliesToKanji) == 0 {
		return true
	}
	for _, a := range k.AppliesToKanji {
		if a == "*" || a == text {
			return true
		}
	}
	return false
}
