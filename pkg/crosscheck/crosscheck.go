package crosscheck

import (
	"fmt"
	"strings"

	"github.com/japaniel/joyodb/pkg/joyo"
)

// Finding is a verb reading whose conjugation class, as guessed from its
// kana, disagrees with the dictionary.
type Finding struct {
	Kanji   string
	Reading string
	Example string
	// Guessed is the result of joyo.IsIchidanVerb for the reading.
	Guessed bool
	// Conjugation is the dictionary's conjugation type.
	Conjugation string
}

func (f Finding) String() string {
	guess := "godan"
	if f.Guessed {
		guess = "ichidan"
	}
	return fmt.Sprintf("%s [%s] %s: guessed %s, dictionary says %s", f.Kanji, f.Reading, f.Example, guess, f.Conjugation)
}

// CheckKanji compares the ichidan guess of each delimited Kun reading with
// the conjugation type of the first example the analyzer reads as that
// verb. Readings without such an example are not reported.
func (a *Analyzer) CheckKanji(k *joyo.Kanji) []Finding {
	var findings []Finding
	for _, r := range k.Readings {
		if r.Kind != joyo.Kun || r.Okurigana() == "" {
			continue
		}
		base := k.Kanji + r.Okurigana()
		for _, ex := range r.Examples {
			tok, ok := a.findVerb(ex.Example, base)
			if !ok {
				continue
			}
			guessed := joyo.IsIchidanVerb(k.Kanji, r.Clean())
			if guessed != strings.HasPrefix(tok.Conjugation, "一段") {
				findings = append(findings, Finding{
					Kanji:       k.Kanji,
					Reading:     r.Reading,
					Example:     ex.Example,
					Guessed:     guessed,
					Conjugation: tok.Conjugation,
				})
			}
			break
		}
	}
	return findings
}

// Check runs CheckKanji over every entry.
func (a *Analyzer) Check(kanji []*joyo.Kanji) []Finding {
	var findings []Finding
	for _, k := range kanji {
		findings = append(findings, a.CheckKanji(k)...)
	}
	return findings
}

func (a *Analyzer) findVerb(text, base string) (Token, bool) {
	for _, t := range a.Analyze(text) {
		if t.IsVerb() && t.BaseForm == base {
			return t, true
		}
	}
	return Token{}, false
}
