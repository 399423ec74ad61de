package joyo

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// godanInflection maps a godan dictionary ending to the kana its inflected
// stems end in. No example in the table uses a te- or ta-form, so the
// five-row classes are enough to de-inflect.
var godanInflection = map[rune]string{
	'う': "わえいおう",
	'く': "かけきこく",
	'ぐ': "がげぎごぐ",
	'す': "させしそす",
	'ず': "ざぜじぞず",
	'つ': "たてちとつ",
	'づ': "だでぢどづ",
	'ぬ': "なねにのぬ",
	'ふ': "はへひほふ",
	'ぶ': "ばべびぼぶ",
	'ぷ': "ぱぺぴぽぷ",
	'む': "まめみもむ",
	'る': "られりろる",
}

var ichidanEnding = regexp.MustCompile(`[えけげせぜてでねへべぺめれいきぎしじちぢにひびぴみり]る$`)

// ichidanExceptions look like ichidan verbs by their kana but are nouns.
var ichidanExceptions = map[string]bool{
	"昼": true,
	"汁": true,
}

// AllSuffixes returns every non-empty suffix of s, longest first.
func AllSuffixes(s string) []string {
	runes := []rune(s)
	suffixes := make([]string, 0, len(runes))
	for n := len(runes); n > 0; n-- {
		suffixes = append(suffixes, string(runes[len(runes)-n:]))
	}
	return suffixes
}

// IsIchidanVerb reports whether canonicalReading ends like an ichidan verb,
// which lets the final る be dropped in stem forms of the word.
func IsIchidanVerb(kanji, canonicalReading string) bool {
	if ichidanExceptions[kanji] {
		return false
	}
	return ichidanEnding.MatchString(canonicalReading)
}

// DelimitOkurigana finds where the okurigana of canonicalReading starts by
// looking for the kanji followed by a suffix of the reading in example.
// It returns "stem.okurigana", or the reading unchanged when no split fits.
//
// Suffixes are tried longest first; short ones would otherwise match inside
// unrelated compounds.
func DelimitOkurigana(kanji, canonicalReading, example string) string {
	if example == kanji {
		return canonicalReading
	}

	ichidan := IsIchidanVerb(kanji, canonicalReading)
	for _, suffix := range AllSuffixes(canonicalReading) {
		prefix := strings.TrimSuffix(canonicalReading, suffix)
		delimited := prefix + "." + suffix

		probe := kanji + suffix
		if strings.Contains(example, probe) {
			return delimited
		}

		if ichidan {
			probe = dropLastRune(probe)
			if strings.Contains(example, probe) {
				return delimited
			}
		}

		last := lastRune(probe)
		if endings, ok := godanInflection[last]; ok && inflectedIn(example, dropLastRune(probe), endings) {
			return delimited
		}
	}

	return canonicalReading
}

// inflectedIn reports whether stem occurs in example followed by one of the
// runes in endings.
func inflectedIn(example, stem, endings string) bool {
	for rest := example; rest != ""; {
		i := strings.Index(rest, stem)
		if i < 0 {
			return false
		}
		next, _ := utf8.DecodeRuneInString(rest[i+len(stem):])
		if strings.ContainsRune(endings, next) {
			return true
		}
		_, size := utf8.DecodeRuneInString(rest[i:])
		rest = rest[i+size:]
	}
	return false
}

func lastRune(s string) rune {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
