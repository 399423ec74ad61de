// Package crosscheck verifies parsed readings against a morphological
// dictionary.
package crosscheck

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface  string // The text as it appears (e.g. "帰っ")
	BaseForm string // The dictionary form (e.g. "帰る")
	Reading  string // Katakana reading (e.g. "カエッ")
	// PrimaryPOS is the first part-of-speech label (e.g. "動詞").
	PrimaryPOS string
	// Conjugation is the IPA conjugation type (e.g. "一段", "五段・ラ行"),
	// empty for words that do not conjugate.
	Conjugation string
}

// IsVerb reports whether the token is a verb.
func (t Token) IsVerb() bool { return t.PrimaryPOS == "動詞" }

// Analyzer tokenizes example words with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings, base forms and
// conjugation types.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: POS, three sub-POS, conjugation type, conjugation
		// form, base form, reading, pronunciation.
		features := token.Features()
		t := Token{Surface: token.Surface, BaseForm: token.Surface}
		if len(features) > 0 {
			t.PrimaryPOS = features[0]
		}
		if len(features) > 4 && features[4] != "*" {
			t.Conjugation = features[4]
		}
		if len(features) > 6 && features[6] != "*" {
			t.BaseForm = features[6]
		}
		if len(features) > 7 && features[7] != "*" {
			t.Reading = features[7]
		}
		result = append(result, t)
	}
	return result
}
