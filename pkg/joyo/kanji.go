// Package joyo models the entries of the Jōyō kanji table and parses the
// irregular text of its columns into structured readings, examples and notes.
//
// A Kanji is built by replaying the rows of its table entry in order:
// AddReading, AddExamples and AppendToNotes mutate it incrementally. The last
// element of Kanji.Readings is always the reading that receives table data;
// readings synthesized while parsing are inserted before it.
//
// A Kanji and its readings are not safe for concurrent use.
package joyo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// multiOldForm lists the kanji with more than one historical form.
var multiOldForm = map[string]bool{
	"弁": true,
}

// Kanji is one entry of the table.
type Kanji struct {
	// Kanji is the character as commonly encoded. When it differs from the
	// document's code point, StandardCharacter keeps the latter.
	Kanji             string
	StandardCharacter string
	// StandardVariant and AcceptedVariant are variation sequences for
	// characters whose glyph variants the document lists.
	StandardVariant string
	AcceptedVariant string
	// OldKanji holds the historical form; only 弁 has more than one.
	OldKanji []string
	Readings []*Reading
	// CompoundReadings maps an orthography to its special reading.
	CompoundReadings map[string]string
	// PlacenameReadings maps a prefecture name part to its reading.
	PlacenameReadings map[string]string
	// Notes holds the kanji-scoped notes (参考) text.
	Notes string
	// JoyoDocumentation references the section of the document describing
	// minor glyph differences.
	JoyoDocumentation string
	// PendingNote is set while a multi-line note waits for its next line.
	PendingNote bool

	tables *Tables
	logger *zap.Logger
}

// Option configures a Kanji.
type Option func(*Kanji)

// WithTables sets the character tables; DefaultTables is used otherwise.
func WithTables(t *Tables) Option {
	return func(k *Kanji) {
		if t != nil {
			k.tables = t
		}
	}
}

// WithLogger sets the logger used to report synthesized readings.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kanji) {
		if l != nil {
			k.logger = l
		}
	}
}

// NewKanji creates the entry for the document character char.
func NewKanji(char string, opts ...Option) *Kanji {
	k := &Kanji{
		CompoundReadings:  make(map[string]string),
		PlacenameReadings: make(map[string]string),
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.tables == nil {
		k.tables = DefaultTables()
	}

	if popular, ok := k.tables.PopularAlternatives[char]; ok {
		k.Kanji = popular
		k.StandardCharacter = char
	} else {
		k.Kanji = char
	}
	if v, ok := k.tables.Variants[char]; ok {
		k.StandardVariant = v.Standard
		k.AcceptedVariant = v.Accepted
	}
	return k
}

// HasVariants reports whether the document lists glyph variants.
func (k *Kanji) HasVariants() bool {
	return k.AcceptedVariant != ""
}

// VariantImageName returns the asset name of the reference image for the
// standard or the accepted glyph, e.g. "8b0e-accepted.png". It is empty for
// characters without variants.
func (k *Kanji) VariantImageName(accepted bool) string {
	if !k.HasVariants() {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(k.Kanji)
	kind := "standard"
	if accepted {
		kind = "accepted"
	}
	return fmt.Sprintf("%x-%s.png", r, kind)
}

// AddOldKanji records a historical form.
func (k *Kanji) AddOldKanji(form string) error {
	if len(k.OldKanji) > 0 && !multiOldForm[k.Kanji] {
		return fmt.Errorf("%w: %s already has %s, got %s",
			ErrUnexpectedOldKanji, k.Kanji, strings.Join(k.OldKanji, ","), form)
	}
	k.OldKanji = append(k.OldKanji, form)
	return nil
}

// AddReading appends a reading; it becomes the one receiving examples.
func (k *Kanji) AddReading(reading string) *Reading {
	r := newReading(k, reading, "")
	k.Readings = append(k.Readings, r)
	return r
}

// LastReading returns the reading currently receiving table data.
// It panics if no reading was added.
func (k *Kanji) LastReading() *Reading {
	return k.Readings[len(k.Readings)-1]
}

// AddExamples adds raw examples to the last reading.
func (k *Kanji) AddExamples(raw string) {
	k.LastReading().AddExamples(raw)
}

// insertBeforeLast places r just before the last reading, keeping the last
// one as the reading that receives table data.
func (k *Kanji) insertBeforeLast(r *Reading) {
	n := len(k.Readings)
	if n == 0 {
		k.Readings = append(k.Readings, r)
		return
	}
	last := k.Readings[n-1]
	k.Readings = append(k.Readings[:n-1], r, last)
}

// previousReading returns the second-to-last reading, if any.
func (k *Kanji) previousReading() (*Reading, bool) {
	if len(k.Readings) < 2 {
		return nil, false
	}
	return k.Readings[len(k.Readings)-2], true
}

func (k *Kanji) addPlacenameReading(orthography, gloss string) {
	k.PlacenameReadings[orthography] = gloss
}

func (k *Kanji) addCompoundReading(orthography, gloss string) {
	k.CompoundReadings[orthography] = gloss
}

func (k *Kanji) String() string {
	s := k.Kanji
	if len(k.OldKanji) > 0 {
		s += fmt.Sprintf(" (%s)", strings.Join(k.OldKanji, ","))
	}
	readings := make([]string, len(k.Readings))
	for i, r := range k.Readings {
		readings[i] = r.Reading
	}
	return s + fmt.Sprintf(" [%s]", strings.Join(readings, ","))
}
