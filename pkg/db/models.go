package db

import "time"

// Kanji is a stored table entry.
type Kanji struct {
	ID                int64
	Kanji             string
	StandardCharacter string
	StandardVariant   string
	AcceptedVariant   string
	Notes             string
	JoyoDocumentation string
	AddedAt           time.Time

	OldKanji          []string
	Readings          []Reading
	CompoundReadings  map[string]string
	PlacenameReadings map[string]string
}

// Reading is a stored reading, in entry order.
type Reading struct {
	ID                     int64
	Reading                string
	Kind                   string
	Uncommon               bool
	VariationOf            string
	Notes                  string
	AlternateOrthographies []string
	Examples               []Example
}

// Example is a stored example word of a reading.
type Example struct {
	Example  string
	POS      string
	Literary bool
}
