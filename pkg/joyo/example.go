package joyo

import "strings"

// PartOfSpeech is the marker an example may carry in the table.
type PartOfSpeech string

const (
	Adverb      PartOfSpeech = "Adverb"
	Conjunction PartOfSpeech = "Conjunction"
	Suffix      PartOfSpeech = "Suffix"
)

const (
	adverbMarker      = "〔副〕"
	conjunctionMarker = "〔接〕"
	suffixMarker      = "……"
)

// Example is one item of the examples (例) column.
type Example struct {
	// Example is the cleaned text, without part-of-speech markers.
	Example string
	// POS is empty unless the table marked the example.
	POS PartOfSpeech
	// Literary is set for examples the notes mark as 文語.
	Literary bool
}

// NewExample strips part-of-speech markers from raw and records them.
func NewExample(raw string) *Example {
	switch {
	case strings.Contains(raw, adverbMarker):
		return &Example{Example: strings.ReplaceAll(raw, adverbMarker, ""), POS: Adverb}
	case strings.Contains(raw, conjunctionMarker):
		return &Example{Example: strings.ReplaceAll(raw, conjunctionMarker, ""), POS: Conjunction}
	case strings.HasPrefix(raw, suffixMarker):
		return &Example{Example: strings.ReplaceAll(raw, suffixMarker, ""), POS: Suffix}
	}
	return &Example{Example: raw}
}

func (e *Example) String() string { return e.Example }
