package joyo

import (
	"errors"
	"fmt"
)

// Sentinel errors for input that violates what the table grammar expects.
var (
	// ErrUnrecognizedNoteFormat is returned when no note rule matches a line.
	ErrUnrecognizedNoteFormat = errors.New("unrecognized note format")
	// ErrBrokenContinuation is returned when a pending multi-line note has no
	// open reading note to attach to.
	ErrBrokenContinuation = errors.New("broken note continuation")
	// ErrUnexpectedOldKanji is returned when a second old form is added to a
	// kanji that has only one historical form.
	ErrUnexpectedOldKanji = errors.New("unexpected additional old kanji")
	// ErrNoReading is returned for a reading-scoped note on a kanji that has
	// no reading yet.
	ErrNoReading = errors.New("no reading to attach to")
)

// NoteError carries the offending notes-column line.
type NoteError struct {
	Kanji   string
	Reading string
	Line    string
	Err     error
}

func (e *NoteError) Error() string {
	if e.Reading != "" {
		return fmt.Sprintf("%s [%s]: %v: %q", e.Kanji, e.Reading, e.Err, e.Line)
	}
	return fmt.Sprintf("%s: %v: %q", e.Kanji, e.Err, e.Line)
}

func (e *NoteError) Unwrap() error { return e.Err }

// IsGrammarError reports whether err is one of the two fatal note grammar
// failures.
func IsGrammarError(err error) bool {
	return errors.Is(err, ErrUnrecognizedNoteFormat) || errors.Is(err, ErrBrokenContinuation)
}

func kanjiNoteError(k *Kanji, line string, err error) error {
	return &NoteError{Kanji: k.Kanji, Line: line, Err: err}
}

func readingNoteError(r *Reading, line string, err error) error {
	return &NoteError{Kanji: r.kanji.Kanji, Reading: r.Reading, Line: line, Err: err}
}
