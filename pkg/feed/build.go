package feed

import (
	"github.com/japaniel/joyodb/pkg/joyo"
)

// Entry is the run of rows belonging to one kanji, the first row carrying
// the character.
type Entry struct {
	Kanji string
	Rows  []Row
}

// Line is the source line of the entry's first row.
func (e Entry) Line() int {
	if len(e.Rows) == 0 {
		return 0
	}
	return e.Rows[0].Line
}

// Group splits rows into entries. A row with a kanji cell starts a new
// entry; rows without one continue the current entry.
func Group(rows []Row) ([]Entry, error) {
	var entries []Entry
	for _, row := range rows {
		if row.Kanji != "" {
			entries = append(entries, Entry{Kanji: row.Kanji})
		}
		if len(entries) == 0 {
			return nil, &RowError{Line: row.Line, Err: ErrOrphanRow}
		}
		last := &entries[len(entries)-1]
		last.Rows = append(last.Rows, row)
	}
	return entries, nil
}

// Build replays an entry's rows onto a new Kanji. On each row the old kanji
// cell is handled first, then the reading, its examples and the note.
// Examples on a row without a reading continue the last reading. Errors are
// wrapped in a *RowError naming the offending line.
func Build(e Entry, opts ...joyo.Option) (*joyo.Kanji, error) {
	k := joyo.NewKanji(e.Kanji, opts...)
	for _, row := range e.Rows {
		if err := replay(k, row); err != nil {
			return nil, &RowError{Line: row.Line, Kanji: e.Kanji, Err: err}
		}
	}
	return k, nil
}

func replay(k *joyo.Kanji, row Row) error {
	if row.OldKanji != "" {
		if err := k.AddOldKanji(row.OldKanji); err != nil {
			return err
		}
	}
	if row.Reading != "" {
		k.AddReading(row.Reading)
	}
	if row.Examples != "" {
		if len(k.Readings) == 0 {
			return ErrNoReading
		}
		k.AddExamples(row.Examples)
	}
	if row.Note != "" {
		if err := k.AppendToNotes(row.Note); err != nil {
			return err
		}
	}
	return nil
}

// Parse groups rows and builds every entry in table order, stopping at the
// first error.
func Parse(rows []Row, opts ...joyo.Option) ([]*joyo.Kanji, error) {
	entries, err := Group(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*joyo.Kanji, 0, len(entries))
	for _, e := range entries {
		k, err := Build(e, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
