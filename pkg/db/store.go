package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/japaniel/joyodb/pkg/joyo"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// SaveKanji upserts an entry and returns its id. Child rows (old forms,
// readings with their examples, compound and place-name readings) are
// replaced, so saving the same entry twice leaves one copy.
func SaveKanji(db DBExecutor, k *joyo.Kanji) (int64, error) {
	char := strings.TrimSpace(k.Kanji)
	if char == "" {
		return 0, fmt.Errorf("kanji must be non-empty")
	}

	var id int64
	err := db.QueryRow(`INSERT INTO kanji (kanji, standard_character, standard_variant, accepted_variant, notes, joyo_documentation)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(kanji) DO UPDATE SET
			    standard_character = excluded.standard_character,
			    standard_variant = excluded.standard_variant,
			    accepted_variant = excluded.accepted_variant,
			    notes = excluded.notes,
			    joyo_documentation = excluded.joyo_documentation
			  RETURNING id`,
		char, nullableString(k.StandardCharacter), nullableString(k.StandardVariant),
		nullableString(k.AcceptedVariant), nullableString(k.Notes), nullableString(k.JoyoDocumentation),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert kanji: %w", err)
	}

	if err := deleteChildren(db, id); err != nil {
		return 0, fmt.Errorf("clear %s: %w", char, err)
	}

	for i, form := range k.OldKanji {
		if _, err := db.Exec(`INSERT INTO old_kanji (kanji_id, position, form) VALUES (?, ?, ?)`, id, i, form); err != nil {
			return 0, fmt.Errorf("insert old kanji: %w", err)
		}
	}
	for i, r := range k.Readings {
		if err := insertReading(db, id, i, r); err != nil {
			return 0, fmt.Errorf("insert reading %s: %w", r.Reading, err)
		}
	}
	for orthography, reading := range k.CompoundReadings {
		if _, err := db.Exec(`INSERT INTO compound_readings (kanji_id, orthography, reading) VALUES (?, ?, ?)`, id, orthography, reading); err != nil {
			return 0, fmt.Errorf("insert compound reading: %w", err)
		}
	}
	for orthography, reading := range k.PlacenameReadings {
		if _, err := db.Exec(`INSERT INTO placename_readings (kanji_id, orthography, reading) VALUES (?, ?, ?)`, id, orthography, reading); err != nil {
			return 0, fmt.Errorf("insert placename reading: %w", err)
		}
	}
	return id, nil
}

func deleteChildren(db DBExecutor, kanjiID int64) error {
	stmts := []string{
		`DELETE FROM examples WHERE reading_id IN (SELECT id FROM readings WHERE kanji_id = ?)`,
		`DELETE FROM alternate_orthographies WHERE reading_id IN (SELECT id FROM readings WHERE kanji_id = ?)`,
		`DELETE FROM readings WHERE kanji_id = ?`,
		`DELETE FROM old_kanji WHERE kanji_id = ?`,
		`DELETE FROM compound_readings WHERE kanji_id = ?`,
		`DELETE FROM placename_readings WHERE kanji_id = ?`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s, kanjiID); err != nil {
			return err
		}
	}
	return nil
}

func insertReading(db DBExecutor, kanjiID int64, position int, r *joyo.Reading) error {
	res, err := db.Exec(`INSERT INTO readings (kanji_id, position, reading, kind, uncommon, variation_of, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		kanjiID, position, r.Reading, string(r.Kind), r.Uncommon, nullableString(r.VariationOf), nullableString(r.Notes))
	if err != nil {
		return err
	}
	readingID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, o := range r.AlternateOrthographies {
		if _, err := db.Exec(`INSERT INTO alternate_orthographies (reading_id, position, orthography) VALUES (?, ?, ?)`, readingID, i, o); err != nil {
			return err
		}
	}
	for i, e := range r.Examples {
		if _, err := db.Exec(`INSERT INTO examples (reading_id, position, example, pos, literary) VALUES (?, ?, ?, ?, ?)`,
			readingID, i, e.Example, nullableString(string(e.POS)), e.Literary); err != nil {
			return err
		}
	}
	return nil
}

// nullableString returns nil for "" else the value.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// GetKanji returns the full stored entry for char. It wraps sql.ErrNoRows
// when the entry does not exist.
func GetKanji(db DBExecutor, char string) (*Kanji, error) {
	var k Kanji
	var std, sv, av, notes, doc sql.NullString
	err := db.QueryRow(`SELECT id, kanji, standard_character, standard_variant, accepted_variant, notes, joyo_documentation, added_at
	FROM kanji WHERE kanji = ?`, char).Scan(&k.ID, &k.Kanji, &std, &sv, &av, &notes, &doc, &k.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get kanji %s: %w", char, err)
	}
	k.StandardCharacter = std.String
	k.StandardVariant = sv.String
	k.AcceptedVariant = av.String
	k.Notes = notes.String
	k.JoyoDocumentation = doc.String

	if k.OldKanji, err = queryStrings(db, `SELECT form FROM old_kanji WHERE kanji_id = ? ORDER BY position`, k.ID); err != nil {
		return nil, err
	}
	if k.Readings, err = getReadings(db, k.ID); err != nil {
		return nil, err
	}
	if k.CompoundReadings, err = queryPairs(db, `SELECT orthography, reading FROM compound_readings WHERE kanji_id = ?`, k.ID); err != nil {
		return nil, err
	}
	if k.PlacenameReadings, err = queryPairs(db, `SELECT orthography, reading FROM placename_readings WHERE kanji_id = ?`, k.ID); err != nil {
		return nil, err
	}
	return &k, nil
}

func getReadings(db DBExecutor, kanjiID int64) ([]Reading, error) {
	rows, err := db.Query(`SELECT id, reading, kind, uncommon, variation_of, notes FROM readings WHERE kanji_id = ? ORDER BY position`, kanjiID)
	if err != nil {
		return nil, err
	}
	var out []Reading
	for rows.Next() {
		var r Reading
		var variationOf, notes sql.NullString
		if err := rows.Scan(&r.ID, &r.Reading, &r.Kind, &r.Uncommon, &variationOf, &notes); err != nil {
			rows.Close()
			return nil, err
		}
		r.VariationOf = variationOf.String
		r.Notes = notes.String
		out = append(out, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Children are loaded after the cursor is closed: the pool may hold a
	// single connection.
	for i := range out {
		r := &out[i]
		if r.AlternateOrthographies, err = queryStrings(db, `SELECT orthography FROM alternate_orthographies WHERE reading_id = ? ORDER BY position`, r.ID); err != nil {
			return nil, err
		}
		if r.Examples, err = getExamples(db, r.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func getExamples(db DBExecutor, readingID int64) ([]Example, error) {
	rows, err := db.Query(`SELECT example, pos, literary FROM examples WHERE reading_id = ? ORDER BY position`, readingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Example
	for rows.Next() {
		var e Example
		var pos sql.NullString
		if err := rows.Scan(&e.Example, &pos, &e.Literary); err != nil {
			return nil, err
		}
		e.POS = pos.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func queryStrings(db DBExecutor, query string, args ...interface{}) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func queryPairs(db DBExecutor, query string, args ...interface{}) (map[string]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ListKanji returns the stored entries without their children, in insertion
// order.
func ListKanji(db DBExecutor) ([]Kanji, error) {
	rows, err := db.Query(`SELECT id, kanji, standard_character, notes, added_at FROM kanji ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Kanji
	for rows.Next() {
		var k Kanji
		var std, notes sql.NullString
		if err := rows.Scan(&k.ID, &k.Kanji, &std, &notes, &k.AddedAt); err != nil {
			return nil, err
		}
		k.StandardCharacter = std.String
		k.Notes = notes.String
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountReadings returns the number of stored readings per kind.
func CountReadings(db DBExecutor) (map[string]int, error) {
	rows, err := db.Query(`SELECT kind, COUNT(*) FROM readings GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}
