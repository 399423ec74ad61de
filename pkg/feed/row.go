// Package feed reads the Jōyō table in row form and replays each entry's
// rows onto a joyo.Kanji.
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/japaniel/joyodb/pkg/joyo"
)

const columns = 5

// Row is one line of the table. Empty cells are empty strings; the reading
// cell keeps its leading ideographic space, which marks uncommon readings.
type Row struct {
	Line     int
	Kanji    string
	OldKanji string
	Reading  string
	Examples string
	Note     string
}

func (r Row) empty() bool {
	return r.Kanji == "" && r.OldKanji == "" && r.Reading == "" && r.Examples == "" && r.Note == ""
}

// newRow builds a row from up to five cells. Cells are NFC-normalized so
// compatibility ideographs from the extraction become unified ones.
func newRow(line int, cells []string) Row {
	var c [columns]string
	for i := 0; i < len(cells) && i < columns; i++ {
		c[i] = norm.NFC.String(strings.TrimRight(cells[i], " \t\r\n"))
	}
	return Row{
		Line:     line,
		Kanji:    strings.TrimSpace(c[0]),
		OldKanji: strings.TrimSpace(c[1]),
		Reading:  c[2],
		Examples: strings.TrimSpace(c[3]),
		Note:     strings.TrimSpace(c[4]),
	}
}

// ReadTSV reads rows of "kanji, old kanji, reading, examples, note" separated
// by tabs. Lines starting with # are comments; trailing empty cells may be
// omitted.
func ReadTSV(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		if len(cells) > columns {
			return nil, &RowError{Line: lineNum, Err: fmt.Errorf("expected at most %d columns, got %d", columns, len(cells))}
		}
		row := newRow(lineNum, cells)
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadFile reads a table from path, as HTML when the extension says so and
// as TSV otherwise.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ReadHTML(f)
	default:
		return ReadTSV(f)
	}
}

// ErrNoReading is returned for examples or reading notes that come before
// any reading of their entry.
var ErrNoReading = joyo.ErrNoReading

// ErrOrphanRow is returned for rows before the first kanji.
var ErrOrphanRow = errors.New("row does not belong to any kanji")

// RowError locates an error in the source table.
type RowError struct {
	Line  int
	Kanji string
	Err   error
}

func (e *RowError) Error() string {
	if e.Kanji != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.Kanji, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
