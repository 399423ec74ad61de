package joyo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// VariantPair holds the Unicode variation sequences selecting the standard
// and the accepted glyph of a character.
type VariantPair struct {
	Standard string
	Accepted string
}

// Tables are the character lookup tables consulted when building entries.
// They are read-only once built and may be shared between goroutines.
type Tables struct {
	// PopularAlternatives maps a document code point to the popular-use
	// character that current practice favours.
	PopularAlternatives map[string]string
	// Variants lists characters whose glyph variation the document shows
	// between ［］.
	Variants map[string]VariantPair
}

// DefaultTables returns the tables for the 2010 Jōyō list.
func DefaultTables() *Tables {
	return &Tables{
		PopularAlternatives: map[string]string{
			"\U00020B9F": "叱", // 𠮟
			"塡":          "填",
			"剝":          "剥",
			"頰":          "頬",
		},
		Variants: map[string]VariantPair{
			"遡": {Standard: "遡\U000E0100", Accepted: "遡\U000E0101"},
			"遜": {Standard: "遜\U000E0100", Accepted: "遜\U000E0101"},
			"謎": {Standard: "謎\U000E0100", Accepted: "謎\U000E0101"},
			"餌": {Standard: "餌\U000E0100", Accepted: "餌\U000E0101"},
			"餅": {Standard: "餅\U000E0100", Accepted: "餅\U000E0101"},
		},
	}
}

// Popularize replaces every code point that has a popular-use alternative.
func (t *Tables) Popularize(s string) string {
	if len(t.PopularAlternatives) == 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if alt, ok := t.PopularAlternatives[string(r)]; ok {
			b.WriteString(alt)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadTables builds tables from TSV files. An empty path keeps the default
// for that table.
func LoadTables(popularPath, variantsPath string) (*Tables, error) {
	t := DefaultTables()
	if popularPath != "" {
		f, err := os.Open(popularPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if t.PopularAlternatives, err = ReadPopularAlternatives(f); err != nil {
			return nil, fmt.Errorf("%s: %w", popularPath, err)
		}
	}
	if variantsPath != "" {
		f, err := os.Open(variantsPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if t.Variants, err = ReadVariants(f); err != nil {
			return nil, fmt.Errorf("%s: %w", variantsPath, err)
		}
	}
	return t, nil
}

// ReadPopularAlternatives reads "document<TAB>popular" lines.
func ReadPopularAlternatives(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	err := scanTSV(r, 2, func(fields []string) {
		out[fields[0]] = fields[1]
	})
	return out, err
}

// ReadVariants reads "character<TAB>standard sequence<TAB>accepted sequence"
// lines.
func ReadVariants(r io.Reader) (map[string]VariantPair, error) {
	out := make(map[string]VariantPair)
	err := scanTSV(r, 3, func(fields []string) {
		out[fields[0]] = VariantPair{Standard: fields[1], Accepted: fields[2]}
	})
	return out, err
}

func scanTSV(r io.Reader, columns int, fn func([]string)) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != columns {
			return fmt.Errorf("line %d: expected %d columns, got %d", lineNum, columns, len(fields))
		}
		fn(fields)
	}
	return scanner.Err()
}
