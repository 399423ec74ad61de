package jmdict

import (
	"fmt"
	"sort"

	"github.com/japaniel/joyodb/pkg/joyo"
)

// Unconfirmed is a special reading from the notes that the dictionary does
// not list.
type Unconfirmed struct {
	Kanji       string
	Orthography string
	Reading     string
	Placename   bool
}

func (u Unconfirmed) String() string {
	kind := "compound"
	if u.Placename {
		kind = "placename"
	}
	return fmt.Sprintf("%s %s %s（%s） not in dictionary", u.Kanji, kind, u.Orthography, u.Reading)
}

// CheckCompounds lists the compound and place-name readings of k whose
// (orthography, reading) pair no entry confirms, sorted by orthography.
func (ix *Index) CheckCompounds(k *joyo.Kanji) []Unconfirmed {
	var out []Unconfirmed
	check := func(readings map[string]string, placename bool) {
		for orthography, reading := range readings {
			if !ix.Confirms(orthography, reading) {
				out = append(out, Unconfirmed{
					Kanji:       k.Kanji,
					Orthography: orthography,
					Reading:     reading,
					Placename:   placename,
				})
			}
		}
	}
	check(k.CompoundReadings, false)
	check(k.PlacenameReadings, true)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Placename != out[j].Placename {
			return !out[i].Placename
		}
		return out[i].Orthography < out[j].Orthography
	})
	return out
}
