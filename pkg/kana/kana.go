// Package kana adapts github.com/gojp/kana to table readings, which may
// carry an okurigana dot and are cased by reading kind.
package kana

import (
	"strings"
	"unicode/utf8"

	gojp "github.com/gojp/kana"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reading kinds understood by RomajiFor.
const (
	On  = "On"
	Kun = "Kun"
)

const (
	okuriganaDot = "."
	scriptOffset = 0x60
)

// ToHiragana converts Katakana to Hiragana. Other runes pass through.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - scriptOffset
		}
	}
	return string(runes)
}

// IsKatakana reports whether r is a katakana character.
func IsKatakana(r rune) bool {
	return gojp.IsKatakana(string(r))
}

// ToRomaji renders a kana reading as romaji. The okurigana dot is kept, and
// a sokuon before it doubles the first letter after it (みっ.つ is mit.tsu).
func ToRomaji(s string) string {
	parts := strings.Split(s, okuriganaDot)
	out := make([]string, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimRight(parts[i], "っッ")
		romaji := gojp.KanaToRomaji(part)
		if part != parts[i] && i+1 < len(out) && out[i+1] != "" {
			next, _ := utf8.DecodeRuneInString(out[i+1])
			romaji += string(next)
		}
		out[i] = romaji
	}
	return strings.Join(out, okuriganaDot)
}

// RomajiFor renders reading in the case of its kind: upper for On, lower
// for Kun and title case for anything else.
func RomajiFor(kind, reading string) string {
	romaji := ToRomaji(reading)
	switch kind {
	case On:
		return strings.ToUpper(romaji)
	case Kun:
		return romaji
	default:
		return cases.Title(language.Und).String(romaji)
	}
}
