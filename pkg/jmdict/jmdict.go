// Package jmdict loads jmdict-simplified dictionaries and confirms the
// compound readings listed in the table notes.
package jmdict

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Entry matches the structure of jmdict-simplified entries.
type Entry struct {
	ID    string    `json:"id"`
	Kanji []Element `json:"kanji"`
	Kana  []Element `json:"kana"`
	Sense []Sense   `json:"sense"`
}

// Element is a written form (kanji or kana) of an entry.
type Element struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
	// AppliesToKanji restricts a kana element to some kanji forms; "*"
	// means all of them.
	AppliesToKanji []string `json:"appliesToKanji"`
}

type Sense struct {
	PartOfSpeech []string `json:"partOfSpeech"`
	Gloss        []Gloss  `json:"gloss"`
}

type Gloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// Load reads a dictionary file, either the release form { "words": [...] }
// or a bare array of entries.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a dictionary from r; see Load.
func Decode(r io.ReadSeeker) ([]Entry, error) {
	var wrapper struct {
		Words []Entry `json:"words"`
	}
	if err := json.NewDecoder(r).Decode(&wrapper); err == nil && len(wrapper.Words) > 0 {
		return wrapper.Words, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}
