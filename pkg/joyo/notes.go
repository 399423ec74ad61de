package joyo

import (
	"regexp"
	"strings"
)

const sentenceEnd = "。"

// Kanji-scoped note patterns.
var (
	// ［叱］＝許容字体，... continues on the next line.
	acceptedVariantNote = regexp.MustCompile(`^［\p{Han}］＝許容字体，`)
	// ＊［（付）第2の3参照］
	appendixNote = regexp.MustCompile(`^＊［(（付）.*)参照］$`)
	// 茨城（いばらき）県，お母さん（おかあさん）
	compoundNote = regexp.MustCompile(`^(お?)([\p{Han}・\p{Hiragana}]+)（(\p{Hiragana}+)）(.*)`)
	compoundPart = regexp.MustCompile(`^(お?)([\p{Han}・\p{Hiragana}]+)（(\p{Hiragana}+)）(.*)$`)
)

// administrativeSuffixes mark a compound note as a prefecture name.
var administrativeSuffixes = map[string]bool{
	"都": true,
	"道": true,
	"府": true,
	"県": true,
}

// Reading-scoped note patterns.
var (
	alternateOrthographyNote = regexp.MustCompile(`^⇔ *(.+)`)
	alternateOrthographyList = regexp.MustCompile(`^[\p{Han}\p{Hiragana}，]+`)
	usageOpener              = regexp.MustCompile(`^(「.*」，?)+(など)?は，`)
	usageCloser              = regexp.MustCompile(`^(「(.*)」，?)+などと使う。$`)
)

// terminalNotes are single-line reading notes that are stored verbatim.
var terminalNotes = []*regexp.Regexp{
	// 「堆積」とも書く。
	regexp.MustCompile(`^(「[\p{Han}\p{Hiragana}\p{Katakana}]+」[,，]?)+とも(書く)?。`),
	// 「猟」の字音の転用。
	regexp.MustCompile(`^「(\p{Han})」.*転用。`),
	// 「山頂」の意。
	regexp.MustCompile(`^「(.*)」.*の意。`),
	// ...」になる。
	regexp.MustCompile(`」になる。$`),
}

// noteHandler processes a known irregular line. When handled is false the
// general grammar still runs on the line.
type noteHandler func(r *Reading, line string) (handled bool, err error)

// verbatimNotes are the note fragments of the document that the general
// grammar cannot describe. They are consulted before it.
var verbatimNotes = map[string]noteHandler{
	"多く文語の「亡き」で使う。": func(r *Reading, line string) (bool, error) {
		r.AddExamples("亡き")
		markLiterary(r, "亡き")
		r.Notes = line
		return true, nil
	},

	"「三位一体」，「従三位」は，「サン": openNote,
	"ミイッタイ」，「ジュサンミ」。": func(r *Reading, line string) (bool, error) {
		if err := r.closePendingNote(line); err != nil {
			return true, err
		}
		declareVariant(r.kanji, "ミ", "イ", "三位一体，従三位")
		return true, nil
	},

	"「春雨」，「小雨」，「霧雨」などは，": openNote,
	"「はるさめ」，「こさめ」，「きりさめ」。": func(r *Reading, line string) (bool, error) {
		if err := r.closePendingNote(line); err != nil {
			return true, err
		}
		declareVariant(r.kanji, "さめ", "あめ", "春雨，小雨，霧雨")
		return true, nil
	},

	"「憂き」は，文語の連体形。": func(r *Reading, line string) (bool, error) {
		if !markLiterary(r, "憂き") {
			return true, readingNoteError(r, line, ErrUnrecognizedNoteFormat)
		}
		return false, nil
	},
}

func openNote(r *Reading, line string) (bool, error) {
	r.Notes = line
	r.kanji.PendingNote = true
	return true, nil
}

// markLiterary flags the examples containing word and reports whether any
// did.
func markLiterary(r *Reading, word string) bool {
	found := false
	for _, e := range r.Examples {
		if strings.Contains(e.Example, word) {
			e.Literary = true
			found = true
		}
	}
	return found
}

// declareVariant appends a reading the notes declare as a variant of
// another one, with its examples.
func declareVariant(k *Kanji, reading, variationOf, examples string) {
	v := k.AddReading(reading)
	v.VariationOf = variationOf
	v.AddExamples(examples)
}

// AppendToNotes adds a line of the notes (参考) column to the entry.
//
// Kanji-scoped lines are a glyph-variant remark, a reference to the
// document's appendix, or a list of compound and prefecture-name readings
// such as 茨城（いばらき）県. Any other line belongs to the last reading.
func (k *Kanji) AppendToNotes(line string) error {
	line = strings.TrimSpace(line)

	if acceptedVariantNote.MatchString(line) {
		// Already encoded by the variant fields; only the text is kept.
		k.Notes = line
		k.PendingNote = true
		return nil
	}

	if m := appendixNote.FindStringSubmatch(line); m != nil {
		if k.PendingNote {
			k.Notes += m[1]
			k.PendingNote = false
		} else {
			k.Notes = m[1]
		}
		k.JoyoDocumentation = m[1]
		return nil
	}

	if compoundNote.MatchString(line) {
		return k.addCompoundNote(line)
	}

	if len(k.Readings) == 0 {
		return kanjiNoteError(k, line, ErrNoReading)
	}
	return k.LastReading().AppendToNotes(line)
}

func (k *Kanji) addCompoundNote(line string) error {
	k.Notes = line
	for _, part := range strings.Split(line, listSeparator) {
		m := compoundPart.FindStringSubmatch(part)
		if m == nil {
			return kanjiNoteError(k, line, ErrUnrecognizedNoteFormat)
		}
		prefix, gloss, suffix := m[1], m[3], m[4]
		for _, orthography := range strings.Split(m[2], "・") {
			if administrativeSuffixes[suffix] {
				k.addPlacenameReading(orthography, gloss)
			} else {
				k.addCompoundReading(prefix+orthography+suffix, prefix+gloss+suffix)
			}
		}
	}
	return nil
}

// AppendToNotes adds a reading-scoped line of the notes column.
//
// Lines are matched against the known irregular fragments first, then
// against the note grammar. A line no rule recognizes is an error wrapping
// ErrUnrecognizedNoteFormat; the grammar never guesses.
func (r *Reading) AppendToNotes(line string) error {
	line = strings.TrimSpace(line)

	if handle, ok := verbatimNotes[line]; ok {
		handled, err := handle(r, line)
		if err != nil || handled {
			return err
		}
	}

	if m := alternateOrthographyNote.FindStringSubmatch(line); m != nil {
		if !alternateOrthographyList.MatchString(m[1]) {
			return readingNoteError(r, line, ErrUnrecognizedNoteFormat)
		}
		r.Notes = line
		r.AlternateOrthographies = strings.Split(m[1], listSeparator)
		return nil
	}

	if usageOpener.MatchString(line) {
		r.Notes = line
		if !strings.HasSuffix(line, sentenceEnd) {
			r.kanji.PendingNote = true
		}
		return nil
	}

	if usageCloser.MatchString(line) {
		r.Notes = line
		return nil
	}

	if r.kanji.PendingNote && strings.HasSuffix(line, sentenceEnd) {
		return r.closePendingNote(line)
	}

	for _, re := range terminalNotes {
		if re.MatchString(line) {
			r.Notes = line
			return nil
		}
	}

	return readingNoteError(r, line, ErrUnrecognizedNoteFormat)
}

// closePendingNote appends line to the open note, which is either this
// reading's or the previous reading's.
func (r *Reading) closePendingNote(line string) error {
	prev, hasPrev := r.kanji.previousReading()
	switch {
	case r.Notes != "":
		r.Notes += line
	case hasPrev && prev != r && prev.Notes != "":
		prev.Notes += line
	default:
		return readingNoteError(r, line, ErrBrokenContinuation)
	}
	r.kanji.PendingNote = false
	return nil
}
