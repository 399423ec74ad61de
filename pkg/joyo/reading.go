package joyo

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/joyodb/pkg/kana"
	"go.uber.org/zap"
)

// Kind classifies a reading.
type Kind string

const (
	On  Kind = kana.On
	Kun Kind = kana.Kun
	// Irregular is reserved for jukujikun and other exceptional readings;
	// the table parser never assigns it.
	Irregular Kind = "Irregular"
)

const (
	okuriganaDot  = "."
	uncommonMark  = "　"
	listSeparator = "，"
	smallTsu      = "っ"
)

var (
	quoteMarkers   = regexp.MustCompile(`「|」|などと使う。`)
	glossedExample = regexp.MustCompile(`^(.*)（(.*)）$`)
)

// classicalVariant describes an example that only fits its reading under
// classical grammar and is split off under a fixed reading.
type classicalVariant struct {
	reading     string
	variationOf string
}

var classicalExamples = map[string]classicalVariant{
	"恐らく": {reading: "おそらく", variationOf: "おそ.れる"},
}

// Reading is a kanji reading with its examples and notes.
type Reading struct {
	// Reading is the kana form. Kun readings carry a dot before their
	// okurigana once an example reveals it.
	Reading string
	Kind    Kind
	// Uncommon marks readings indented in the table (rare or place-name use).
	Uncommon bool
	// VariationOf names another reading of the same kanji this one is a
	// variant of.
	VariationOf string
	Examples    []*Example
	// AlternateOrthographies lists other kanji spelling the same word (⇔).
	AlternateOrthographies []string
	// Notes holds the reading-scoped notes (参考) text.
	Notes string

	kanji *Kanji
}

// newReading builds a reading owned by k without adding it to k.Readings.
// A leading ideographic space marks an uncommon reading. Readings starting
// with katakana are On readings, everything else is Kun.
func newReading(k *Kanji, reading, variationOf string) *Reading {
	r := &Reading{kanji: k, VariationOf: variationOf}
	if strings.HasPrefix(reading, uncommonMark) {
		r.Reading = strings.TrimPrefix(reading, uncommonMark)
		r.Uncommon = true
	} else {
		r.Reading = reading
	}

	first, _ := utf8.DecodeRuneInString(r.Reading)
	if kana.IsKatakana(first) {
		r.Kind = On
	} else {
		r.Kind = Kun
	}
	return r
}

// Kanji returns the entry this reading belongs to.
func (r *Reading) Kanji() *Kanji { return r.kanji }

// Clean returns the reading without the okurigana delimiter.
func (r *Reading) Clean() string {
	return strings.ReplaceAll(r.Reading, okuriganaDot, "")
}

// Okurigana returns the part after the delimiter, or "" if none is known.
func (r *Reading) Okurigana() string {
	_, after, found := strings.Cut(r.Reading, okuriganaDot)
	if !found {
		return ""
	}
	return after
}

// AddExamples parses a raw examples column and attaches its items.
//
// A glossed example such as 三日（みっか） declares an implicit variant
// reading; it becomes a new reading of the same kanji, placed before the
// last reading so that the last one keeps receiving table data. For Kun
// readings every attached example is then used to delimit okurigana.
func (r *Reading) AddExamples(raw string) {
	if strings.Contains(raw, "「") {
		raw = quoteMarkers.ReplaceAllString(raw, "")
	}
	raw = r.kanji.tables.Popularize(raw)

	var plain []*Example
	for _, item := range strings.Split(raw, listSeparator) {
		if item == "" {
			continue
		}

		m := glossedExample.FindStringSubmatch(item)
		if m == nil {
			plain = append(plain, NewExample(item))
			continue
		}

		text, gloss := m[1], m[2]
		// 三日（みっか） is filed as a variant みっ of the reading み.
		if i := strings.Index(gloss, smallTsu); i >= 0 {
			gloss = gloss[:i+len(smallTsu)]
		}

		r.kanji.logger.Info("adding reading variation for example",
			zap.String("kanji", r.kanji.Kanji),
			zap.String("reading", r.Reading),
			zap.String("variation", gloss),
			zap.String("example", text))

		v := newReading(r.kanji, gloss, r.Reading)
		v.AddExamples(text)
		r.kanji.insertBeforeLast(v)
	}

	r.attach(plain...)
}

// attach appends examples and recomputes okurigana.
func (r *Reading) attach(examples ...*Example) {
	r.Examples = append(r.Examples, examples...)
	if r.Kind == Kun {
		r.delimitOkurigana()
	}
}

// delimitOkurigana adopts the first split an example reveals. An example
// whose split disagrees with the adopted one does not belong to this
// reading: it is moved to a new variant reading.
func (r *Reading) delimitOkurigana() {
	clean := r.Clean()
	for _, ex := range slices.Clone(r.Examples) {
		delimited := DelimitOkurigana(r.kanji.Kanji, clean, ex.Example)
		if !strings.Contains(delimited, okuriganaDot) {
			continue
		}
		if r.Reading == clean {
			r.Reading = delimited
			continue
		}
		if r.Reading == delimited {
			continue
		}

		r.detach(ex)

		root, variationOf := clean, ""
		if c, ok := classicalExamples[ex.Example]; ok {
			root, variationOf = c.reading, c.variationOf
		}

		r.kanji.logger.Info("splitting example with conflicting okurigana",
			zap.String("kanji", r.kanji.Kanji),
			zap.String("reading", r.Reading),
			zap.String("computed", delimited),
			zap.String("example", ex.Example))

		v := newReading(r.kanji, root, variationOf)
		v.attach(ex)
		r.kanji.insertBeforeLast(v)
	}
}

func (r *Reading) detach(ex *Example) {
	r.Examples = slices.DeleteFunc(r.Examples, func(e *Example) bool { return e == ex })
}

// Romaji returns the reading in romaji: upper case for On readings, lower
// case for Kun, title case for Irregular. The uncommon mark is not
// reflected.
func (r *Reading) Romaji() string {
	return kana.RomajiFor(string(r.Kind), r.Reading)
}

// ToHiragana returns the reading in hiragana. Only On readings change.
func (r *Reading) ToHiragana() string {
	if r.Kind == On {
		return kana.ToHiragana(r.Reading)
	}
	return r.Reading
}

func (r *Reading) String() string {
	s := r.Romaji()
	if r.Uncommon {
		s += " (特)"
	}
	if len(r.Examples) > 0 {
		items := make([]string, len(r.Examples))
		for i, e := range r.Examples {
			items[i] = e.Example
		}
		s += fmt.Sprintf(", examples: [%s]", strings.Join(items, ","))
	}
	return s
}
