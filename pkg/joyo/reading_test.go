package joyo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readingNames(k *Kanji) []string {
	out := make([]string, len(k.Readings))
	for i, r := range k.Readings {
		out[i] = r.Reading
	}
	return out
}

func exampleTexts(r *Reading) []string {
	out := make([]string, len(r.Examples))
	for i, e := range r.Examples {
		out[i] = e.Example
	}
	return out
}

func TestNewReadingKind(t *testing.T) {
	k := NewKanji("成")

	r1 := k.AddReading("セイ")
	assert.Equal(t, On, r1.Kind)
	assert.False(t, r1.Uncommon)

	r2 := k.AddReading("なる")
	assert.Equal(t, Kun, r2.Kind)
	assert.False(t, r2.Uncommon)

	r3 := k.AddReading("　ジョウ")
	assert.Equal(t, On, r3.Kind)
	assert.True(t, r3.Uncommon)
	assert.Equal(t, "ジョウ", r3.Reading)
	assert.Same(t, k, r3.Kanji())
}

func TestAddExamplesPopularizes(t *testing.T) {
	k := NewKanji("\U00020B9F")
	r := k.AddReading("シツ")
	r.AddExamples("\U00020B9F責")
	require.Len(t, r.Examples, 1)
	assert.Equal(t, "叱責", r.Examples[0].Example)
}

func TestAddExamplesDelimitsOkurigana(t *testing.T) {
	tests := []struct {
		kanji, reading string
		examples       []string
		want           string
	}{
		{"成", "なる", []string{"成る"}, "な.る"},
		{"爽", "さわやか", []string{"爽やかだ"}, "さわ.やか"},
		{"嫌", "いや", []string{"嫌だ"}, "いや"},
		{"六", "むつ", []string{"六つ切り"}, "む.つ"},
		{"生", "おう", []string{"生い立ち"}, "お.う"},
		{"恥", "はじる", []string{"恥じる", "恥じ入る"}, "は.じる"},
		{"汁", "しる", []string{"汁", "汁粉"}, "しる"},
		{"甚", "はなはだ", []string{"甚だ"}, "はなは.だ"},
		{"慌", "あわただしい", []string{"慌ただしい", "慌ただしさ", "慌だだしげだ"}, "あわ.ただしい"},
	}
	for _, tt := range tests {
		t.Run(tt.kanji, func(t *testing.T) {
			k := NewKanji(tt.kanji)
			r := k.AddReading(tt.reading)
			for _, ex := range tt.examples {
				r.AddExamples(ex)
			}
			assert.Equal(t, tt.want, r.Reading)
			assert.Equal(t, tt.examples, exampleTexts(r))
			assert.Len(t, k.Readings, 1)
		})
	}
}

func TestAddExamplesSplitsList(t *testing.T) {
	k := NewKanji("副")
	r := k.AddReading("フク")
	r.AddExamples("副業，，〔副〕副次的，……副")
	require.Len(t, r.Examples, 3)
	assert.Equal(t, "副業", r.Examples[0].Example)
	assert.Equal(t, PartOfSpeech(""), r.Examples[0].POS)
	assert.Equal(t, "副次的", r.Examples[1].Example)
	assert.Equal(t, Adverb, r.Examples[1].POS)
	assert.Equal(t, "副", r.Examples[2].Example)
	assert.Equal(t, Suffix, r.Examples[2].POS)
}

func TestAddExamplesStripsQuotedUsage(t *testing.T) {
	k := NewKanji("彼")
	r := k.AddReading("かの")
	r.AddExamples("「彼の」，「彼女」などと使う。")
	assert.Equal(t, []string{"彼の", "彼女"}, exampleTexts(r))
}

func TestGlossPromotesVariantReading(t *testing.T) {
	k := NewKanji("三")
	k.AddReading("サン")
	mi := k.AddReading("み")
	mi.AddExamples("三日（みっか）")

	require.Len(t, k.Readings, 3)
	assert.Equal(t, []string{"サン", "みっ", "み"}, readingNames(k))

	variant := k.Readings[1]
	assert.Equal(t, "み", variant.VariationOf)
	assert.Equal(t, Kun, variant.Kind)
	assert.Equal(t, []string{"三日"}, exampleTexts(variant))

	assert.Same(t, mi, k.LastReading())
	assert.Empty(t, mi.Examples)
}

func TestGlossWithoutSokuonKeepsWholeReading(t *testing.T) {
	k := NewKanji("上")
	k.AddReading("うえ")
	k.AddExamples("上手（うわて），上")

	assert.Equal(t, []string{"うわて", "うえ"}, readingNames(k))
	assert.Equal(t, "うえ", k.Readings[0].VariationOf)
	assert.Equal(t, []string{"上"}, exampleTexts(k.LastReading()))
}

func TestConflictingOkuriganaMovesExample(t *testing.T) {
	k := NewKanji("恐")
	r := k.AddReading("おそれる")
	r.AddExamples("恐れる，恐る恐る")

	assert.Equal(t, "おそ.れる", r.Reading)
	assert.Equal(t, []string{"恐れる"}, exampleTexts(r))

	require.Len(t, k.Readings, 2)
	moved := k.Readings[0]
	assert.Equal(t, "おそれ.る", moved.Reading)
	assert.Empty(t, moved.VariationOf)
	assert.Equal(t, []string{"恐る恐る"}, exampleTexts(moved))
	assert.Same(t, r, k.LastReading())
}

func TestConflictingClassicalExample(t *testing.T) {
	k := NewKanji("恐")
	r := k.AddReading("おそれる")
	r.AddExamples("恐れる，恐らく")

	want := []string{"おそ.らく", "おそ.れる"}
	if diff := cmp.Diff(want, readingNames(k)); diff != "" {
		t.Fatalf("readings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "おそ.れる", k.Readings[0].VariationOf)
	assert.Equal(t, []string{"恐らく"}, exampleTexts(k.Readings[0]))
	assert.Equal(t, []string{"恐れる"}, exampleTexts(r))
}

func TestConflictKeepsExamplePartOfSpeech(t *testing.T) {
	k := NewKanji("恐")
	r := k.AddReading("おそれる")
	r.AddExamples("恐れる，〔副〕恐る恐る")

	require.Len(t, k.Readings, 2)
	require.Len(t, k.Readings[0].Examples, 1)
	assert.Equal(t, Adverb, k.Readings[0].Examples[0].POS)
}

func TestRomaji(t *testing.T) {
	k := NewKanji("嫌")
	assert.Equal(t, "KEN", k.AddReading("ケン").Romaji())
	assert.Equal(t, "GEN", k.AddReading("　ゲン").Romaji())
	assert.Equal(t, "iya", k.AddReading("いや").Romaji())

	irregular := k.AddReading("いや")
	irregular.Kind = Irregular
	assert.Equal(t, "Iya", irregular.Romaji())
}

func TestToHiragana(t *testing.T) {
	k := NewKanji("柔")
	assert.Equal(t, "にゅう", k.AddReading("ニュウ").ToHiragana())

	k = NewKanji("最")
	r := k.AddReading("もっとも")
	r.AddExamples("最も")
	assert.Equal(t, "もっと.も", r.Reading)
	assert.Equal(t, "もっと.も", r.ToHiragana())
	assert.Equal(t, "も", r.Okurigana())
	assert.Equal(t, "もっとも", r.Clean())
}

func TestReadingString(t *testing.T) {
	k := NewKanji("成")
	r := k.AddReading("　ジョウ")
	r.AddExamples("成就，成仏")
	assert.Equal(t, "JOU (特), examples: [成就,成仏]", r.String())
}
