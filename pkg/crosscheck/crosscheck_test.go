package crosscheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/joyodb/pkg/joyo"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	require.NoError(t, err)
	return a
}

func TestAnalyzeVerb(t *testing.T) {
	a := newAnalyzer(t)

	tokens := a.Analyze("見る")
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].IsVerb())
	assert.Equal(t, "見る", tokens[0].BaseForm)
	assert.Equal(t, "一段", tokens[0].Conjugation)
	assert.Equal(t, "ミル", tokens[0].Reading)
}

func TestAnalyzeNoun(t *testing.T) {
	a := newAnalyzer(t)

	tokens := a.Analyze("地位")
	require.NotEmpty(t, tokens)
	assert.False(t, tokens[0].IsVerb())
	assert.Empty(t, tokens[0].Conjugation)
}

func kunKanji(char, reading, examples string) *joyo.Kanji {
	k := joyo.NewKanji(char)
	k.AddReading(reading)
	k.AddExamples(examples)
	return k
}

func TestCheckKanjiAgreement(t *testing.T) {
	a := newAnalyzer(t)

	k := kunKanji("見", "みる", "見る")
	require.Equal(t, "み.る", k.LastReading().Reading)
	assert.Empty(t, a.CheckKanji(k))

	k = kunKanji("書", "かく", "書く")
	assert.Empty(t, a.CheckKanji(k))
}

func TestCheckKanjiGodanLookalike(t *testing.T) {
	a := newAnalyzer(t)

	k := kunKanji("帰", "かえる", "帰る")
	findings := a.CheckKanji(k)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "帰", f.Kanji)
	assert.Equal(t, "かえ.る", f.Reading)
	assert.Equal(t, "帰る", f.Example)
	assert.True(t, f.Guessed)
	assert.Equal(t, "五段・ラ行", f.Conjugation)
	assert.Equal(t, "帰 [かえ.る] 帰る: guessed ichidan, dictionary says 五段・ラ行", f.String())
}

func TestCheckSkipsOnAndUndelimitedReadings(t *testing.T) {
	a := newAnalyzer(t)

	on := joyo.NewKanji("帰")
	on.AddReading("キ")
	on.AddExamples("帰国，復帰")

	noun := kunKanji("岸", "きし", "岸")

	assert.Empty(t, a.Check([]*joyo.Kanji{on, noun}))
}
