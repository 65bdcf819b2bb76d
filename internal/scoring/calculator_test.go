package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateContentScoreGraduatedBands(t *testing.T) {
	cases := []struct {
		raw, words, want int
	}{
		{raw: 18, words: 90, want: 10},
		{raw: 18, words: 120, want: 12},
		{raw: 18, words: 170, want: 15},
		{raw: 18, words: 200, want: 18},
		{raw: 7, words: 90, want: 7},
		{raw: 0, words: 200, want: 0},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("raw%d_words%d", tc.raw, tc.words), func(t *testing.T) {
			require.Equal(t, tc.want, CalculateContentScore(tc.raw, tc.words, ContentBandGraduated))
		})
	}
}

func TestCalculateContentScoreOutOfRangeRaw(t *testing.T) {
	require.Equal(t, 20, CalculateContentScore(25, 200, ContentBandGraduated), "over-range raw folds into the terminal band")
	require.Equal(t, 10, CalculateContentScore(25, 90, ContentBandGraduated))
	require.Equal(t, 1, CalculateContentScore(-3, 200, ContentBandGraduated), "unmatched raw defaults to max(1, raw)")
	require.Equal(t, 1, CalculateContentScore(-3, 120, ContentBandStrict))
}

func TestCalculateContentScoreStrictBand(t *testing.T) {
	require.Equal(t, 9, CalculateContentScore(18, 120, ContentBandStrict))
	require.Equal(t, 9, CalculateContentScore(18, 170, ContentBandStrict))
	require.Equal(t, 18, CalculateContentScore(18, 200, ContentBandStrict))
	require.Equal(t, 8, CalculateContentScore(8, 120, ContentBandStrict))
}

func TestContentScoreShortEssaysNeverExceedTen(t *testing.T) {
	for words := 1; words < 100; words++ {
		for raw := -5; raw <= 30; raw++ {
			score := CalculateContentScore(raw, words, ContentBandGraduated)
			require.LessOrEqual(t, score, 10, "raw=%d words=%d", raw, words)
		}
	}
}

func TestContentScoreStaysOnScale(t *testing.T) {
	for _, band := range []ContentBand{ContentBandGraduated, ContentBandStrict} {
		for words := 1; words < 300; words += 7 {
			for raw := -5; raw <= 40; raw++ {
				score := CalculateContentScore(raw, words, band)
				require.GreaterOrEqual(t, score, 0)
				require.LessOrEqual(t, score, 20)
				if raw != 0 {
					require.GreaterOrEqual(t, score, 1, "band=%s raw=%d words=%d", band, raw, words)
				}
			}
		}
	}
}

func TestCalculateLanguageScore(t *testing.T) {
	styled := []StyleMatch{{Device: DeviceSimile, Text: "seperti bulan"}}
	punctuated := "Pada hari Ahad, saya pergi ke taman."
	plain := "Pada hari Ahad saya pergi ke taman."

	cases := []struct {
		name   string
		errors int
		words  int
		styles []StyleMatch
		essay  string
		want   int
	}{
		{name: "clean long essay", errors: 2, words: 200, styles: styled, essay: punctuated, want: 20},
		{name: "short essay cap", errors: 2, words: 90, styles: styled, essay: punctuated, want: 12},
		{name: "medium essay cap", errors: 2, words: 120, styles: styled, essay: punctuated, want: 16},
		{name: "rubric bound", errors: 7, words: 200, styles: styled, essay: punctuated, want: 16},
		{name: "too many errors", errors: 100, words: 200, styles: styled, essay: punctuated, want: 12},
		{name: "no style penalty", errors: 2, words: 200, styles: nil, essay: punctuated, want: 18},
		{name: "no punctuation penalty", errors: 2, words: 200, styles: styled, essay: plain, want: 18},
		{name: "floor", errors: 45, words: 200, styles: nil, essay: plain, want: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateLanguageScore(tc.errors, tc.words, tc.styles, tc.essay, PolicyLibrary)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLanguageScoreTooManyErrorsBypassesRubric(t *testing.T) {
	for words := 1; words <= 300; words += 3 {
		threshold := (words + 1) / 2
		for errors := threshold; errors <= threshold+50; errors += 5 {
			for _, policy := range []Policy{PolicyLibrary, PolicyInline} {
				score := CalculateLanguageScore(errors, words, nil, "ayat", policy)
				require.LessOrEqual(t, score, 12, "errors=%d words=%d", errors, words)
			}
		}
	}
}

func TestLanguageScoreStaysWithinBounds(t *testing.T) {
	styled := []StyleMatch{{Device: DeviceHyperbole, Text: "sangat gembira"}}
	for _, policy := range []Policy{PolicyLibrary, PolicyInline} {
		for words := 1; words <= 400; words += 11 {
			for errors := 0; errors <= 80; errors += 3 {
				for _, styles := range [][]StyleMatch{nil, styled} {
					score := CalculateLanguageScore(errors, words, styles, "Saya sangat gembira, kata Ali.", policy)
					require.GreaterOrEqual(t, score, 4)
					require.LessOrEqual(t, score, 20)
				}
			}
		}
	}
}

func TestLanguageScoreBonusMode(t *testing.T) {
	essay := "Angin berbisik lembut di telinga saya pada pagi itu. Wajahnya cantik seperti bulan purnama di langit malam."
	styles := []StyleMatch{
		{Device: DevicePersonification, Text: "angin berbisik"},
		{Device: DeviceSimile, Text: "seperti bulan purnama di langit malam"},
	}

	require.Equal(t, 2, StylesInSentences(essay, styles))
	require.Equal(t, 19, CalculateLanguageScore(5, 200, styles, essay, PolicyInline))
	require.Equal(t, 20, CalculateLanguageScore(0, 200, styles, essay, PolicyInline), "bonus never exceeds 20")
	require.Equal(t, 18, CalculateLanguageScore(5, 200, nil, essay, PolicyInline), "bonus mode applies no penalty")
}

func TestStylesInSentencesIgnoresBareMatches(t *testing.T) {
	styles := []StyleMatch{
		{Device: DevicePersonification, Text: "angin berbisik"},
		{Device: DevicePersonification, Text: "angin berbisik"},
	}
	require.Equal(t, 0, StylesInSentences("Angin berbisik.", styles))
	require.Equal(t, 1, StylesInSentences("Angin berbisik di luar. Angin berbisik lagi.", styles), "duplicates count once")
}

func TestCrossCap(t *testing.T) {
	require.Equal(t, 8, CrossCap(8, 18))
	require.Equal(t, 16, CrossCap(10, 18))
	require.Equal(t, 18, CrossCap(13, 18))
	require.Equal(t, 6, CrossCap(8, 6))
	require.Equal(t, 16, CrossCap(12, 16))
}

func TestSummarize(t *testing.T) {
	require.Equal(t, "Kekuatan: Isi lengkap dan tepat. Bahasa sangat baik. Kelemahan: ", Summarize(18, 18))
	require.Equal(t, "Kekuatan: Bahasa baik tetapi ada kesalahan kecil. Kelemahan: Isi tidak cukup atau tidak berkaitan.", Summarize(10, 14))
	require.Equal(t, "Kekuatan: Isi mencukupi. Kelemahan: Terdapat banyak kesalahan bahasa.", Summarize(13, 8))
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 3, WordCount("  Saya  suka\nbuku "))
	require.Equal(t, 0, WordCount("   "))
}

func TestPolicyByName(t *testing.T) {
	policy, err := PolicyByName("INLINE")
	require.NoError(t, err)
	require.Equal(t, PolicyInline, policy)

	policy, err = PolicyByName("")
	require.NoError(t, err)
	require.Equal(t, PolicyLibrary, policy)

	_, err = PolicyByName("experimental")
	require.Error(t, err)

	band, err := ParseContentBand(" Strict ")
	require.NoError(t, err)
	require.Equal(t, ContentBandStrict, band)
}
