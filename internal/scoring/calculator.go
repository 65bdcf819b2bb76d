package scoring

import (
	"regexp"
	"strings"
)

const (
	maxScore         = 20
	minLanguageScore = 4
	// tooManyErrorsRatio marks essays where errors disrupt comprehension.
	tooManyErrorsRatio = 0.5
)

var (
	punctuationPattern = regexp.MustCompile(`[,;:"']`)
	sentenceSplitter   = regexp.MustCompile(`[.!?\n]`)
)

// WordCount counts whitespace separated words in the trimmed essay.
func WordCount(essay string) int {
	return len(strings.Fields(essay))
}

// CalculateContentScore caps the oracle's raw content score by essay length
// and maps it through ContentRubric.
func CalculateContentScore(raw, wordCount int, band ContentBand) int {
	if band == ContentBandStrict {
		if wordCount < 150 && raw > 12 {
			raw = 12
		}
		score := contentFromRubric(raw)
		if wordCount < 180 && score >= 10 {
			score = 9
		}
		return score
	}

	switch {
	case wordCount < 100 && raw > 10:
		raw = 10
	case wordCount < 150 && raw > 12:
		raw = 12
	case wordCount < 180 && raw > 15:
		raw = 15
	}
	return contentFromRubric(raw)
}

func contentFromRubric(raw int) int {
	if score, ok := lookupContent(raw); ok {
		return score
	}
	return max(1, raw)
}

// CalculateLanguageScore derives the language score from the merged error
// count, essay length and detected style devices.
func CalculateLanguageScore(errorCount, wordCount int, styles []StyleMatch, essay string, policy Policy) int {
	score := maxScore

	if wordCount < 100 {
		score = min(score, 12)
	} else if wordCount < 150 {
		score = min(score, 16)
	}

	if float64(errorCount) >= float64(wordCount)*tooManyErrorsRatio {
		score = min(score, 12)
	} else {
		score = min(score, lookupLanguage(errorCount))
	}

	if policy.LanguageBonus {
		if StylesInSentences(essay, styles) >= 2 {
			score = min(score+1, maxScore)
		}
	} else if len(styles) == 0 || !punctuationPattern.MatchString(essay) {
		score -= 2
	}

	return max(minLanguageScore, score)
}

// CrossCap keeps the language score from outpacing a weak content score.
func CrossCap(content, language int) int {
	if content <= 8 && language > 8 {
		return 8
	}
	if content <= 12 && language > 16 {
		return 16
	}
	return language
}

// StylesInSentences counts distinct style matches that appear inside a
// sentence carrying more than the matched phrase itself.
func StylesInSentences(essay string, styles []StyleMatch) int {
	var sentences []string
	for _, part := range sentenceSplitter.Split(essay, -1) {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	seen := make(map[StyleMatch]struct{}, len(styles))
	count := 0
	for _, style := range styles {
		if _, dup := seen[style]; dup {
			continue
		}
		seen[style] = struct{}{}

		needle := strings.ToLower(strings.TrimSpace(style.Text))
		if needle == "" {
			continue
		}
		for _, sentence := range sentences {
			if strings.Contains(sentence, needle) && WordCount(sentence) > WordCount(needle) {
				count++
				break
			}
		}
	}
	return count
}

// Summarize renders a short strengths and weaknesses line from the final scores.
func Summarize(content, language int) string {
	var strengths, weaknesses []string

	switch {
	case content >= 17:
		strengths = append(strengths, "Isi lengkap dan tepat.")
	case content >= 13:
		strengths = append(strengths, "Isi mencukupi.")
	default:
		weaknesses = append(weaknesses, "Isi tidak cukup atau tidak berkaitan.")
	}

	switch {
	case language >= 17:
		strengths = append(strengths, "Bahasa sangat baik.")
	case language >= 13:
		strengths = append(strengths, "Bahasa baik tetapi ada kesalahan kecil.")
	default:
		weaknesses = append(weaknesses, "Terdapat banyak kesalahan bahasa.")
	}

	return "Kekuatan: " + strings.Join(strengths, " ") + " Kelemahan: " + strings.Join(weaknesses, " ")
}
