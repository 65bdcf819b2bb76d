package scoring

import "math"

// ContentRubricEntry maps an inclusive raw-score range to a content score.
// A nil Mapped passes the raw score through unchanged.
type ContentRubricEntry struct {
	Min    int
	Max    int
	Mapped *int
}

// LanguageRubricEntry bounds the language score for essays with at most
// MaxErrors language errors.
type LanguageRubricEntry struct {
	MaxErrors int
	MaxScore  int
}

func mapped(v int) *int { return &v }

// ContentRubric follows the oracle's marking bands. Raw scores above 20 are
// folded back to the top of the scale by the terminal band.
var ContentRubric = []ContentRubricEntry{
	{Min: 17, Max: 20},
	{Min: 13, Max: 16},
	{Min: 9, Max: 12},
	{Min: 5, Max: 8},
	{Min: 0, Max: 4},
	{Min: 21, Max: math.MaxInt, Mapped: mapped(20)},
}

// LanguageRubric is ordered ascending by MaxErrors; the last entry is unbounded.
var LanguageRubric = []LanguageRubricEntry{
	{MaxErrors: 3, MaxScore: 20},
	{MaxErrors: 6, MaxScore: 18},
	{MaxErrors: 9, MaxScore: 16},
	{MaxErrors: 12, MaxScore: 14},
	{MaxErrors: 15, MaxScore: 12},
	{MaxErrors: 20, MaxScore: 10},
	{MaxErrors: 25, MaxScore: 8},
	{MaxErrors: 30, MaxScore: 6},
	{MaxErrors: 35, MaxScore: 4},
	{MaxErrors: 40, MaxScore: 2},
	{MaxErrors: math.MaxInt, MaxScore: 0},
}

func lookupContent(raw int) (int, bool) {
	for _, entry := range ContentRubric {
		if raw >= entry.Min && raw <= entry.Max {
			if entry.Mapped != nil {
				return *entry.Mapped, true
			}
			return raw, true
		}
	}
	return 0, false
}

func lookupLanguage(errorCount int) int {
	for _, entry := range LanguageRubric {
		if entry.MaxErrors >= errorCount {
			return entry.MaxScore
		}
	}
	return 0
}
