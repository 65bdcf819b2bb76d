package scoring

import "strings"

// AggregateErrors appends locally detected morphology errors to the oracle's
// list. Order is preserved and duplicates are kept. With filterIdioms set,
// entries without a substring or whose substring is a known idiom are dropped.
func AggregateErrors(oracleErrors []LanguageError, essay string, filterIdioms bool) []LanguageError {
	merged := make([]LanguageError, 0, len(oracleErrors))
	merged = append(merged, oracleErrors...)
	merged = append(merged, DetectMorphologyErrors(essay)...)

	if !filterIdioms {
		return merged
	}

	kept := merged[:0]
	for _, e := range merged {
		if strings.TrimSpace(e.Substring) == "" || IsKnownIdiom(e.Substring) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
