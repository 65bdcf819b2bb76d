package scoring

import (
	"fmt"
	"strings"
)

// ContentBand selects the word-count capping applied to raw content scores.
type ContentBand string

const (
	// ContentBandGraduated caps at 10/12/15 below 100/150/180 words.
	ContentBandGraduated ContentBand = "graduated"
	// ContentBandStrict caps at 12 below 150 words and forces 9 below 180
	// words once the looked-up score reaches 10.
	ContentBandStrict ContentBand = "strict"
)

// Policy groups the scoring knobs that differ between the two historical
// pipelines. Which combination is the intended product behaviour is still an
// open question, so both presets stay available.
type Policy struct {
	Name          string      `json:"name"`
	ContentBand   ContentBand `json:"content_band"`
	LanguageBonus bool        `json:"language_bonus"`
	IdiomFilter   bool        `json:"idiom_filter"`
}

// PolicyLibrary is the pipeline used for bulk and OCR marking.
var PolicyLibrary = Policy{
	Name:          "library",
	ContentBand:   ContentBandGraduated,
	LanguageBonus: false,
	IdiomFilter:   false,
}

// PolicyInline is the pipeline the single-essay form used to run.
var PolicyInline = Policy{
	Name:          "inline",
	ContentBand:   ContentBandStrict,
	LanguageBonus: true,
	IdiomFilter:   true,
}

// PolicyByName resolves a preset by name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyLibrary.Name:
		return PolicyLibrary, nil
	case PolicyInline.Name:
		return PolicyInline, nil
	default:
		return Policy{}, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// ParseContentBand validates a content band name.
func ParseContentBand(value string) (ContentBand, error) {
	switch band := ContentBand(strings.ToLower(strings.TrimSpace(value))); band {
	case ContentBandGraduated, ContentBandStrict:
		return band, nil
	default:
		return "", fmt.Errorf("unknown content band %q", value)
	}
}
