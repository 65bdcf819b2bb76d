package scoring

import "fmt"

// Category labels a language error. The oracle may return any free-form
// category; locally detected errors always use CategoryMorphology.
type Category = string

// Known language error categories.
const (
	CategorySpelling          Category = "ejaan"
	CategoryMorphology        Category = "imbuhan"
	CategorySentenceStructure Category = "struktur ayat"
	CategoryPunctuation       Category = "tanda baca"
	CategoryGrammar           Category = "tatabahasa"
)

// LanguageError is a single mistake found in an essay. The JSON field names
// match the structure the scoring oracle is asked to return.
type LanguageError struct {
	Substring   string   `json:"ayatSalah"`
	Category    Category `json:"kategori"`
	Suggestion  string   `json:"cadangan"`
	Explanation string   `json:"penjelasan"`
}

// Device identifies a rhetorical device (gaya bahasa).
type Device string

const (
	DeviceIdiom           Device = "idiom"
	DeviceSimile          Device = "simile"
	DevicePersonification Device = "personification"
	DeviceMetaphor        Device = "metaphor"
	DeviceHyperbole       Device = "hyperbole"
)

var deviceLabels = map[Device]string{
	DeviceIdiom:           "Peribahasa",
	DeviceSimile:          "Simile",
	DevicePersonification: "Personifikasi",
	DeviceMetaphor:        "Metafora",
	DeviceHyperbole:       "Hiperbola",
}

// StyleMatch is one detected rhetorical device.
type StyleMatch struct {
	Device Device `json:"device"`
	Text   string `json:"text"`
}

// Label renders the match the way teachers see it in reports.
func (m StyleMatch) Label() string {
	label, ok := deviceLabels[m.Device]
	if !ok {
		label = string(m.Device)
	}
	if m.Device == DeviceIdiom {
		return fmt.Sprintf("%s: %q", label, m.Text)
	}
	return fmt.Sprintf("%s: %s", label, m.Text)
}
