package scoring

import "regexp"

// MorphologyRule flags a known affixation (imbuhan) mistake.
type MorphologyRule struct {
	Pattern     *regexp.Regexp
	Suggestion  string
	Explanation string
}

func rule(pattern, suggestion, explanation string) MorphologyRule {
	return MorphologyRule{
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Suggestion:  suggestion,
		Explanation: explanation,
	}
}

// MorphologyRules is scanned in order; a word listed twice yields two errors.
var MorphologyRules = []MorphologyRule{
	rule(`\bterlebih\s+baik\b`, "terbaik", "“Terlebih baik” tidak betul; gunakan “terbaik” sahaja sebagai bentuk superlatif."),
	rule(`\bberikanlah\b`, "beri", "“Berikanlah” adalah ayat tidak formal, lebih sesuai gunakan “beri”."),
	rule(`\bterjadilah\b`, "terjadi", "“Terjadilah” adalah bentuk perintah, guna “terjadi” untuk pernyataan biasa."),
	rule(`\bmenyebutkan\b`, "menyebut", "“Menyebutkan” kurang tepat dalam konteks biasa; “menyebut” adalah lebih betul."),
	rule(`\bmempergunakan\b`, "menggunakan", "“Mempergunakan” kurang formal, lebih baik guna “menggunakan”."),
	rule(`\bmengertikan\b`, "maksudkan", "“Mengertikan” bukan imbuhan yang tepat, gunakan “maksudkan”."),
	rule(`\bmenginformasikan\b`, "memberitahu", "“Menginformasikan” kurang biasa dalam bahasa baku, gunakan “memberitahu”."),
	rule(`\bmengadakan\b`, "mengadakan", "Pastikan imbuhan dan kata dasar tepat."),
	rule(`\bmemperolehkan\b`, "memperoleh", "“Memperolehkan” tidak betul; gunakan “memperoleh”."),
	rule(`\bmempergunakan\b`, "menggunakan", "“Mempergunakan” kurang tepat, gunakan “menggunakan”."),
	rule(`\bmengguna\b`, "menggunakan", `Imbuhan tidak lengkap. Kata kerja ini sepatutnya "menggunakan".`),
	rule(`\bmenolongkan\b`, "menolong", `Penggunaan imbuhan "-kan" tidak sesuai. Kata kerja ini sepatutnya "menolong".`),
	rule(`\bmengajarkan\b`, "mengajar", `Dalam konteks biasa, imbuhan "-kan" tidak perlu. Gunakan "mengajar".`),
	rule(`\bbermaian\b`, "bermain", `Kesalahan pembentukan imbuhan. "Bermaian" bukan kata kerja yang betul.`),
	rule(`\bterjatuhkan\b`, "terjatuh", `Imbuhan "-kan" tidak perlu dalam bentuk pasif ini. Gunakan "terjatuh".`),
	rule(`\bdipersilakan\b`, "dipersilakan (jika sesuai konteks) atau dijemput", "Pastikan konteks sesuai untuk penggunaan bentuk pasif ini."),
	rule(`\bmemperbaikkan\b`, "memperbaiki", `Kata kerja ini telah membawa maksud memperbaiki. Tambahan "-kan" tidak perlu.`),
	rule(`\bkeadaan\s+yang\s+tidak\s+berkeadaan\b`, "keadaan yang tidak stabil", `Penggunaan "berkeadaan" dalam konteks ini tidak tepat.`),
	rule(`\bpemgiraan\b`, "pengiraan", `Kesalahan ejaan imbuhan awalan "pem-". Gunakan "pengiraan".`),
	rule(`\bdiperbuatkan\b`, "diperbuat", `Penggunaan akhiran "-kan" adalah berlebihan. Gunakan "diperbuat".`),
}

// DetectMorphologyErrors reports every rule match in the essay.
func DetectMorphologyErrors(essay string) []LanguageError {
	found := make([]LanguageError, 0)
	for _, r := range MorphologyRules {
		for _, hit := range r.Pattern.FindAllString(essay, -1) {
			found = append(found, LanguageError{
				Substring:   hit,
				Category:    CategoryMorphology,
				Suggestion:  r.Suggestion,
				Explanation: r.Explanation,
			})
		}
	}
	return found
}
