package scoring

import (
	"regexp"
	"strings"
)

// idioms holds the peribahasa and simpulan bahasa taught from Primary 3 to 6.
var idioms = []string{
	// Darjah 3 & 4
	"ambil berat", "anak angkat", "anak emas", "bawa nasib", "berat sebelah",
	"besar hati", "buah tangan", "buruk siku", "cakar ayam", "campur tangan",
	"cari jalan", "fasih lidah", "hidung tinggi", "jalan tengah", "kaki ayam",
	"kaki bangku", "kecil hati", "keras kepala", "lepas tangan", "lurus akal",
	"manis mulut", "mati akal", "muka tembok", "murah hati", "rendah hati",
	"ringan mulut", "ringan tulang", "tajam akal", "tanda mata", "otak udang",

	// Darjah 5 & 6
	"air dicencang tiada putus", "bagai aur dengan tebing", "bagai dakwat dengan kertas",
	"bagai isi dengan kuku", "bagai menghitung bulu kambing", "bagai tikus membaiki labu",
	"baik budi", "banting tulang", "berani mati", "buang yang keruh ambil yang jernih",
	"cubit paha kanan paha kiri terasa juga", "diam-diam ubi",
	"hendak seribu daya tak hendak seribu dalih", "kata putus", "langkah seribu",
	"lapang dada", "makan suap", "panjang akal", "perah otak", "putih hati",
	"seperti anjing dengan kucing", "seperti garam jatuh di air",
	"seperti kacang lupakan kulit", "seperti katak di bawah tempurung",
	"seperti langit dengan bumi", "seperti lipas kudung", "tahan hati",
	"tangan kosong", "tangan terbuka", "tulang belakang",

	// BM Lanjutan
	"ayam tambatan", "buka pintu", "tanam budi", "tumbuk rusuk",
	"bagai cembul dengan tutup", "bagai lebah menghimpun madu",
	"seperti air dalam kolam", "seperti ikan pulang ke lubuk",
	"seperti menatang minyak yang penuh",
	"umpama minyak setitik di laut sekalipun timbul jua",
}

type devicePattern struct {
	device  Device
	pattern *regexp.Regexp
}

// devicePatterns run in this order after the idiom pass.
var devicePatterns = []devicePattern{
	{
		device:  DeviceSimile,
		pattern: regexp.MustCompile(`(?i)\b(seperti|bagai|umpama|laksana|ibarat)\s[^.,!?]{1,40}`),
	},
	{
		device:  DevicePersonification,
		pattern: regexp.MustCompile(`(?i)\b(bintang|matahari|bulan|angin|hujan|laut|pokok|awan|pelangi|mentari)\s+(menari|menangis|berkata|memeluk|tersenyum|merajuk|berbisik|berjalan)\b`),
	},
	{
		device:  DeviceMetaphor,
		pattern: regexp.MustCompile(`(?i)\b(jiwa\s\w+|hati\s\w+|api\s+kemarahan|ombak\s+gelora|badai\s+hidup|mahkota\s+negara|permata\s\w+|bintang\s\w+)\b`),
	},
	{
		device:  DeviceHyperbole,
		pattern: regexp.MustCompile(`(?i)\b(beribu-ribu|beratus-ratus|amat\s+\w+|sangat\s+\w+|teramat\s+\w+|sebanyak\s+bintang|setinggi\s+langit)\b`),
	},
}

// Idioms returns a copy of the known idiom list.
func Idioms() []string {
	return append([]string(nil), idioms...)
}

// DetectStyle lists the rhetorical devices found in the essay. Idioms are
// reported once each; every regex hit of the other devices is reported.
func DetectStyle(text string) []StyleMatch {
	matches := make([]StyleMatch, 0)
	lower := strings.ToLower(text)

	for _, idiom := range idioms {
		if strings.Contains(lower, idiom) {
			matches = append(matches, StyleMatch{Device: DeviceIdiom, Text: idiom})
		}
	}

	for _, dp := range devicePatterns {
		for _, hit := range dp.pattern.FindAllString(text, -1) {
			matches = append(matches, StyleMatch{Device: dp.device, Text: strings.TrimSpace(hit)})
		}
	}

	return matches
}

// IsKnownIdiom reports whether the candidate contains a known idiom.
func IsKnownIdiom(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, idiom := range idioms {
		if strings.Contains(lower, idiom) {
			return true
		}
	}
	return false
}
