package ai

import "fmt"

func captionPrompt(imageURL string) string {
	return "Berikan deskripsi ringkas dalam Bahasa Melayu Standard Singapura berdasarkan Dewan Bahasa dan Pustaka untuk gambar ini: " + imageURL
}

func scoreContentPrompt(essay, pictureDescription string) string {
	return fmt.Sprintf(`Tugas anda ialah menilai *Markah Isi* (0–20) untuk karangan Bahasa Melayu murid sekolah rendah berdasarkan gambar atau soalan berikut:

%s

Guna penanda aras ini:
- 17–20: Isi lengkap, terperinci, sepenuhnya relevan, disusun dengan baik
- 13–16: Isi kebanyakannya relevan dan tersusun, tetapi kurang terperinci
- 9–12: Isi mencukupi tetapi ada isi tidak relevan atau tidak lengkap
- 5–8: Isi tidak mencukupi, ringkas, atau tidak berkembang
- 0–4: Tiada isi yang relevan atau sangat sedikit

Karangan:
%s

Berikan hanya satu nombor antara 0 hingga 20. Balas dengan nombor sahaja, tanpa sebarang penjelasan atau ayat tambahan.`, pictureDescription, essay)
}

func detectErrorsPrompt(essay string) string {
	return fmt.Sprintf(`Tugas anda ialah mengenal pasti kesalahan bahasa dalam karangan Bahasa Melayu murid sekolah rendah (umur 11–12 tahun).

Senaraikan satu kesalahan setiap baris, dalam format JSON:
[
  {
    "ayatSalah": "...",
    "kategori": "ejaan / imbuhan / struktur ayat / tanda baca / tatabahasa",
    "cadangan": "...",
    "penjelasan": "Bahasa mudah untuk murid 11–12 tahun."
  }
]

Karangan:
%s

Gunakan Bahasa Melayu Standard Singapura. Nilai seperti guru sekolah rendah Singapura.`, essay)
}

func commentContentPrompt(essay string) string {
	return "Berdasarkan karangan berikut, berikan satu ulasan ISI sahaja. Nyatakan sama ada isi lengkap atau kurang lengkap berdasarkan gambar/soalan. Sertakan satu cadangan untuk menambah baik. Gunakan bahasa mudah untuk murid sekolah rendah.\n\nKarangan:\n" + essay
}

func commentLanguagePrompt(essay string) string {
	return "Beri satu ulasan ringkas untuk BAHASA karangan ini.\nNyatakan satu kekuatan dan satu cadangan penambahbaikan. Guna bahasa mudah untuk murid sekolah rendah.\n\nKarangan:\n" + essay
}

func commentOverallPrompt(essay string) string {
	return "Anda seorang guru Bahasa Melayu yang memberikan ulasan ringkas untuk murid sekolah rendah umur 11–12 tahun. Tulis dalam 2 ayat sahaja menggunakan Bahasa Melayu Standard Singapura, bukan gaya sastera dan tanpa kata ganti diri pertama. Ayat pertama berikan pujian ringkas (isi atau bahasa). Ayat kedua berikan cadangan mudah untuk tambah baik isi atau bahasa berdasarkan karangan murid.\n\nKarangan:\n" + essay
}
