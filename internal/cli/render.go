package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
)

func renderAnalysis(result dto.AnalysisResult) string {
	var out strings.Builder

	scores := table.NewWriter()
	scores.SetStyle(table.StyleRounded)
	scores.SetTitle(analysisTitle(result))
	scores.AppendHeader(table.Row{"Isi", "Bahasa", "Keseluruhan", "Perkataan", "Polisi"})
	scores.AppendRow(table.Row{
		result.ContentScore,
		result.LanguageScore,
		result.TotalScore,
		result.WordCount,
		result.Policy,
	})
	out.WriteString(scores.Render())
	out.WriteString("\n")

	if len(result.Errors) > 0 {
		errs := table.NewWriter()
		errs.SetStyle(table.StyleRounded)
		errs.SetTitle("Kesalahan bahasa")
		errs.AppendHeader(table.Row{"#", "Ayat salah", "Kategori", "Cadangan"})
		errs.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, WidthMax: 40},
			{Number: 4, WidthMax: 40},
		})
		for i, e := range result.Errors {
			errs.AppendRow(table.Row{i + 1, e.Substring, e.Category, e.Suggestion})
		}
		out.WriteString(errs.Render())
		out.WriteString("\n")
	}

	if len(result.StyleMatches) > 0 {
		styles := table.NewWriter()
		styles.SetStyle(table.StyleRounded)
		styles.SetTitle("Gaya bahasa")
		for _, match := range result.StyleMatches {
			styles.AppendRow(table.Row{match.Label()})
		}
		out.WriteString(styles.Render())
		out.WriteString("\n")
	}

	comments := table.NewWriter()
	comments.SetStyle(table.StyleRounded)
	comments.SetTitle("Ulasan")
	comments.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, WidthMax: 72},
	})
	comments.AppendRows([]table.Row{
		{"Isi", result.Commentary.Content},
		{"Bahasa", result.Commentary.Language},
		{"Keseluruhan", result.Commentary.Overall},
		{"Ringkasan", result.Commentary.Summary},
	})
	out.WriteString(comments.Render())
	out.WriteString("\n")

	return out.String()
}

func analysisTitle(result dto.AnalysisResult) string {
	parts := make([]string, 0, 2)
	if result.Name != "" {
		parts = append(parts, result.Name)
	}
	if result.Set != "" {
		parts = append(parts, result.Set)
	}
	if len(parts) == 0 {
		return "Analisis karangan"
	}
	return strings.Join(parts, " / ")
}
