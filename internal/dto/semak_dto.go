package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/noah-isme/semak-karangan-api/internal/scoring"
)

// Bulk item modes and their credit cost.
const (
	ModeManual = "manual"
	ModeOCR    = "ocr"
)

// ModeCost returns the credit price of a bulk item mode. Unknown modes are free
// and fail later as item errors.
func ModeCost(mode string) int {
	switch mode {
	case ModeManual:
		return 1
	case ModeOCR:
		return 2
	default:
		return 0
	}
}

// ManualSemakRequest is the payload for analysing one typed essay.
type ManualSemakRequest struct {
	Nama               string `json:"nama" validate:"max=191"`
	Set                string `json:"set" validate:"max=191"`
	Karangan           string `json:"karangan" validate:"required"`
	PictureDescription string `json:"pictureDescription"`
	PictureURL         string `json:"pictureUrl" validate:"omitempty,url"`
}

// SubmissionInput is what the analysis pipeline needs for one essay.
type SubmissionInput struct {
	Name               string
	Set                string
	Essay              string
	PictureDescription string
	PictureURL         string
}

// Commentary groups the free-text feedback of an analysis.
type Commentary struct {
	Content  string `json:"isi"`
	Language string `json:"bahasa"`
	Overall  string `json:"keseluruhan"`
	Summary  string `json:"ringkasan"`
}

// AnalysisResult is the complete outcome of analysing one essay.
type AnalysisResult struct {
	Name               string                  `json:"nama"`
	Set                string                  `json:"set"`
	Essay              string                  `json:"karangan"`
	AnnotatedEssay     string                  `json:"karanganUnderlined"`
	PictureDescription string                  `json:"pictureDescription"`
	ContentScore       int                     `json:"markahIsi"`
	LanguageScore      int                     `json:"markahBahasa"`
	TotalScore         int                     `json:"markahKeseluruhan"`
	WordCount          int                     `json:"jumlahPerkataan"`
	Errors             []scoring.LanguageError `json:"kesalahanBahasa"`
	Styles             []string                `json:"gayaBahasa"`
	StyleMatches       []scoring.StyleMatch    `json:"gayaBahasaTerperinci"`
	Commentary         Commentary              `json:"ulasan"`
	Policy             string                  `json:"policy"`
}

// OCRResponse carries the text extracted from one image.
type OCRResponse struct {
	Text string `json:"text"`
}

// BulkPupil is one entry of the bulk request's pupils JSON field.
type BulkPupil struct {
	ID                 FlexString `json:"id"`
	Nama               string     `json:"nama"`
	Set                string     `json:"set"`
	Karangan           string     `json:"karangan"`
	Mode               string     `json:"mode"`
	PictureDescription string     `json:"pictureDescription"`
	PictureURL         string     `json:"pictureUrl"`
	Checked            FlexBool   `json:"checked"`
}

// BulkItemResult is either an analysis or an item error for one pupil.
type BulkItemResult struct {
	ID     string `json:"id"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
	*AnalysisResult
}

// BulkResponse is returned after a batch run.
type BulkResponse struct {
	Results        []BulkItemResult `json:"results"`
	CreditsCharged int              `json:"creditsCharged"`
	Balance        int              `json:"balance"`
}

// FlexBool accepts true, "true" and their false counterparts.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*b = false
		return nil
	}

	var raw bool
	if err := json.Unmarshal(trimmed, &raw); err == nil {
		*b = FlexBool(raw)
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return err
	}
	*b = FlexBool(strings.EqualFold(strings.TrimSpace(text), "true"))
	return nil
}

// FlexString accepts either a JSON string or a number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		*s = FlexString(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	if n, err := number.Int64(); err == nil {
		*s = FlexString(strconv.FormatInt(n, 10))
		return nil
	}
	*s = FlexString(number.String())
	return nil
}
