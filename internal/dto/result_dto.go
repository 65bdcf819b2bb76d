package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/semak-karangan-api/internal/models"
)

// ResultResponse is a stored analysis as returned to the client.
type ResultResponse struct {
	models.KaranganResult
	StyleLabels []string `json:"gayaBahasaLabel"`
}

// NewResultResponse converts a stored result.
func NewResultResponse(result models.KaranganResult) ResultResponse {
	labels := make([]string, 0, len(result.Styles))
	for _, style := range result.Styles {
		labels = append(labels, style.Label())
	}

	return ResultResponse{KaranganResult: result, StyleLabels: labels}
}

// ProgressEntry is one point of a student's progress timeline.
type ProgressEntry struct {
	ID            string    `json:"id"`
	Name          string    `json:"nama"`
	Set           string    `json:"set"`
	ContentScore  int       `json:"markahIsi"`
	LanguageScore int       `json:"markahBahasa"`
	TotalScore    int       `json:"markahKeseluruhan"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewProgressEntry converts a stored result.
func NewProgressEntry(result models.KaranganResult) ProgressEntry {
	return ProgressEntry{
		ID:            result.ID,
		Name:          result.Name,
		Set:           result.Set,
		ContentScore:  result.ContentScore,
		LanguageScore: result.LanguageScore,
		TotalScore:    result.TotalScore,
		Timestamp:     result.Timestamp,
	}
}

// SetsResponse lists the distinct sets of a submitter.
type SetsResponse struct {
	Sets []string `json:"sets"`
}

// StudentsResponse lists the distinct student names of a submitter.
type StudentsResponse struct {
	Students []string `json:"students"`
}

// DeleteStudentsRequest removes all results for the listed names.
type DeleteStudentsRequest struct {
	Names NameList `json:"nama" validate:"required,min=1,dive,required"`
}

// NameList accepts a single name or an array of names.
type NameList []string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NameList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*n = NameList{}
			return nil
		}
		*n = NameList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*n = many
	return nil
}

// DeleteStudentsResponse reports how many results were removed.
type DeleteStudentsResponse struct {
	Deleted int64 `json:"deleted"`
}

// CreditBalanceResponse reports a submitter's balance.
type CreditBalanceResponse struct {
	UID     string `json:"uid"`
	Balance int    `json:"balance"`
}

// CreditGrantRequest tops up a submitter's balance.
type CreditGrantRequest struct {
	UID    string `json:"uid" validate:"required,max=128"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}
