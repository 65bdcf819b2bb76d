package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/semak-karangan-api/internal/scoring"
)

// KaranganResult is a persisted essay analysis. ID is "{set}_{submissionId}"
// and is unique per submitter, so the primary key is (id, uid).
type KaranganResult struct {
	ID                 string                                     `gorm:"primaryKey;size:191" json:"id"`
	UID                string                                     `gorm:"primaryKey;size:128;not null;index:idx_karangan_uid_set,priority:1;index:idx_karangan_uid_name,priority:1" json:"uid"`
	SubmissionID       string                                     `gorm:"size:128" json:"submissionId"`
	Name               string                                     `gorm:"size:191;not null;index:idx_karangan_uid_name,priority:2" json:"nama"`
	Set                string                                     `gorm:"column:set_name;size:191;index:idx_karangan_uid_set,priority:2" json:"set"`
	Mode               string                                     `gorm:"size:16" json:"mode"`
	Essay              string                                     `gorm:"type:text" json:"karangan"`
	AnnotatedEssay     string                                     `gorm:"type:text" json:"karanganUnderlined"`
	PictureDescription string                                     `gorm:"type:text" json:"pictureDescription"`
	PictureURL         string                                     `gorm:"size:1024" json:"pictureUrl,omitempty"`
	ContentScore       int                                        `json:"markahIsi"`
	LanguageScore      int                                        `json:"markahBahasa"`
	TotalScore         int                                        `json:"markahKeseluruhan"`
	Errors             datatypes.JSONSlice[scoring.LanguageError] `json:"kesalahanBahasa"`
	Styles             datatypes.JSONSlice[scoring.StyleMatch]    `json:"gayaBahasa"`
	SourceImages       datatypes.JSONSlice[string]                `json:"sourceImages,omitempty"`
	ContentComment     string                                     `gorm:"type:text" json:"ulasanIsi"`
	LanguageComment    string                                     `gorm:"type:text" json:"ulasanBahasa"`
	OverallComment     string                                     `gorm:"type:text" json:"ulasanKeseluruhan"`
	Summary            string                                     `gorm:"type:text" json:"ringkasan"`
	Policy             string                                     `gorm:"size:32" json:"policy"`
	Timestamp          time.Time                                  `gorm:"index" json:"timestamp"`
}

// TableName overrides the default pluralised name.
func (KaranganResult) TableName() string {
	return "karangan_results"
}

// ResultKey builds the storage key for a submission inside a set.
func ResultKey(set, submissionID string) string {
	return set + "_" + submissionID
}
