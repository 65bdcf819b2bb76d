package ai

import "context"

// Task names label oracle calls in metrics and traces.
const (
	TaskCaption         = "caption"
	TaskScoreContent    = "score_content"
	TaskDetectErrors    = "detect_errors"
	TaskCommentContent  = "comment_content"
	TaskCommentLanguage = "comment_language"
	TaskCommentOverall  = "comment_overall"
)

// CompletionRequest is a single prompt sent to a text generation backend.
type CompletionRequest struct {
	Task     string
	Prompt   string
	ImageURL string
	JSON     bool
}

// Completer is a text generation backend.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}

// LanguageIssue is one language error as returned by the oracle.
type LanguageIssue struct {
	Substring   string `json:"ayatSalah"`
	Category    string `json:"kategori"`
	Suggestion  string `json:"cadangan"`
	Explanation string `json:"penjelasan"`
}
