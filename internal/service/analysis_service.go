package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/observability"
	"github.com/noah-isme/semak-karangan-api/internal/scoring"
	"github.com/noah-isme/semak-karangan-api/pkg/ai"
)

// ErrEmptyEssay is returned when the essay is blank after trimming.
var ErrEmptyEssay = errors.New("karangan diperlukan")

// Fallback values used when an oracle call fails.
const (
	FallbackPictureDescription = "Tiada deskripsi gambar."
	FallbackContentComment     = "Tiada ulasan isi dijana."
	FallbackLanguageComment    = "Tiada ulasan bahasa dijana."
	FallbackOverallComment     = "Teruskan berusaha menulis karangan yang lebih baik!"
)

// Oracle is the external scorer consulted during an analysis.
type Oracle interface {
	Caption(ctx context.Context, imageURL string) (string, error)
	ScoreContent(ctx context.Context, essay, pictureDescription string) (int, error)
	DetectErrors(ctx context.Context, essay string) ([]ai.LanguageIssue, error)
	CommentContent(ctx context.Context, essay string) (string, error)
	CommentLanguage(ctx context.Context, essay string) (string, error)
	CommentOverall(ctx context.Context, essay string) (string, error)
}

// AnalysisService scores a single essay end to end.
type AnalysisService interface {
	Analyze(ctx context.Context, input dto.SubmissionInput) (dto.AnalysisResult, error)
	Policy() scoring.Policy
}

type analysisService struct {
	oracle    Oracle
	policy    scoring.Policy
	timeout   time.Duration
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewAnalysisService constructs the orchestrator. A zero timeout leaves oracle
// calls bounded only by the caller's context.
func NewAnalysisService(oracle Oracle, policy scoring.Policy, timeout time.Duration, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		oracle:    oracle,
		policy:    policy,
		timeout:   timeout,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/semak-karangan-api/internal/service/analysis"),
		logger:    logger.With().Str("component", "analysis_service").Logger(),
	}
}

func (s *analysisService) Policy() scoring.Policy {
	return s.policy
}

// Analyze runs the pipeline. Only a blank essay fails; every oracle failure
// degrades to its fallback value.
func (s *analysisService) Analyze(parent context.Context, input dto.SubmissionInput) (dto.AnalysisResult, error) {
	if strings.TrimSpace(input.Essay) == "" {
		return dto.AnalysisResult{}, ErrEmptyEssay
	}

	ctx, span := s.tracer.Start(parent, "analysis.analyze", trace.WithAttributes(
		attribute.String("policy", s.policy.Name),
	))
	defer span.End()

	logger := s.logger.With().Str("nama", input.Name).Str("set", input.Set).Logger()
	essay := input.Essay

	description := s.resolvePictureDescription(ctx, logger, input)
	wordCount := scoring.WordCount(essay)
	span.SetAttributes(attribute.Int("word_count", wordCount))

	raw, err := s.scoreContent(ctx, essay, description)
	if err != nil {
		s.fallback(logger, ai.TaskScoreContent, err)
		raw = 0
	}
	content := scoring.CalculateContentScore(raw, wordCount, s.policy.ContentBand)

	oracleErrors, err := s.detectErrors(ctx, essay)
	if err != nil {
		s.fallback(logger, ai.TaskDetectErrors, err)
		oracleErrors = nil
	}
	languageErrors := scoring.AggregateErrors(oracleErrors, essay, s.policy.IdiomFilter)

	styles := scoring.DetectStyle(essay)
	language := scoring.CalculateLanguageScore(len(languageErrors), wordCount, styles, essay, s.policy)
	language = scoring.CrossCap(content, language)

	annotated := scoring.Annotate(essay, languageErrors)

	contentComment := s.comment(ctx, logger, ai.TaskCommentContent, s.oracle.CommentContent, essay, FallbackContentComment)
	languageComment := s.comment(ctx, logger, ai.TaskCommentLanguage, s.oracle.CommentLanguage, essay, FallbackLanguageComment)
	overallComment := s.comment(ctx, logger, ai.TaskCommentOverall, s.oracle.CommentOverall, essay, FallbackOverallComment)

	labels := make([]string, 0, len(styles))
	for _, style := range styles {
		labels = append(labels, style.Label())
	}

	observability.Analyses().WithLabelValues(s.policy.Name).Inc()
	logger.Info().
		Int("word_count", wordCount).
		Int("raw_content", raw).
		Int("markah_isi", content).
		Int("markah_bahasa", language).
		Int("kesalahan", len(languageErrors)).
		Int("gaya_bahasa", len(styles)).
		Msg("essay analysed")

	return dto.AnalysisResult{
		Name:               input.Name,
		Set:                input.Set,
		Essay:              essay,
		AnnotatedEssay:     annotated,
		PictureDescription: description,
		ContentScore:       content,
		LanguageScore:      language,
		TotalScore:         content + language,
		WordCount:          wordCount,
		Errors:             languageErrors,
		Styles:             labels,
		StyleMatches:       styles,
		Commentary: dto.Commentary{
			Content:  contentComment,
			Language: languageComment,
			Overall:  overallComment,
			Summary:  scoring.Summarize(content, language),
		},
		Policy: s.policy.Name,
	}, nil
}

func (s *analysisService) resolvePictureDescription(ctx context.Context, logger zerolog.Logger, input dto.SubmissionInput) string {
	if description := strings.TrimSpace(input.PictureDescription); description != "" {
		return description
	}

	imageURL := strings.TrimSpace(input.PictureURL)
	if imageURL == "" {
		return FallbackPictureDescription
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	caption, err := s.oracle.Caption(callCtx, imageURL)
	if err == nil {
		caption = s.clean(caption)
	}
	if err != nil || caption == "" {
		s.fallback(logger, ai.TaskCaption, err)
		return FallbackPictureDescription
	}
	return caption
}

func (s *analysisService) scoreContent(ctx context.Context, essay, description string) (int, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	return s.oracle.ScoreContent(callCtx, essay, description)
}

func (s *analysisService) detectErrors(ctx context.Context, essay string) ([]scoring.LanguageError, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	issues, err := s.oracle.DetectErrors(callCtx, essay)
	if err != nil {
		return nil, err
	}

	converted := make([]scoring.LanguageError, 0, len(issues))
	for _, issue := range issues {
		converted = append(converted, scoring.LanguageError{
			Substring:   issue.Substring,
			Category:    issue.Category,
			Suggestion:  issue.Suggestion,
			Explanation: issue.Explanation,
		})
	}
	return converted, nil
}

func (s *analysisService) comment(ctx context.Context, logger zerolog.Logger, task string, call func(context.Context, string) (string, error), essay, fallback string) string {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	text, err := call(callCtx, essay)
	if err == nil {
		text = s.clean(text)
	}
	if err != nil || text == "" {
		s.fallback(logger, task, err)
		return fallback
	}
	return text
}

func (s *analysisService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// clean strips any markup the oracle put into free text. The sanitizer
// escapes what it keeps, so the result is decoded back to plain text.
func (s *analysisService) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}

func (s *analysisService) fallback(logger zerolog.Logger, task string, err error) {
	observability.OracleFallbacks().WithLabelValues(task).Inc()
	event := logger.Warn().Str("task", task)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("oracle call degraded to fallback")
}
