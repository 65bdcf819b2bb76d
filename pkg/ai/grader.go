package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	oracleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "semak",
		Subsystem: "ai",
		Name:      "oracle_duration_seconds",
		Help:      "Duration of scoring oracle requests",
	}, []string{"provider", "task"})

	oracleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "semak",
		Subsystem: "ai",
		Name:      "oracle_failures_total",
		Help:      "Number of failed scoring oracle requests",
	}, []string{"provider", "task"})
)

var (
	// ErrEmptyCompletion is returned when the backend answered with no text.
	ErrEmptyCompletion = errors.New("oracle returned empty completion")
	// ErrInvalidScore is returned when the content score reply has no leading integer.
	ErrInvalidScore = errors.New("oracle returned non-numeric score")
	// ErrInvalidErrorList is returned when the error list reply is not a valid JSON array.
	ErrInvalidErrorList = errors.New("oracle returned invalid error list")
)

const errorListSchemaURL = "oracle_error_list.json"

const errorListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "ayatSalah": {"type": ["string", "null"]},
      "kategori": {"type": ["string", "null"]},
      "cadangan": {"type": ["string", "null"]},
      "penjelasan": {"type": ["string", "null"]}
    }
  }
}`

var (
	leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)
	codeFence  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// Grader exposes the six scoring oracle operations on top of a Completer.
type Grader struct {
	completer Completer
	schema    *jsonschema.Schema
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewGrader wires a completer into a grader.
func NewGrader(completer Completer, logger zerolog.Logger) (*Grader, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(errorListSchemaURL, strings.NewReader(errorListSchema)); err != nil {
		return nil, fmt.Errorf("add error list schema: %w", err)
	}
	schema, err := compiler.Compile(errorListSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile error list schema: %w", err)
	}

	return &Grader{
		completer: completer,
		schema:    schema,
		tracer:    otel.Tracer("github.com/noah-isme/semak-karangan-api/pkg/ai"),
		logger:    logger.With().Str("component", "ai_grader").Str("provider", completer.Provider()).Logger(),
	}, nil
}

// Provider reports the backend name.
func (g *Grader) Provider() string {
	return g.completer.Provider()
}

// Caption describes the picture at imageURL.
func (g *Grader) Caption(ctx context.Context, imageURL string) (string, error) {
	return g.text(ctx, CompletionRequest{
		Task:     TaskCaption,
		Prompt:   captionPrompt(imageURL),
		ImageURL: imageURL,
	})
}

// ScoreContent asks for a raw content score. The reply is read like a
// lenient integer parse: leading whitespace and sign allowed, anything after
// the digits ignored. The value is not range checked.
func (g *Grader) ScoreContent(ctx context.Context, essay, pictureDescription string) (int, error) {
	reply, err := g.call(ctx, CompletionRequest{
		Task:   TaskScoreContent,
		Prompt: scoreContentPrompt(essay, pictureDescription),
	})
	if err != nil {
		return 0, err
	}

	score, err := parseLeadingInt(reply)
	if err != nil {
		g.fail(TaskScoreContent)
		return 0, err
	}
	return score, nil
}

// DetectErrors asks for the list of language errors in the essay.
func (g *Grader) DetectErrors(ctx context.Context, essay string) ([]LanguageIssue, error) {
	reply, err := g.call(ctx, CompletionRequest{
		Task:   TaskDetectErrors,
		Prompt: detectErrorsPrompt(essay),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	issues, err := g.parseErrorList(reply)
	if err != nil {
		g.fail(TaskDetectErrors)
		return nil, err
	}
	return issues, nil
}

// CommentContent returns commentary on the essay's content.
func (g *Grader) CommentContent(ctx context.Context, essay string) (string, error) {
	return g.text(ctx, CompletionRequest{Task: TaskCommentContent, Prompt: commentContentPrompt(essay)})
}

// CommentLanguage returns commentary on the essay's language.
func (g *Grader) CommentLanguage(ctx context.Context, essay string) (string, error) {
	return g.text(ctx, CompletionRequest{Task: TaskCommentLanguage, Prompt: commentLanguagePrompt(essay)})
}

// CommentOverall returns a two sentence overall comment.
func (g *Grader) CommentOverall(ctx context.Context, essay string) (string, error) {
	return g.text(ctx, CompletionRequest{Task: TaskCommentOverall, Prompt: commentOverallPrompt(essay)})
}

func (g *Grader) text(ctx context.Context, req CompletionRequest) (string, error) {
	reply, err := g.call(ctx, req)
	if err != nil {
		return "", err
	}
	if reply == "" {
		g.fail(req.Task)
		return "", ErrEmptyCompletion
	}
	return reply, nil
}

func (g *Grader) call(parent context.Context, req CompletionRequest) (string, error) {
	provider := g.completer.Provider()
	ctx, span := g.tracer.Start(parent, "ai."+req.Task, trace.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("task", req.Task),
	))
	defer span.End()

	start := time.Now()
	reply, err := g.completer.Complete(ctx, req)
	oracleDuration.WithLabelValues(provider, req.Task).Observe(time.Since(start).Seconds())
	if err != nil {
		g.fail(req.Task)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Debug().Err(err).Str("task", req.Task).Msg("oracle call failed")
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

func (g *Grader) fail(task string) {
	oracleFailures.WithLabelValues(g.completer.Provider(), task).Inc()
}

func (g *Grader) parseErrorList(reply string) ([]LanguageIssue, error) {
	payload := stripCodeFence(reply)

	var raw interface{}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidErrorList, err)
	}
	if err := g.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidErrorList, err)
	}

	var issues []LanguageIssue
	if err := json.Unmarshal([]byte(payload), &issues); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidErrorList, err)
	}
	if issues == nil {
		issues = []LanguageIssue{}
	}
	return issues, nil
}

func stripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if match := codeFence.FindStringSubmatch(trimmed); match != nil {
		return match[1]
	}
	return trimmed
}

func parseLeadingInt(reply string) (int, error) {
	match := leadingInt.FindStringSubmatch(reply)
	if match == nil {
		return 0, ErrInvalidScore
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, err)
	}
	return value, nil
}
