package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/models"
	"github.com/noah-isme/semak-karangan-api/internal/repository"
)

// ErrResultsNotFound is returned when a delete matched no results of the submitter.
var ErrResultsNotFound = errors.New("results not found")

// SaveResultInput describes a finished analysis to persist.
type SaveResultInput struct {
	UID          string
	SubmissionID string
	Mode         string
	PictureURL   string
	SourceImages []string
	Analysis     dto.AnalysisResult
}

// ResultService stores analyses and serves progress queries.
type ResultService interface {
	Save(ctx context.Context, input SaveResultInput) (models.KaranganResult, error)
	ListBySet(ctx context.Context, uid, set string) ([]dto.ResultResponse, error)
	StudentProgress(ctx context.Context, uid, name string) ([]dto.ProgressEntry, error)
	Sets(ctx context.Context, uid string) (dto.SetsResponse, error)
	Students(ctx context.Context, uid string) (dto.StudentsResponse, error)
	DeleteStudents(ctx context.Context, uid string, names []string) (dto.DeleteStudentsResponse, error)
}

type resultService struct {
	repo      repository.ResultRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	publisher EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResultService builds the result service. cache and publisher may be nil.
func NewResultService(repo repository.ResultRepository, cache *redis.Client, ttl time.Duration, publisher EventPublisher, logger zerolog.Logger) ResultService {
	return &resultService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  ttl,
		publisher: publisher,
		logger:    logger.With().Str("component", "result_service").Logger(),
		now:       time.Now,
	}
}

func (s *resultService) Save(ctx context.Context, input SaveResultInput) (models.KaranganResult, error) {
	analysis := input.Analysis
	result := models.KaranganResult{
		ID:                 models.ResultKey(analysis.Set, input.SubmissionID),
		UID:                input.UID,
		SubmissionID:       input.SubmissionID,
		Name:               analysis.Name,
		Set:                analysis.Set,
		Mode:               input.Mode,
		Essay:              analysis.Essay,
		AnnotatedEssay:     analysis.AnnotatedEssay,
		PictureDescription: analysis.PictureDescription,
		PictureURL:         input.PictureURL,
		ContentScore:       analysis.ContentScore,
		LanguageScore:      analysis.LanguageScore,
		TotalScore:         analysis.TotalScore,
		Errors:             analysis.Errors,
		Styles:             analysis.StyleMatches,
		SourceImages:       input.SourceImages,
		ContentComment:     analysis.Commentary.Content,
		LanguageComment:    analysis.Commentary.Language,
		OverallComment:     analysis.Commentary.Overall,
		Summary:            analysis.Commentary.Summary,
		Policy:             analysis.Policy,
		Timestamp:          s.now().UTC(),
	}

	if err := s.repo.Save(ctx, &result); err != nil {
		return models.KaranganResult{}, err
	}

	s.invalidate(ctx, input.UID)

	if s.publisher != nil {
		if err := s.publisher.PublishResultSaved(ctx, NewResultSavedEvent(result)); err != nil {
			s.logger.Warn().Err(err).Str("id", result.ID).Msg("failed to publish result event")
		}
	}

	return result, nil
}

func (s *resultService) ListBySet(ctx context.Context, uid, set string) ([]dto.ResultResponse, error) {
	results, err := s.repo.ListBySet(ctx, uid, set)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, dto.NewResultResponse(result))
	}
	return responses, nil
}

func (s *resultService) StudentProgress(ctx context.Context, uid, name string) ([]dto.ProgressEntry, error) {
	results, err := s.repo.ListByStudent(ctx, uid, name)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ProgressEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, dto.NewProgressEntry(result))
	}
	return entries, nil
}

func (s *resultService) Sets(ctx context.Context, uid string) (dto.SetsResponse, error) {
	sets, err := s.cachedList(ctx, setsCacheKey(uid), func() ([]string, error) {
		return s.repo.ListSets(ctx, uid)
	})
	if err != nil {
		return dto.SetsResponse{}, err
	}
	return dto.SetsResponse{Sets: sets}, nil
}

func (s *resultService) Students(ctx context.Context, uid string) (dto.StudentsResponse, error) {
	names, err := s.cachedList(ctx, studentsCacheKey(uid), func() ([]string, error) {
		return s.repo.ListStudents(ctx, uid)
	})
	if err != nil {
		return dto.StudentsResponse{}, err
	}
	return dto.StudentsResponse{Students: names}, nil
}

func (s *resultService) DeleteStudents(ctx context.Context, uid string, names []string) (dto.DeleteStudentsResponse, error) {
	deleted, err := s.repo.DeleteByStudents(ctx, uid, names)
	if err != nil {
		return dto.DeleteStudentsResponse{}, err
	}
	if deleted == 0 {
		return dto.DeleteStudentsResponse{}, ErrResultsNotFound
	}

	s.invalidate(ctx, uid)
	s.logger.Info().Str("uid", uid).Strs("names", names).Int64("deleted", deleted).Msg("student results deleted")

	return dto.DeleteStudentsResponse{Deleted: deleted}, nil
}

func (s *resultService) cachedList(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var values []string
			if unmarshalErr := json.Unmarshal([]byte(cached), &values); unmarshalErr == nil {
				s.logger.Debug().Str("key", key).Msg("result list cache hit")
				return values, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read result list cache")
		}
	}

	values, err := load()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}

	if s.cache != nil {
		payload, err := json.Marshal(values)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store result list cache")
			}
		}
	}

	return values, nil
}

func (s *resultService) invalidate(ctx context.Context, uid string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, setsCacheKey(uid), studentsCacheKey(uid)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("failed to invalidate result list cache")
	}
}

func setsCacheKey(uid string) string {
	return fmt.Sprintf("karangan:sets:%s", uid)
}

func studentsCacheKey(uid string) string {
	return fmt.Sprintf("karangan:students:%s", uid)
}
