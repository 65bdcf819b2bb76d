package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/models"
)

// ResultSavedSubject is the subject and channel results are announced on.
const ResultSavedSubject = "karangan.result.saved"

// ResultSavedEvent announces a persisted analysis to downstream consumers.
type ResultSavedEvent struct {
	ID            string    `json:"id"`
	UID           string    `json:"uid"`
	Name          string    `json:"nama"`
	Set           string    `json:"set"`
	ContentScore  int       `json:"markahIsi"`
	LanguageScore int       `json:"markahBahasa"`
	TotalScore    int       `json:"markahKeseluruhan"`
	Policy        string    `json:"policy"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewResultSavedEvent builds the event for a stored result.
func NewResultSavedEvent(result models.KaranganResult) ResultSavedEvent {
	return ResultSavedEvent{
		ID:            result.ID,
		UID:           result.UID,
		Name:          result.Name,
		Set:           result.Set,
		ContentScore:  result.ContentScore,
		LanguageScore: result.LanguageScore,
		TotalScore:    result.TotalScore,
		Policy:        result.Policy,
		Timestamp:     result.Timestamp,
	}
}

// EventPublisher fans result events out to the configured brokers.
type EventPublisher interface {
	PublishResultSaved(ctx context.Context, event ResultSavedEvent) error
}

type brokerPublisher struct {
	nats    *nats.Conn
	redis   *redis.Client
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher publishes over NATS and Redis pub/sub. Either connection may be nil.
func NewEventPublisher(natsConn *nats.Conn, redisClient *redis.Client, logger zerolog.Logger) EventPublisher {
	return &brokerPublisher{
		nats:    natsConn,
		redis:   redisClient,
		subject: ResultSavedSubject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *brokerPublisher) PublishResultSaved(ctx context.Context, event ResultSavedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.nats != nil {
		if err := p.nats.Publish(p.subject, payload); err != nil {
			return err
		}
	}

	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.subject, payload).Err(); err != nil {
			return err
		}
	}

	p.logger.Debug().Str("id", event.ID).Msg("result event published")
	return nil
}
