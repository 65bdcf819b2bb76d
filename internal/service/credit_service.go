package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/models"
	"github.com/noah-isme/semak-karangan-api/internal/observability"
	"github.com/noah-isme/semak-karangan-api/internal/repository"
)

var (
	// ErrInsufficientCredits is returned when a batch costs more than the balance.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrCreditAccountNotFound is returned when the submitter has no credit account.
	ErrCreditAccountNotFound = errors.New("credit account not found")
	// ErrInvalidCreditAmount is returned for negative deductions or non-positive grants.
	ErrInvalidCreditAmount = errors.New("invalid credit amount")
)

// CreditService wraps the credit ledger.
type CreditService interface {
	Balance(ctx context.Context, uid string) (dto.CreditBalanceResponse, error)
	Deduct(ctx context.Context, uid string, amount int) (int, error)
	Credit(ctx context.Context, uid string, amount int) (int, error)
}

type creditService struct {
	repo   repository.CreditRepository
	logger zerolog.Logger
}

// NewCreditService constructs the credit ledger service.
func NewCreditService(repo repository.CreditRepository, logger zerolog.Logger) CreditService {
	return &creditService{
		repo:   repo,
		logger: logger.With().Str("component", "credit_service").Logger(),
	}
}

func (s *creditService) Balance(ctx context.Context, uid string) (dto.CreditBalanceResponse, error) {
	balance, err := s.repo.Balance(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CreditBalanceResponse{}, ErrCreditAccountNotFound
		}
		return dto.CreditBalanceResponse{}, err
	}

	return dto.CreditBalanceResponse{UID: uid, Balance: balance}, nil
}

// Deduct charges amount atomically and returns the new balance.
func (s *creditService) Deduct(ctx context.Context, uid string, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrInvalidCreditAmount
	}

	balance, err := s.repo.Deduct(ctx, uid, amount, models.CreditReasonBulkAnalysis)
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		s.logger.Warn().Str("uid", uid).Int("amount", amount).Msg("insufficient credits")
		return 0, ErrInsufficientCredits
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, ErrCreditAccountNotFound
	case err != nil:
		return 0, err
	}

	observability.CreditsDeducted().Add(float64(amount))
	s.logger.Info().Str("uid", uid).Int("amount", amount).Int("balance", balance).Msg("credits deducted")

	return balance, nil
}

// Credit adds amount and returns the new balance.
func (s *creditService) Credit(ctx context.Context, uid string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidCreditAmount
	}

	balance, err := s.repo.Credit(ctx, uid, amount, models.CreditReasonGrant)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Str("uid", uid).Int("amount", amount).Int("balance", balance).Msg("credits granted")
	return balance, nil
}
