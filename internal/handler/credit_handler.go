package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/internal/utils"
)

// CreditHandler reports the credit balance of the submitter.
type CreditHandler struct {
	service   service.CreditService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCreditHandler builds a credit handler.
func NewCreditHandler(service service.CreditService, validator *validator.Validate, logger zerolog.Logger) *CreditHandler {
	return &CreditHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "credit_handler").Logger(),
	}
}

// Register attaches the credit routes.
func (h *CreditHandler) Register(router fiber.Router) {
	router.Get("", h.balance)
}

// RegisterAdmin attaches the routes that move credits between accounts.
func (h *CreditHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/grant", h.grant)
}

func (h *CreditHandler) balance(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	balance, err := h.service.Balance(c.UserContext(), uid)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "credit balance retrieved", balance)
}

func (h *CreditHandler) grant(c *fiber.Ctx) error {
	var payload dto.CreditGrantRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return handleError(c, h.logger, err)
	}

	balance, err := h.service.Credit(c.UserContext(), payload.UID, payload.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreditAmount) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return handleError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().
		Str("granted_by", uidFromContext(c)).
		Str("uid", payload.UID).
		Int("amount", payload.Amount).
		Msg("credits granted")

	return utils.SendSuccess(c, "credits granted", dto.CreditBalanceResponse{UID: payload.UID, Balance: balance})
}
