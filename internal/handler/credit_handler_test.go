package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/semak-karangan-api/internal/config"
	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/handler"
	"github.com/noah-isme/semak-karangan-api/internal/scoring"
	"github.com/noah-isme/semak-karangan-api/internal/service"
)

type stubCreditService struct {
	balance   int
	grantedTo string
	granted   int
	err       error
}

func (s *stubCreditService) Balance(_ context.Context, uid string) (dto.CreditBalanceResponse, error) {
	if s.err != nil {
		return dto.CreditBalanceResponse{}, s.err
	}
	return dto.CreditBalanceResponse{UID: uid, Balance: s.balance}, nil
}

func (s *stubCreditService) Deduct(context.Context, string, int) (int, error) { return 0, nil }

func (s *stubCreditService) Credit(_ context.Context, uid string, amount int) (int, error) {
	s.grantedTo, s.granted = uid, amount
	return s.balance + amount, nil
}

func setupCreditApp(svc service.CreditService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/credits", func(c *fiber.Ctx) error {
		c.Locals("user_id", "guru-1")
		return c.Next()
	})
	credits := handler.NewCreditHandler(svc, validator.New(), zerolog.New(io.Discard))
	credits.Register(group)
	credits.RegisterAdmin(group)
	return app
}

func TestCreditHandler_Balance(t *testing.T) {
	app := setupCreditApp(&stubCreditService{balance: 12})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.CreditBalanceResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "guru-1", response.Data.UID)
	require.Equal(t, 12, response.Data.Balance)
}

func TestCreditHandler_UnknownAccount(t *testing.T) {
	app := setupCreditApp(&stubCreditService{err: service.ErrCreditAccountNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreditHandler_Grant(t *testing.T) {
	svc := &stubCreditService{balance: 3}
	app := setupCreditApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/credits/grant", strings.NewReader(`{"uid":"guru-2","amount":10}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.CreditBalanceResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, 13, response.Data.Balance)
	require.Equal(t, "guru-2", svc.grantedTo)
	require.Equal(t, 10, svc.granted)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/credits/grant", strings.NewReader(`{"uid":"guru-2","amount":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{AppName: "Semak Karangan API", AppEnv: "test", AIProvider: "openai", ScoringPolicy: scoring.PolicyLibrary}
	app := fiber.New()
	app.Get("/health", handler.HealthCheck(cfg))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "ok", response.Data.Status)
	require.Equal(t, "test", response.Data.Environment)
	require.Equal(t, scoring.PolicyLibrary.Name, response.Data.ScoringPolicy)
}
