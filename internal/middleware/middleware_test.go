package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "rahsia-ujian"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func jwtApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("user_role").(string)
		return c.SendString(uid + "|" + role)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTProtectedStoresStringUID(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub":  "firebase-uid-123",
		"role": "Admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	status, body := get(t, jwtApp(), "/whoami", "Bearer "+token)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "firebase-uid-123|admin", body)
}

func TestJWTProtectedPrefersUIDClaim(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"uid": "guru-7", "sub": "other"})

	status, body := get(t, jwtApp(), "/whoami", "bearer "+token)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "guru-7|", body)
}

func TestJWTProtectedRejects(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "a", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("lain"), jwt.MapClaims{"sub": "a"})
	noSubject := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"})

	cases := map[string]string{
		"missing":    "",
		"not_bearer": "Basic abc",
		"empty":      "Bearer ",
		"expired":    "Bearer " + expired,
		"wrong_key":  "Bearer " + wrongKey,
		"no_subject": "Bearer " + noSubject,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, _ := get(t, jwtApp(), "/whoami", header)
			require.Equal(t, fiber.StatusUnauthorized, status)
		})
	}
}

func TestRequireRole(t *testing.T) {
	newApp := func(role interface{}) *fiber.App {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			if role != nil {
				c.Locals("user_role", role)
			}
			return c.Next()
		})
		app.Use(RequireRole(RoleAdmin))
		app.Get("/grant", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	status, _ := get(t, newApp("ADMIN"), "/grant", "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = get(t, newApp("guru"), "/grant", "")
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = get(t, newApp(nil), "/grant", "")
	require.Equal(t, fiber.StatusForbidden, status)
}

func TestRateLimitKeysByUID(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", c.Get("X-Test-UID"))
		return c.Next()
	})
	app.Use(RateLimit("semak", 2, time.Minute))
	app.Get("/semak", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	call := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/semak", nil)
		req.Header.Set("X-Test-UID", uid)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	require.Equal(t, fiber.StatusOK, call("guru-1"))
	require.Equal(t, fiber.StatusOK, call("guru-1"))
	require.Equal(t, fiber.StatusTooManyRequests, call("guru-1"))
	require.Equal(t, fiber.StatusOK, call("guru-2"))
}

func TestCorrelationIDIsEchoedOrMinted(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		if GetCorrelationID(c) != CorrelationIDFromContext(c.UserContext()) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "req-42", resp.Header.Get("X-Correlation-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, resp.Header.Get("X-Correlation-ID"), 36)
}
