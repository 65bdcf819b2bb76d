package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/middleware"
	"github.com/noah-isme/semak-karangan-api/internal/utils"
)

var errFileTooLarge = errors.New("file too large")

func uidFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		switch id := v.(type) {
		case string:
			return strings.TrimSpace(id)
		case fmt.Stringer:
			return strings.TrimSpace(id.String())
		}
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationDetails(err error) []utils.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make([]utils.FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details = append(details, utils.FieldError{Field: fieldErr.Field(), Rule: fieldErr.Tag()})
	}
	return details
}

// readFileHeaders loads every uploaded file into memory, rejecting any file
// larger than maxBytes.
func readFileHeaders(headers []*multipart.FileHeader, maxBytes int64) ([][]byte, error) {
	pages := make([][]byte, 0, len(headers))
	for _, header := range headers {
		if maxBytes > 0 && header.Size > maxBytes {
			return nil, fmt.Errorf("%w: %s", errFileTooLarge, header.Filename)
		}

		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, err
		}
		pages = append(pages, data)
	}
	return pages, nil
}
