package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/internal/utils"
	"github.com/noah-isme/semak-karangan-api/pkg/ocr"
)

// Messages returned to the client for the known failure modes.
const (
	msgEssayRequired      = "Karangan diperlukan."
	msgNoPupilsSelected   = "Tiada murid dipilih untuk semakan."
	msgNoImages           = "Tiada gambar dimuat naik."
	msgNoTextExtracted    = "Tiada teks dijumpai dalam gambar."
	msgUnsupportedImage   = "Fail bukan gambar yang disokong."
	msgInsufficientCredit = "Kredit tidak mencukupi untuk melakukan semakan ini."
	msgResultsNotFound    = "Tiada keputusan dijumpai."
	msgOCRUnavailable     = "Perkhidmatan OCR tidak tersedia."
	msgFileTooLarge       = "Saiz fail melebihi had."
	msgUnauthenticated    = "Pengguna tidak disahkan."
	msgInternal           = "Ralat dalaman pelayan."
	msgInvalidRequest     = "Permintaan tidak sah."
)

// handleError maps service sentinels onto HTTP statuses.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, msgInvalidRequest, validationDetails(err))
	case errors.Is(err, service.ErrEmptyEssay):
		return utils.SendError(c, fiber.StatusBadRequest, msgEssayRequired)
	case errors.Is(err, service.ErrNoPupilsSelected):
		return utils.SendError(c, fiber.StatusBadRequest, msgNoPupilsSelected)
	case errors.Is(err, service.ErrNoImages):
		return utils.SendError(c, fiber.StatusBadRequest, msgNoImages)
	case errors.Is(err, service.ErrNoTextExtracted):
		return utils.SendError(c, fiber.StatusBadRequest, msgNoTextExtracted)
	case errors.Is(err, ocr.ErrUnsupportedImage):
		return utils.SendError(c, fiber.StatusBadRequest, msgUnsupportedImage)
	case errors.Is(err, errFileTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, msgFileTooLarge)
	case errors.Is(err, service.ErrInsufficientCredits), errors.Is(err, service.ErrCreditAccountNotFound):
		return utils.SendError(c, fiber.StatusForbidden, msgInsufficientCredit)
	case errors.Is(err, service.ErrResultsNotFound):
		return utils.SendError(c, fiber.StatusNotFound, msgResultsNotFound)
	case errors.Is(err, service.ErrOCRUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, msgOCRUnavailable)
	default:
		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, msgInternal)
	}
}
