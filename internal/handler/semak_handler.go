package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/internal/utils"
)

const msgInvalidPupils = "Data murid tidak sah."

// SemakHandler exposes the essay checking endpoints.
type SemakHandler struct {
	service        service.SemakService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewSemakHandler builds the handler. maxUploadMB bounds each uploaded file.
func NewSemakHandler(service service.SemakService, maxUploadMB int, logger zerolog.Logger) *SemakHandler {
	return &SemakHandler{
		service:        service,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger.With().Str("component", "semak_handler").Logger(),
	}
}

// Register attaches the semak routes.
func (h *SemakHandler) Register(router fiber.Router) {
	router.Post("/manual", h.manual)
	router.Post("/ocr", h.ocr)
	router.Post("/ocr-analyse", h.ocrAnalyse)
	router.Post("/bulk", h.bulk)
}

func (h *SemakHandler) manual(c *fiber.Ctx) error {
	var payload dto.ManualSemakRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.AnalyzeManual(c.UserContext(), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "karangan analysed", result)
}

func (h *SemakHandler) ocr(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return handleError(c, h.logger, service.ErrNoImages)
	}

	pages, err := readFileHeaders([]*multipart.FileHeader{header}, h.maxUploadBytes)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	result, err := h.service.ExtractText(c.UserContext(), pages[0])
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "text extracted", result)
}

func (h *SemakHandler) ocrAnalyse(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return handleError(c, h.logger, service.ErrNoImages)
	}

	pages, err := readFileHeaders(form.File["file"], h.maxUploadBytes)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	input := dto.SubmissionInput{
		Name:               strings.TrimSpace(c.FormValue("nama")),
		Set:                strings.TrimSpace(c.FormValue("set")),
		PictureDescription: c.FormValue("pictureDescription"),
		PictureURL:         strings.TrimSpace(c.FormValue("pictureUrl")),
	}

	result, err := h.service.AnalyzeOCR(c.UserContext(), input, pages)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "karangan analysed", result)
}

func (h *SemakHandler) bulk(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPupils)
	}

	rawPupils := form.Value["pupils"]
	if len(rawPupils) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPupils)
	}

	var pupils []dto.BulkPupil
	if err := json.Unmarshal([]byte(rawPupils[0]), &pupils); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPupils)
	}

	files := make(map[string][][]byte)
	for field, headers := range form.File {
		if !strings.HasPrefix(field, service.BulkFileFieldPrefix) {
			continue
		}
		pages, err := readFileHeaders(headers, h.maxUploadBytes)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		files[field] = pages
	}

	result, err := h.service.Bulk(c.UserContext(), uid, pupils, files)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCredits) {
			requestLogger(h.logger, c).Warn().Str("uid", uid).Msg("bulk rejected for insufficient credits")
		}
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "bulk analysis completed", result)
}
