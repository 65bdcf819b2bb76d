package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/internal/utils"
)

// ResultHandler serves stored analyses of the authenticated submitter.
type ResultHandler struct {
	service   service.ResultService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResultHandler builds a result handler.
func NewResultHandler(service service.ResultService, validator *validator.Validate, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "result_handler").Logger(),
	}
}

// Register attaches the result routes.
func (h *ResultHandler) Register(router fiber.Router) {
	router.Get("", h.listBySet)
	router.Get("/sets", h.sets)
	router.Get("/students", h.students)
	router.Get("/student", h.studentProgress)
	router.Delete("/students", h.deleteStudents)
}

func (h *ResultHandler) listBySet(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	set := strings.TrimSpace(c.Query("set"))
	if set == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "set is required")
	}

	results, err := h.service.ListBySet(c.UserContext(), uid, set)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *ResultHandler) sets(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	sets, err := h.service.Sets(c.UserContext(), uid)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "sets retrieved", sets)
}

func (h *ResultHandler) students(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	students, err := h.service.Students(c.UserContext(), uid)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *ResultHandler) studentProgress(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	name := strings.TrimSpace(c.Query("nama"))
	if name == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "Nama pelajar diperlukan.")
	}

	entries, err := h.service.StudentProgress(c.UserContext(), uid, name)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "progress retrieved", entries)
}

func (h *ResultHandler) deleteStudents(c *fiber.Ctx) error {
	uid := uidFromContext(c)
	if uid == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, msgUnauthenticated)
	}

	var payload dto.DeleteStudentsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return handleError(c, h.logger, err)
	}

	names := make([]string, 0, len(payload.Names))
	for _, name := range payload.Names {
		names = append(names, strings.TrimSpace(name))
	}

	result, err := h.service.DeleteStudents(c.UserContext(), uid, names)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "students deleted", result)
}
