package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

// DailyLogHandler serves the caller's own work diary.
type DailyLogHandler struct {
	service service.DailyLogService
	logger  zerolog.Logger
}

// NewDailyLogHandler constructs a daily log handler.
func NewDailyLogHandler(service service.DailyLogService, logger zerolog.Logger) *DailyLogHandler {
	return &DailyLogHandler{
		service: service,
		logger:  logger.With().Str("component", "daily_log_handler").Logger(),
	}
}

// Register wires daily log routes.
func (h *DailyLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *DailyLogHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.List(requestContext(c), actorFromContext(c), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "daily logs retrieved", entries)
}

func (h *DailyLogHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateDailyLogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.Create(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "daily log saved", entry)
}
