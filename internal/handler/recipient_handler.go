package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

// RecipientHandler serves the addressee side of a distribution: the inbox and status updates.
type RecipientHandler struct {
	distribution service.DistributionService
	logger       zerolog.Logger
}

// NewRecipientHandler constructs a recipient handler.
func NewRecipientHandler(distribution service.DistributionService, logger zerolog.Logger) *RecipientHandler {
	return &RecipientHandler{
		distribution: distribution,
		logger:       logger.With().Str("component", "recipient_handler").Logger(),
	}
}

// Register wires inbox and recipient routes under the API root group.
func (h *RecipientHandler) Register(router fiber.Router) {
	router.Get("/inbox", h.inbox)
	router.Post("/recipients/:id/status", h.advance)
}

func (h *RecipientHandler) inbox(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	items, err := h.distribution.ListInbox(requestContext(c), actorFromContext(c), dto.InboxQuery{
		Status: strings.TrimSpace(c.Query("status")),
		Limit:  limit,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "inbox retrieved", items)
}

func (h *RecipientHandler) advance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AdvanceRecipientRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	recipient, err := h.distribution.Advance(requestContext(c), actorFromContext(c), id, payload.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "recipient status updated", recipient)
}
