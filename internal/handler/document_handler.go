package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

var errInvalidRecipients = errors.New("recipients must be a JSON array or a comma separated list of user ids")

// DocumentHandler exposes document distribution endpoints.
type DocumentHandler struct {
	distribution service.DistributionService
	exports      service.ExportService
	logger       zerolog.Logger
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(distribution service.DistributionService, exports service.ExportService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		distribution: distribution,
		exports:      exports,
		logger:       logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register wires document routes under the provided group.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("", middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleSender}))
	router.Get("/sent", h.sent)
	router.Get("/:id", h.detail)
	router.Get("/:id/stats", h.stats)
	router.Get("/:id/report", h.report)
	router.Delete("/:id", middleware.RequireRole(middleware.AuthRoleAdmin), h.delete)
}

func (h *DocumentHandler) create(c *fiber.Ctx) error {
	recipientIDs, err := parseRecipientIDs(formValue(c, "recipients", "recipient_ids"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.CreateDocumentRequest{
		DocNumber:    formValue(c, "docNumber", "doc_number"),
		Title:        formValue(c, "title"),
		Description:  c.FormValue("description"),
		RecipientIDs: recipientIDs,
		Storage:      formValue(c, "storage"),
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	doc, err := h.distribution.Create(requestContext(c), actorFromContext(c), req, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document sent", doc)
}

func (h *DocumentHandler) sent(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	docs, err := h.distribution.ListSent(requestContext(c), actorFromContext(c), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "sent documents retrieved", docs)
}

func (h *DocumentHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.distribution.Detail(requestContext(c), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "document retrieved", detail)
}

func (h *DocumentHandler) stats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.distribution.Stats(requestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "document stats retrieved", stats)
}

func (h *DocumentHandler) report(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.exports.DistributionPDF(requestContext(c), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return sendFile(c, file)
}

func (h *DocumentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.distribution.Delete(requestContext(c), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "document deleted", nil)
}

// parseRecipientIDs accepts `[1,2]`, `["1","2"]` or `1, 2`.
func parseRecipientIDs(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		var values []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, errInvalidRecipients
		}
		for _, value := range values {
			parts = append(parts, strings.Trim(string(value), `" `))
		}
	} else {
		parts = splitAndTrim(raw)
	}

	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, errInvalidRecipients
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
