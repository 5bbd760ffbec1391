package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service service.AuditService
	exports service.ExportService
	logger  zerolog.Logger
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(service service.AuditService, exports service.ExportService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		exports: exports,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register wires audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Use(middleware.RequireRole(middleware.AuthRoleAdmin))
	router.Get("", h.list)
	router.Get("/export", h.export)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	query, err := parseAuditQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Query(requestContext(c), actorFromContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, result.Items, "audit logs retrieved", result.Pagination)
}

func (h *AuditHandler) export(c *fiber.Ctx) error {
	query, err := parseAuditQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.exports.AuditXLSX(requestContext(c), actorFromContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return sendFile(c, file)
}

func parseAuditQuery(c *fiber.Ctx) (dto.AuditQuery, error) {
	query := dto.AuditQuery{
		Action:  c.Query("action"),
		RefKind: c.Query("ref_kind"),
	}

	var err error
	if query.ActorID, err = parseQueryUint(c, "actor_id"); err != nil {
		return dto.AuditQuery{}, err
	}
	if query.DocumentID, err = parseQueryUint(c, "document_id"); err != nil {
		return dto.AuditQuery{}, err
	}
	if query.Page, err = parseQueryInt(c, "page"); err != nil {
		return dto.AuditQuery{}, err
	}
	if query.PageSize, err = parseQueryInt(c, "pageSize"); err != nil {
		return dto.AuditQuery{}, err
	}
	return query, nil
}
