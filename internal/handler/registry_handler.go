package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

// RegistryHandler serves one registry book: orders, memoranda, outgoing or incoming letters.
type RegistryHandler[Req any, Resp any] struct {
	service service.RegistryService[Req, Resp]
	exports service.ExportService
	kind    models.RefKind
	label   string
	parse   func(c *fiber.Ctx) (Req, error)
	logger  zerolog.Logger
}

// NewOrderHandler constructs the orders registry handler.
func NewOrderHandler(svc service.OrderService, exports service.ExportService, logger zerolog.Logger) *RegistryHandler[dto.CreateOrderRequest, dto.OrderResponse] {
	return newRegistryHandler(svc, exports, models.RefKindOrder, "order", parseOrderForm, logger)
}

// NewMemorandumHandler constructs the memoranda registry handler.
func NewMemorandumHandler(svc service.MemorandumService, exports service.ExportService, logger zerolog.Logger) *RegistryHandler[dto.CreateMemorandumRequest, dto.MemorandumResponse] {
	return newRegistryHandler(svc, exports, models.RefKindMemorandum, "memo", parseMemorandumForm, logger)
}

// NewLetterHandler constructs the outgoing letters registry handler.
func NewLetterHandler(svc service.LetterService, exports service.ExportService, logger zerolog.Logger) *RegistryHandler[dto.CreateLetterRequest, dto.LetterResponse] {
	return newRegistryHandler(svc, exports, models.RefKindLetter, "letter", parseLetterForm, logger)
}

// NewIncomingLetterHandler constructs the incoming letters registry handler.
func NewIncomingLetterHandler(svc service.IncomingLetterService, exports service.ExportService, logger zerolog.Logger) *RegistryHandler[dto.CreateIncomingLetterRequest, dto.IncomingLetterResponse] {
	return newRegistryHandler(svc, exports, models.RefKindIncomingLetter, "incoming letter", parseIncomingLetterForm, logger)
}

func newRegistryHandler[Req any, Resp any](
	svc service.RegistryService[Req, Resp],
	exports service.ExportService,
	kind models.RefKind,
	label string,
	parse func(c *fiber.Ctx) (Req, error),
	logger zerolog.Logger,
) *RegistryHandler[Req, Resp] {
	return &RegistryHandler[Req, Resp]{
		service: svc,
		exports: exports,
		kind:    kind,
		label:   label,
		parse:   parse,
		logger:  logger.With().Str("component", "registry_handler").Str("registry", string(kind)).Logger(),
	}
}

// Register wires the registry routes under the provided group.
func (h *RegistryHandler[Req, Resp]) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/export", middleware.WithAuth(h.export, middleware.AuthOptions{Role: middleware.AuthRoleSender}))
	router.Get("/:id", h.get)
	router.Delete("/:id", middleware.RequireRole(middleware.AuthRoleAdmin), h.delete)
}

func (h *RegistryHandler[Req, Resp]) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.List(requestContext(c), dto.RegistryQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, result.Items, h.label+"s retrieved", result.Pagination)
}

func (h *RegistryHandler[Req, Resp]) create(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	created, err := h.service.Create(requestContext(c), actorFromContext(c), req, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, h.label+" registered", created)
}

func (h *RegistryHandler[Req, Resp]) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, h.label+" retrieved", item)
}

func (h *RegistryHandler[Req, Resp]) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(requestContext(c), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, h.label+" deleted", nil)
}

func (h *RegistryHandler[Req, Resp]) export(c *fiber.Ctx) error {
	file, err := h.exports.RegistryXLSX(requestContext(c), actorFromContext(c), h.kind, strings.TrimSpace(c.Query("search")))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendFile(c, file)
}

func parseOrderForm(c *fiber.Ctx) (dto.CreateOrderRequest, error) {
	date, err := parseFormDate(c, "document_date", "documentDate")
	if err != nil {
		return dto.CreateOrderRequest{}, err
	}
	return dto.CreateOrderRequest{
		OrderNumber:  formValue(c, "order_number", "orderNumber"),
		Title:        formValue(c, "title"),
		Description:  c.FormValue("description"),
		DocumentDate: date,
		Storage:      formValue(c, "storage"),
	}, nil
}

func parseMemorandumForm(c *fiber.Ctx) (dto.CreateMemorandumRequest, error) {
	date, err := parseFormDate(c, "document_date", "documentDate")
	if err != nil {
		return dto.CreateMemorandumRequest{}, err
	}
	return dto.CreateMemorandumRequest{
		MemoNumber:   formValue(c, "memo_number", "memoNumber"),
		Title:        formValue(c, "title"),
		Description:  c.FormValue("description"),
		DocumentDate: date,
		Storage:      formValue(c, "storage"),
	}, nil
}

func parseLetterForm(c *fiber.Ctx) (dto.CreateLetterRequest, error) {
	date, err := parseFormDate(c, "date")
	if err != nil {
		return dto.CreateLetterRequest{}, err
	}
	return dto.CreateLetterRequest{
		LetterNumber: formValue(c, "letter_number", "letterNumber"),
		Title:        formValue(c, "title"),
		Date:         date,
		To:           formValue(c, "to"),
		Storage:      formValue(c, "storage"),
	}, nil
}

func parseIncomingLetterForm(c *fiber.Ctx) (dto.CreateIncomingLetterRequest, error) {
	date, err := parseFormDate(c, "date")
	if err != nil {
		return dto.CreateIncomingLetterRequest{}, err
	}
	received, err := parseFormDate(c, "received_date", "receivedDate")
	if err != nil {
		return dto.CreateIncomingLetterRequest{}, err
	}
	return dto.CreateIncomingLetterRequest{
		ReceiveNumber: formValue(c, "receive_number", "receiveNumber"),
		RefNumber:     formValue(c, "ref_number", "refNumber"),
		Title:         formValue(c, "title"),
		Date:          date,
		ReceivedDate:  received,
		From:          formValue(c, "from"),
		To:            formValue(c, "to"),
		Storage:       formValue(c, "storage"),
	}, nil
}

// parseFormDate accepts a calendar date or an RFC 3339 timestamp. A missing field yields the zero time.
func parseFormDate(c *fiber.Ctx, names ...string) (time.Time, error) {
	raw := formValue(c, names...)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Time{}, errors.New("invalid " + names[0])
}
