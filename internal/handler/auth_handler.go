package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/service"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

// AuthHandler exposes login, self-registration and first-run bootstrap.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated routes. The limiter guards login only.
func (h *AuthHandler) RegisterPublic(router fiber.Router, loginLimiter fiber.Handler) {
	if loginLimiter == nil {
		loginLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Post("/login", loginLimiter, h.login)
	router.Post("/register", h.register)
	router.Post("/bootstrap", h.bootstrap)
}

// RegisterProtected wires routes that require a verified token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.Email = strings.TrimSpace(payload.Email)

	result, err := h.service.Authenticate(requestContext(c), payload, c.IP())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(requestContext(c), payload, c.IP())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration received, awaiting approval", user)
}

func (h *AuthHandler) bootstrap(c *fiber.Ctx) error {
	var payload dto.BootstrapRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Bootstrap(requestContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "administrator created", user)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(requestContext(c), actorFromContext(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "logged out", nil)
}
