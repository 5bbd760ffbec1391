package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

// AuthConfig holds token signing parameters.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// AuthService authenticates accounts and administers users.
type AuthService interface {
	Authenticate(ctx context.Context, req dto.LoginRequest, ip string) (dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest, ip string) (dto.UserResponse, error)
	Bootstrap(ctx context.Context, req dto.BootstrapRequest) (dto.UserResponse, error)
	Logout(ctx context.Context, actor Actor) error
	ListUsers(ctx context.Context, actor Actor, req dto.UserListRequest) (dto.UserListResponse, error)
	ListRecipients(ctx context.Context, actor Actor) ([]dto.UserSummary, error)
	UpdateUser(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	audit     AuditRecorder
	notifier  Notifier
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the identity service. notifier may be nil.
func NewAuthService(users repository.UserRepository, audit AuditRecorder, notifier Notifier, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:     users,
		audit:     audit,
		notifier:  notifier,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Authenticate(ctx context.Context, req dto.LoginRequest, ip string) (dto.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, validationError(err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.AuthResponse{}, unauthorizedf("invalid credentials")
		}
		return dto.AuthResponse{}, err
	}
	if !user.IsActive {
		return dto.AuthResponse{}, unauthorizedf("account is not active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, unauthorizedf("invalid credentials")
	}

	expiresAt := s.now().Add(s.cfg.TTL).UTC()
	token, err := s.issueToken(user, expiresAt)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.audit.RecordBestEffort(ctx, AuditEntry{
		Actor:  Actor{ID: user.ID, Role: user.Role, Name: user.Name, IP: ip},
		Action: models.AuditActionLogin,
	})

	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, ip string) (dto.UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Position = strings.TrimSpace(req.Position)
	req.Department = strings.TrimSpace(req.Department)
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Position:     req.Position,
		Department:   req.Department,
		Role:         models.RoleStaff,
		IsActive:     false,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.audit.RecordBestEffort(ctx, AuditEntry{
		Actor:  Actor{ID: user.ID, Role: user.Role, Name: user.Name, IP: ip},
		Action: models.AuditActionRegister,
	})
	s.logger.Info().Uint("user_id", user.ID).Msg("account registered, awaiting approval")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Bootstrap(ctx context.Context, req dto.BootstrapRequest) (dto.UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Position:     strings.TrimSpace(req.Position),
		Department:   strings.TrimSpace(req.Department),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if user.Position == "" {
		user.Position = "Administrator"
	}
	if user.Department == "" {
		user.Department = "Administration"
	}

	created, err := s.users.CreateIfEmpty(ctx, &user)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if !created {
		return dto.UserResponse{}, ErrAlreadyInitialized
	}

	s.logger.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("bootstrap administrator created")
	return dto.NewUserResponse(user), nil
}

func (s *authService) Logout(ctx context.Context, actor Actor) error {
	if !actor.Authenticated() {
		return unauthorizedf("authentication required")
	}
	s.audit.RecordBestEffort(ctx, AuditEntry{Actor: actor, Action: models.AuditActionLogout})
	return nil
}

func (s *authService) ListUsers(ctx context.Context, actor Actor, req dto.UserListRequest) (dto.UserListResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserListResponse{}, unauthorizedf("only administrators may list users")
	}

	filter := repository.UserFilter{
		Search:   strings.TrimSpace(req.Search),
		Active:   req.Active,
		Page:     maxInt(req.Page, 1),
		PageSize: req.PageSize,
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if raw := strings.TrimSpace(req.Role); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			return dto.UserListResponse{}, validationf("unknown role %q", req.Role)
		}
		filter.Role = role
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *authService) ListRecipients(ctx context.Context, actor Actor) ([]dto.UserSummary, error) {
	if !actor.Authenticated() {
		return nil, unauthorizedf("authentication required")
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserSummary, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserSummary(user))
	}
	return items, nil
}

func (s *authService) UpdateUser(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserResponse{}, unauthorizedf("only administrators may update users")
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}
	if req.Role == nil && req.IsActive == nil {
		return dto.UserResponse{}, validationf("nothing to update")
	}

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			return dto.UserResponse{}, validationf("unknown role %q", *req.Role)
		}
		updates["role"] = role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	updated, err := s.users.Update(ctx, id, updates)
	if err != nil {
		return dto.UserResponse{}, err
	}

	action := models.AuditActionUpdateUser
	approved := !current.IsActive && updated.IsActive
	if approved {
		action = models.AuditActionApproveUser
	}
	s.audit.RecordBestEffort(ctx, AuditEntry{
		Actor:  actor,
		Action: action,
		Metadata: map[string]interface{}{
			"user_id":   updated.ID,
			"role":      string(updated.Role),
			"is_active": updated.IsActive,
		},
	})

	if approved && s.notifier != nil {
		s.notifier.Notify(ctx, updated.ID, dto.NotificationTypeAccountApproved, "Your account has been approved", nil)
	}

	return dto.NewUserResponse(updated), nil
}

func (s *authService) issueToken(user models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"name": user.Name,
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
