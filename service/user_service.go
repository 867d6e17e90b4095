// service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dev-mohitbeniwal/keystone/auth"
	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/model"
	"github.com/dev-mohitbeniwal/keystone/util"
)

const (
	EventUserRegistered = "user.registered"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
)

// UserRepository is the persistent user directory.
type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	GetUserByAccount(ctx context.Context, account string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
	UpdateUserRole(ctx context.Context, userID, role string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// IUserService defines the interface for user and session operations
type IUserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ResolveCaller(ctx context.Context, token string) (*model.LoginUser, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type UserServiceOption func(*UserService)

// WithAdminAccounts makes the listed accounts administrators on registration.
func WithAdminAccounts(accounts ...string) UserServiceOption {
	return func(s *UserService) {
		for _, a := range accounts {
			if a = strings.TrimSpace(a); a != "" {
				s.adminAccounts[a] = struct{}{}
			}
		}
	}
}

func WithHashCost(cost int) UserServiceOption {
	return func(s *UserService) { s.hashCost = cost }
}

// UserService handles registration, sessions and the user directory
type UserService struct {
	repo            UserRepository
	tokens          *auth.TokenManager
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	adminAccounts   map[string]struct{}
	hashCost        int
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(
	repo UserRepository,
	tokens *auth.TokenManager,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	opts ...UserServiceOption,
) *UserService {
	service := &UserService{
		repo:            repo,
		tokens:          tokens,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		adminAccounts:   map[string]struct{}{},
		hashCost:        bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(service)
	}

	// Set up event subscriptions
	eventBus.Subscribe(EventUserRegistered, service.handleUserRegistered)
	eventBus.Subscribe(EventUserUpdated, service.handleUserUpdated)
	eventBus.Subscribe(EventUserDeleted, service.handleUserDeleted)

	return service
}

func (s *UserService) handleUserRegistered(ctx context.Context, event util.Event) error {
	user := event.Payload.(model.User)
	return s.notificationSvc.NotifyUserChange(ctx, "registered", user)
}

func (s *UserService) handleUserUpdated(ctx context.Context, event util.Event) error {
	user := event.Payload.(model.User)
	logger.Info("User updated event received", zap.String("userID", user.ID))
	return s.notificationSvc.NotifyUserChange(ctx, "role_changed", user)
}

func (s *UserService) handleUserDeleted(ctx context.Context, event util.Event) error {
	userID := event.Payload.(string)
	logger.Info("User deleted event received", zap.String("userID", userID))
	return s.notificationSvc.NotifyUserChange(ctx, "deleted", model.User{ID: userID})
}

// Register creates an account with the user role, or the admin role for
// configured administrator accounts.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := s.validationUtil.ValidateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Account:      req.Account,
		Name:         req.Name,
		Role:         model.UserRole.Value,
		PasswordHash: string(hash),
	}
	if user.Name == "" {
		user.Name = req.Account
	}
	if _, ok := s.adminAccounts[req.Account]; ok {
		user.Role = model.AdminRole.Value
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", zap.String("userID", created.ID), zap.String("role", created.Role))
	s.eventBus.Publish(ctx, EventUserRegistered, *created)
	return created, nil
}

// Login verifies the credentials, stores a session and returns its token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validationUtil.ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByAccount(ctx, req.Account)
	if errors.Is(err, keystone_errors.ErrUserNotFound) {
		return nil, keystone_errors.ErrInvalidCredential
	} else if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed", zap.String("account", req.Account))
		return nil, keystone_errors.ErrInvalidCredential
	}

	sessionID := uuid.New().String()
	token, expiresAt, err := s.tokens.Issue(sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	session := &model.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: expiresAt.Add(-s.tokens.TTL()),
		ExpiresAt: expiresAt,
	}
	if err := s.cacheService.SetSession(ctx, session); err != nil {
		return nil, err
	}
	if err := s.cacheService.FillUser(ctx, user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", user.ID))
	}

	logger.Info("User logged in", zap.String("userID", user.ID), zap.String("sessionID", sessionID))
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user.ToLoginUser()}, nil
}

// Logout ends the session referenced by token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %w", keystone_errors.ErrNotLoggedIn, err)
	}
	return s.cacheService.DeleteSession(ctx, claims.SessionID)
}

// ResolveCaller maps a session token to the caller it belongs to. The role is
// read from the current user record, not from the token.
func (s *UserService) ResolveCaller(ctx context.Context, token string) (*model.LoginUser, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.cacheService.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, keystone_errors.ErrSessionNotFound
	}
	if session.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: session belongs to another user", keystone_errors.ErrInvalidToken)
	}

	user, err := s.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return user.ToLoginUser(), nil
}

// GetUser reads through the shared cache.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	cached, err := s.cacheService.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.FillUser(ctx, user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	if err := s.validationUtil.ValidatePagination(limit, offset); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx, limit, offset)
}

// UpdateRole changes a user's role. The cached copy is replaced before
// returning, so the next request is gated with the new role.
func (s *UserService) UpdateRole(ctx context.Context, userID, role string) (*model.User, error) {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, updated); err != nil {
		logger.Warn("Failed to refresh cached user, evicting", zap.Error(err), zap.String("userID", userID))
		if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
			logger.Error("Failed to evict cached user", zap.Error(err), zap.String("userID", userID))
			return nil, err
		}
	}

	logger.Info("User role updated", zap.String("userID", userID), zap.String("role", role))
	s.eventBus.Publish(ctx, EventUserUpdated, *updated)
	return updated, nil
}

// DeleteUser removes the user and evicts the cached copy before returning.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Error("Failed to evict cached user", zap.Error(err), zap.String("userID", userID))
		return err
	}

	logger.Info("User deleted", zap.String("userID", userID))
	s.eventBus.Publish(ctx, EventUserDeleted, userID)
	return nil
}
