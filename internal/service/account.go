package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AayushAcharya189/SportGear/internal/auth"
	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	apperrors "github.com/AayushAcharya189/SportGear/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// AccountService implements registration, login, and profile management.
type AccountService struct {
	repo   repository.UserRepository
	jwt    *auth.JWTManager
	logger *slog.Logger
}

// NewAccountService creates an account service.
func NewAccountService(repo repository.UserRepository, jwt *auth.JWTManager, logger *slog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		jwt:    jwt,
		logger: logger,
	}
}

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput holds the credentials for signing in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput holds the mutable profile fields. An empty password
// leaves the current one in place.
type UpdateProfileInput struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

// AuthResult is a user plus a fresh access token.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new customer account and signs the user in.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues an access token. The same error is
// returned for unknown emails and wrong passwords.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile retrieves the caller's profile.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's name and optionally the password.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for profile update: %w", err)
	}

	user.Name = input.Name
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))

	return user, nil
}
