package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"love-dice/internal/apperrors"
	"love-dice/internal/auth"
	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication business logic
type AuthService struct {
	repo    *repository.Repository
	revoker auth.Revoker
	log     *zap.Logger
}

// NewAuthService creates a new AuthService. revoker may be nil.
func NewAuthService(repo *repository.Repository, revoker auth.Revoker, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, revoker: revoker, log: log}
}

// Signup registers a user and returns a token for it
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	usernameTaken, emailTaken, err := s.repo.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if usernameTaken {
		return nil, apperrors.InvalidArgument(apperrors.CodeUsernameTaken, "username already taken")
	}
	if emailTaken {
		return nil, apperrors.InvalidArgument(apperrors.CodeEmailTaken, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Gender:       req.Gender,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("username", username))
	return s.issue(user)
}

// Login checks credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	invalid := apperrors.Unauthenticated(apperrors.CodeInvalidCredentials, "invalid username or password")

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if isNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}

	return s.issue(user)
}

// Logout revokes the token id until the token would have expired
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoker == nil || tokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, tokenID, expiresAt)
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound(apperrors.CodeUserNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
