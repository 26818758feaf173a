package services

import (
	"context"
	"testing"
	"time"

	"love-dice/internal/apperrors"
	"love-dice/internal/auth"
	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestSignupAndLogin(t *testing.T) {
	auth.InitJWT("service-test-secret", time.Hour)
	repo := repository.NewRepository(setupTestDB(t))
	svc := NewAuthService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &models.SignupRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Gender:   models.GenderFemale,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEqual(t, "secret123", resp.User.PasswordHash)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Signup(ctx, &models.SignupRequest{Username: "alice", Email: "other@example.com", Password: "secret123", Gender: models.GenderFemale})
	assert.ErrorIs(t, err, &apperrors.Error{Code: apperrors.CodeUsernameTaken})

	_, err = svc.Signup(ctx, &models.SignupRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123", Gender: models.GenderFemale})
	assert.ErrorIs(t, err, &apperrors.Error{Code: apperrors.CodeEmailTaken})

	login, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	me, err := svc.GetUserByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	revoker := new(MockRevoker)
	svc := NewAuthService(repo, revoker, zaptest.NewLogger(t))
	exp := time.Now().Add(time.Hour)

	revoker.On("Revoke", mock.Anything, "jti-1", exp).Return(nil)
	require.NoError(t, svc.Logout(context.Background(), "jti-1", exp))
	revoker.AssertExpectations(t)

	noRevoker := NewAuthService(repo, nil, zaptest.NewLogger(t))
	assert.NoError(t, noRevoker.Logout(context.Background(), "jti-2", exp))
}
