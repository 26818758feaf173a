package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
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

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)
	userID := uuid.New()

	token, err := GenerateToken(userID, "alice")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(forged)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(expired)
	assert.Error(t, err)
}

func newTestRouter(t *testing.T, revoker Revoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(revoker, zaptest.NewLogger(t)), func(c *gin.Context) {
		id, _ := GetUserID(c)
		name, _ := GetUsername(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": name})
	})
	return router
}

func doGet(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)
	router := newTestRouter(t, nil)
	userID := uuid.New()
	token, err := GenerateToken(userID, "bob")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, tt.header)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			} else {
				assert.Equal(t, userID.String(), body["id"])
				assert.Equal(t, "bob", body["username"])
			}
		})
	}
}

func TestAuthMiddlewareRevocation(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)
	token, err := GenerateToken(uuid.New(), "carol")
	require.NoError(t, err)
	claims, err := ValidateToken(token)
	require.NoError(t, err)

	t.Run("revoked", func(t *testing.T) {
		revoker := new(MockRevoker)
		revoker.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil)

		w := doGet(newTestRouter(t, revoker), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		revoker.AssertExpectations(t)
	})

	t.Run("not revoked", func(t *testing.T) {
		revoker := new(MockRevoker)
		revoker.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)

		w := doGet(newTestRouter(t, revoker), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		revoker := new(MockRevoker)
		revoker.On("IsRevoked", mock.Anything, claims.ID).Return(false, errors.New("redis down"))

		w := doGet(newTestRouter(t, revoker), "Bearer "+token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	// nothing listens here; an expired token must not reach redis
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	r := NewRedisRevoker(client)
	assert.NoError(t, r.Revoke(context.Background(), "jti", time.Now().Add(-time.Second)))
}
