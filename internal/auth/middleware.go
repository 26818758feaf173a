package auth

import (
	"net/http"
	"strings"
	"time"

	"love-dice/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxUserID       = "user_id"
	ctxUsername     = "username"
	ctxTokenID      = "token_id"
	ctxTokenExpires = "token_expires_at"
)

// AuthMiddleware validates bearer tokens and protects routes. revoker may be nil.
func AuthMiddleware(revoker Revoker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			abort(c, apperrors.Unauthenticated(apperrors.CodeMissingToken, "Authorization header required"))
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, apperrors.Unauthenticated(apperrors.CodeInvalidToken, "Invalid authorization header format. Expected: Bearer <token>"))
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			log.Debug("token validation failed", zap.Error(err))
			abort(c, apperrors.Unauthenticated(apperrors.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error("revocation lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			if revoked {
				abort(c, apperrors.Unauthenticated(apperrors.CodeInvalidToken, "Token has been revoked"))
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExpires, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.Error) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
		"error": err.Message,
		"code":  err.Code,
	})
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUsername retrieves the username from the context
func GetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUsername)
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// GetTokenID returns the jti and expiry of the token that authenticated the request.
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	id, ok := c.Get(ctxTokenID)
	if !ok {
		return "", time.Time{}, false
	}
	tokenID, ok := id.(string)
	if !ok || tokenID == "" {
		return "", time.Time{}, false
	}
	expiresAt, _ := c.Get(ctxTokenExpires)
	exp, _ := expiresAt.(time.Time)
	return tokenID, exp, true
}
