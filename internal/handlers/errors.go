package handlers

import (
	"net/http"

	"love-dice/internal/apperrors"
	"love-dice/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError writes a classified error with its status. Unclassified
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	respondErrorStatus(c, log, err, 0)
}

func respondErrorStatus(c *gin.Context, log *zap.Logger, err error, status int) {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if status == 0 {
		status = apperrors.HTTPStatus(appErr)
	}
	c.JSON(status, gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"code":  apperrors.CodeValidationFailed,
	})
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
			"code":  apperrors.CodeMissingToken,
		})
	}
	return userID, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid " + name,
			"code":  apperrors.CodeValidationFailed,
		})
		return uuid.Nil, false
	}
	return id, true
}
