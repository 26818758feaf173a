package handlers

import (
	"net/http"

	"love-dice/internal/models"
	"love-dice/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OutcomeHandler serves recap submission and lookup
type OutcomeHandler struct {
	recapService *services.RecapService
	log          *zap.Logger
}

func NewOutcomeHandler(recapService *services.RecapService, log *zap.Logger) *OutcomeHandler {
	return &OutcomeHandler{
		recapService: recapService,
		log:          log,
	}
}

// SubmitRecap settles a proposal
// POST /api/outcomes
func (h *OutcomeHandler) SubmitRecap(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.SubmitRecapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.recapService.SubmitRecap(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecap returns the stored recap
// GET /api/outcomes/:proposal_id
func (h *OutcomeHandler) GetRecap(c *gin.Context) {
	proposalID, ok := uuidParam(c, "proposal_id")
	if !ok {
		return
	}

	recap, err := h.recapService.GetRecap(c.Request.Context(), proposalID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, recap)
}
