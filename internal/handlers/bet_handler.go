package handlers

import (
	"net/http"

	"love-dice/internal/models"
	"love-dice/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BetHandler struct {
	betService *services.BetService
	log        *zap.Logger
}

func NewBetHandler(betService *services.BetService, log *zap.Logger) *BetHandler {
	return &BetHandler{
		betService: betService,
		log:        log,
	}
}

// PlaceBet places a bet on a pending or accepted proposal
// POST /api/bets
func (h *BetHandler) PlaceBet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bet, err := h.betService.PlaceBet(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewBetResponse(bet))
}

// ListBets lists the bets on a proposal visible to the caller
// GET /api/bets/:proposal_id
func (h *BetHandler) ListBets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	proposalID, ok := uuidParam(c, "proposal_id")
	if !ok {
		return
	}

	bets, err := h.betService.ListBets(c.Request.Context(), proposalID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]models.BetResponse, 0, len(bets))
	for _, b := range bets {
		resp = append(resp, models.NewBetResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}
