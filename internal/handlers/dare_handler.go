package handlers

import (
	"net/http"

	"love-dice/internal/models"
	"love-dice/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DareHandler struct {
	dareService *services.DareService
	log         *zap.Logger
}

func NewDareHandler(dareService *services.DareService, log *zap.Logger) *DareHandler {
	return &DareHandler{
		dareService: dareService,
		log:         log,
	}
}

// RollDare rolls the die for an accepted proposal
// POST /api/dares/roll
func (h *DareHandler) RollDare(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.RollDareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	roll, err := h.dareService.RollDare(c.Request.Context(), req.ProposalID, userID, req.Gender)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, roll)
}

// ListDares returns every dare rolled for a proposal
// GET /api/dares/:proposal_id
func (h *DareHandler) ListDares(c *gin.Context) {
	proposalID, ok := uuidParam(c, "proposal_id")
	if !ok {
		return
	}

	rolls, err := h.dareService.ListDares(c.Request.Context(), proposalID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rolls)
}

// GetCatalog describes the loaded dare catalog
// GET /api/dares/catalog
func (h *DareHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.dareService.CatalogSummary())
}
