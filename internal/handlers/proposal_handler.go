package handlers

import (
	"context"
	"errors"
	"net/http"

	"love-dice/internal/apperrors"
	"love-dice/internal/models"
	"love-dice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProposalHandler struct {
	proposalService *services.ProposalService
	log             *zap.Logger
}

func NewProposalHandler(proposalService *services.ProposalService, log *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		log:             log,
	}
}

// CreateProposal creates a pending proposal
// POST /api/proposals
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), userID, &req)
	if err != nil {
		// an unknown target is a bad request, not a missing resource
		if errors.Is(err, &apperrors.Error{Code: apperrors.CodeTargetUserNotFound}) {
			respondErrorStatus(c, h.log, err, http.StatusBadRequest)
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProposalResponse(proposal))
}

// ListProposals lists proposals the caller takes part in
// GET /api/proposals
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListVisibleProposals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]models.ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		resp = append(resp, models.NewProposalResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// GetProposal returns one proposal
// GET /api/proposals/:id
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProposalResponse(proposal))
}

// AcceptProposal lets the target accept a pending proposal
// PUT /api/proposals/:id/accept
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	h.respond(c, h.proposalService.AcceptProposal)
}

// DeclineProposal lets the target decline a pending proposal
// PUT /api/proposals/:id/decline
func (h *ProposalHandler) DeclineProposal(c *gin.Context) {
	h.respond(c, h.proposalService.DeclineProposal)
}

func (h *ProposalHandler) respond(c *gin.Context, action func(ctx context.Context, id, actorID uuid.UUID) (*models.Proposal, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	proposal, err := action(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProposalResponse(proposal))
}
