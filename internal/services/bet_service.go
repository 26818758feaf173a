package services

import (
	"context"
	"fmt"
	"strings"

	"love-dice/internal/apperrors"
	"love-dice/internal/metrics"
	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BetService manages wagers attached to proposals
type BetService struct {
	repo *repository.Repository
	log  *zap.Logger
}

// NewBetService creates a new BetService
func NewBetService(repo *repository.Repository, log *zap.Logger) *BetService {
	return &BetService{repo: repo, log: log}
}

// PlaceBet records an open bet. The proposal's status is checked inside
// the same transaction as the insert.
func (s *BetService) PlaceBet(ctx context.Context, creatorID uuid.UUID, req *models.PlaceBetRequest) (*models.Bet, error) {
	description := strings.TrimSpace(req.BetDescription)
	if description == "" {
		return nil, apperrors.InvalidArgument(apperrors.CodeValidationFailed, "bet_description is required")
	}

	var bet *models.Bet
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		proposal, err := tx.ShareLockProposal(ctx, req.ProposalID)
		if isNotFound(err) {
			return proposalNotFound(req.ProposalID)
		}
		if err != nil {
			return err
		}

		if !proposal.Status.AcceptsBets() {
			return apperrors.InvalidState(apperrors.CodeNotOpenForBets,
				"bets cannot be placed on a %s proposal", proposal.Status)
		}

		newBet := &models.Bet{
			ProposalID:       proposal.ID,
			BetCreatorUserID: creatorID,
			BetDescription:   description,
			Stake:            strings.TrimSpace(req.Stake),
			IsHidden:         req.IsHidden,
		}
		if err := tx.CreateBet(ctx, newBet); err != nil {
			return err
		}

		bet, err = tx.GetBetByID(ctx, newBet.ID)
		return err
	})
	if err != nil {
		return nil, passthrough(err, "failed to place bet")
	}

	metrics.BetsPlaced.WithLabelValues(metrics.Visibility(bet.IsHidden)).Inc()
	s.log.Info("bet placed",
		zap.String("bet_id", bet.ID.String()),
		zap.String("proposal_id", bet.ProposalID.String()),
		zap.String("user_id", creatorID.String()),
		zap.Bool("hidden", bet.IsHidden),
	)

	return bet, nil
}

// ListBets returns the bets on a proposal that the requester may see
func (s *BetService) ListBets(ctx context.Context, proposalID, requesterID uuid.UUID) ([]*models.Bet, error) {
	proposal, err := s.repo.GetProposalByID(ctx, proposalID)
	if isNotFound(err) {
		return nil, proposalNotFound(proposalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	bets, err := s.repo.ListBetsByProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	visible := make([]*models.Bet, 0, len(bets))
	for _, bet := range bets {
		if bet.VisibleTo(requesterID, proposal.Status) {
			visible = append(visible, bet)
		}
	}
	return visible, nil
}
