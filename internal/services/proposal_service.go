package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"love-dice/internal/apperrors"
	"love-dice/internal/metrics"
	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProposalService owns the proposal state machine
type ProposalService struct {
	repo *repository.Repository
	log  *zap.Logger
}

// NewProposalService creates a new ProposalService
func NewProposalService(repo *repository.Repository, log *zap.Logger) *ProposalService {
	return &ProposalService{repo: repo, log: log}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func proposalNotFound(id uuid.UUID) error {
	return apperrors.NotFound(apperrors.CodeProposalNotFound, "proposal %s not found", id)
}

// passthrough returns classified errors as they are and wraps the rest.
func passthrough(err error, op string) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateProposal resolves the target by username and stores a pending proposal
func (s *ProposalService) CreateProposal(
	ctx context.Context,
	proposerID uuid.UUID,
	req *models.CreateProposalRequest,
) (*models.Proposal, error) {
	targetName := strings.TrimSpace(req.TargetUsername)
	matchName := strings.TrimSpace(req.ProposedMatchName)
	if targetName == "" || matchName == "" {
		return nil, apperrors.InvalidArgument(apperrors.CodeValidationFailed, "target_username and proposed_match_name are required")
	}

	target, err := s.repo.GetUserByUsername(ctx, targetName)
	if isNotFound(err) {
		return nil, apperrors.NotFound(apperrors.CodeTargetUserNotFound, "user %q not found", targetName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target user: %w", err)
	}

	if target.ID == proposerID {
		return nil, apperrors.InvalidArgument(apperrors.CodeSelfProposal, "you cannot propose a date for yourself")
	}

	proposal := &models.Proposal{
		ProposerUserID:    proposerID,
		TargetUserID:      target.ID,
		ProposedMatchName: matchName,
		Stakes:            strings.TrimSpace(req.Stakes),
		Status:            models.ProposalStatusPending,
	}
	if err := s.repo.CreateProposal(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	metrics.ProposalsCreated.Inc()
	s.log.Info("proposal created",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("proposer_id", proposerID.String()),
		zap.String("target_id", target.ID.String()),
	)

	return s.GetProposal(ctx, proposal.ID)
}

// GetProposal loads a proposal with participant names
func (s *ProposalService) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.repo.GetProposalByID(ctx, id)
	if isNotFound(err) {
		return nil, proposalNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

// ListVisibleProposals returns proposals where the user is proposer or target
func (s *ProposalService) ListVisibleProposals(ctx context.Context, userID uuid.UUID) ([]*models.Proposal, error) {
	proposals, err := s.repo.ListProposalsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// AcceptProposal moves a pending proposal to accepted. Only the target may do this.
func (s *ProposalService) AcceptProposal(ctx context.Context, id, actorID uuid.UUID) (*models.Proposal, error) {
	return s.respond(ctx, id, actorID, models.ProposalStatusAccepted)
}

// DeclineProposal moves a pending proposal to declined. Only the target may do this.
func (s *ProposalService) DeclineProposal(ctx context.Context, id, actorID uuid.UUID) (*models.Proposal, error) {
	return s.respond(ctx, id, actorID, models.ProposalStatusDeclined)
}

func (s *ProposalService) respond(
	ctx context.Context,
	id uuid.UUID,
	actorID uuid.UUID,
	to models.ProposalStatus,
) (*models.Proposal, error) {
	var updated *models.Proposal

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		proposal, err := tx.LockProposal(ctx, id)
		if isNotFound(err) {
			return proposalNotFound(id)
		}
		if err != nil {
			return err
		}

		if proposal.TargetUserID != actorID {
			return apperrors.Forbidden(apperrors.CodeNotProposalTarget, "only the proposal target can respond to it")
		}
		if !proposal.Status.CanTransitionTo(to) {
			return apperrors.InvalidState(apperrors.CodeInvalidTransition,
				"proposal is %s and cannot be %s", proposal.Status, to)
		}

		if err := tx.TransitionProposalStatus(ctx, id, models.ProposalStatusPending, to); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apperrors.InvalidState(apperrors.CodeInvalidTransition, "proposal changed concurrently")
			}
			return err
		}

		updated, err = tx.GetProposalByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, passthrough(err, "failed to update proposal")
	}

	metrics.ProposalTransitions.WithLabelValues(string(to)).Inc()
	s.log.Info("proposal status changed",
		zap.String("proposal_id", id.String()),
		zap.String("user_id", actorID.String()),
		zap.String("status", string(to)),
	)

	return updated, nil
}
