package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"love-dice/internal/apperrors"
	"love-dice/internal/metrics"
	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecapService settles a proposal and its bets in one transaction
type RecapService struct {
	repo *repository.Repository
	log  *zap.Logger
}

// NewRecapService creates a new RecapService
func NewRecapService(repo *repository.Repository, log *zap.Logger) *RecapService {
	return &RecapService{repo: repo, log: log}
}

// SubmitRecap validates every referenced bet and dare, settles the named
// bets, stores the recap and completes the proposal. Nothing is written
// unless every step succeeds. Bets not named stay open.
func (s *RecapService) SubmitRecap(
	ctx context.Context,
	actorID uuid.UUID,
	req *models.SubmitRecapRequest,
) (*models.RecapResult, error) {
	result := &models.RecapResult{}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		proposal, err := tx.LockProposal(ctx, req.ProposalID)
		if isNotFound(err) {
			return proposalNotFound(req.ProposalID)
		}
		if err != nil {
			return err
		}

		if proposal.TargetUserID != actorID {
			return apperrors.Forbidden(apperrors.CodeNotProposalTarget, "only the proposal target can submit the recap")
		}
		if proposal.Status != models.ProposalStatusAccepted {
			return apperrors.InvalidState(apperrors.CodeNotAccepted,
				"recap requires an accepted proposal, this one is %s", proposal.Status)
		}

		betIDs, err := uniqueBetIDs(req.BetResults)
		if err != nil {
			return err
		}
		if err := validateBets(ctx, tx, proposal.ID, betIDs); err != nil {
			return err
		}

		dareIDs := uniqueIDs(req.CompletedDares)
		if err := validateDares(ctx, tx, proposal.ID, dareIDs); err != nil {
			return err
		}

		now := time.Now()
		for _, br := range req.BetResults {
			if err := tx.SettleBet(ctx, br.BetID, br.Won, now); err != nil {
				if errors.Is(err, repository.ErrStaleStatus) {
					return apperrors.InvalidArgument(apperrors.CodeRecapBetSettled, "bet %s is already settled", br.BetID)
				}
				return err
			}
		}

		recap := &models.Recap{
			ProposalID:        proposal.ID,
			SubmittedByUserID: actorID,
			Happened:          req.Happened,
			Notes:             req.Notes,
			CompletedDareIDs:  dareIDs,
			BetResults:        append([]models.BetResult{}, req.BetResults...),
			SubmittedAt:       now,
		}
		if err := tx.CreateRecap(ctx, recap); err != nil {
			return err
		}

		if err := tx.TransitionProposalStatus(ctx, proposal.ID, models.ProposalStatusAccepted, models.ProposalStatusCompleted); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apperrors.InvalidState(apperrors.CodeInvalidTransition, "proposal changed concurrently")
			}
			return err
		}

		open, err := tx.CountOpenBets(ctx, proposal.ID)
		if err != nil {
			return err
		}

		result.Recap = recap
		result.SettledBets = len(req.BetResults)
		result.OpenBets = int(open)
		return nil
	})
	if err != nil {
		return nil, passthrough(err, "failed to submit recap")
	}

	metrics.RecapsSubmitted.WithLabelValues(strconv.FormatBool(req.Happened)).Inc()
	metrics.ProposalTransitions.WithLabelValues(string(models.ProposalStatusCompleted)).Inc()
	for _, br := range req.BetResults {
		metrics.BetsSettled.WithLabelValues(metrics.Result(br.Won)).Inc()
	}
	s.log.Info("recap submitted",
		zap.String("proposal_id", req.ProposalID.String()),
		zap.String("user_id", actorID.String()),
		zap.Bool("happened", req.Happened),
		zap.Int("settled_bets", result.SettledBets),
		zap.Int("open_bets", result.OpenBets),
	)

	return result, nil
}

// GetRecap returns the stored recap for a proposal
func (s *RecapService) GetRecap(ctx context.Context, proposalID uuid.UUID) (*models.Recap, error) {
	recap, err := s.repo.GetRecapByProposal(ctx, proposalID)
	if isNotFound(err) {
		return nil, apperrors.NotFound(apperrors.CodeRecapNotFound, "no recap for proposal %s", proposalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recap: %w", err)
	}
	return recap, nil
}

func uniqueBetIDs(results []models.BetResult) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(results))
	ids := make([]uuid.UUID, 0, len(results))
	for _, br := range results {
		if seen[br.BetID] {
			return nil, apperrors.InvalidArgument(apperrors.CodeRecapDuplicateBet, "bet %s appears more than once", br.BetID)
		}
		seen[br.BetID] = true
		ids = append(ids, br.BetID)
	}
	return ids, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func validateBets(ctx context.Context, tx *repository.Repository, proposalID uuid.UUID, ids []uuid.UUID) error {
	bets, err := tx.GetBetsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*models.Bet, len(bets))
	for _, b := range bets {
		byID[b.ID] = b
	}

	for _, id := range ids {
		bet, ok := byID[id]
		if !ok || bet.ProposalID != proposalID {
			return apperrors.InvalidArgument(apperrors.CodeRecapUnknownBet, "bet %s does not belong to this proposal", id)
		}
		if bet.Completed {
			return apperrors.InvalidArgument(apperrors.CodeRecapBetSettled, "bet %s is already settled", id)
		}
	}
	return nil
}

func validateDares(ctx context.Context, tx *repository.Repository, proposalID uuid.UUID, ids []uuid.UUID) error {
	rolls, err := tx.GetDareRollsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	owned := make(map[uuid.UUID]bool, len(rolls))
	for _, r := range rolls {
		if r.ProposalID == proposalID {
			owned[r.ID] = true
		}
	}

	for _, id := range ids {
		if !owned[id] {
			return apperrors.InvalidArgument(apperrors.CodeRecapUnknownDare, "dare %s does not belong to this proposal", id)
		}
	}
	return nil
}
