package services

import (
	"context"
	"errors"
	"fmt"

	"love-dice/internal/apperrors"
	"love-dice/internal/catalog"
	"love-dice/internal/metrics"
	"love-dice/internal/models"
	"love-dice/internal/random"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DareService rolls dares for accepted proposals
type DareService struct {
	repo     *repository.Repository
	catalog  *catalog.Catalog
	source   random.Source
	maxRolls int
	log      *zap.Logger
}

// NewDareService creates a new DareService. maxRolls of zero means unlimited.
func NewDareService(
	repo *repository.Repository,
	cat *catalog.Catalog,
	source random.Source,
	maxRolls int,
	log *zap.Logger,
) *DareService {
	return &DareService{
		repo:     repo,
		catalog:  cat,
		source:   source,
		maxRolls: maxRolls,
		log:      log,
	}
}

// RollDare draws a die value and a dare from the matching pool and
// records it against the proposal.
func (s *DareService) RollDare(ctx context.Context, proposalID, actorID uuid.UUID, gender string) (*models.DareRoll, error) {
	gender = catalog.NormalizeGender(gender)
	if gender == "" {
		return nil, apperrors.InvalidArgument(apperrors.CodeValidationFailed, "gender is required")
	}

	var roll *models.DareRoll
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		proposal, err := tx.LockProposal(ctx, proposalID)
		if isNotFound(err) {
			return proposalNotFound(proposalID)
		}
		if err != nil {
			return err
		}

		if !proposal.IsParticipant(actorID) {
			return apperrors.Forbidden(apperrors.CodeNotParticipant, "only the proposer or target can roll dares")
		}
		if proposal.Status != models.ProposalStatusAccepted {
			return apperrors.InvalidState(apperrors.CodeNotAccepted,
				"dares can only be rolled on an accepted proposal, this one is %s", proposal.Status)
		}

		if s.maxRolls > 0 {
			count, err := tx.CountDareRolls(ctx, proposalID)
			if err != nil {
				return err
			}
			if count >= int64(s.maxRolls) {
				return apperrors.InvalidState(apperrors.CodeDareRollLimit,
					"proposal already has %d dare rolls", count)
			}
		}

		draw, err := s.catalog.Roll(s.source, gender)
		if errors.Is(err, catalog.ErrNoDare) {
			metrics.DarePoolMisses.Inc()
			return apperrors.NotFound(apperrors.CodeDarePoolEmpty,
				"no dare available for roll %d and gender %s", draw.RollNumber, gender)
		}
		if err != nil {
			return err
		}

		roll = &models.DareRoll{
			ProposalID:     proposalID,
			RolledByUserID: actorID,
			GenderTag:      gender,
			RollNumber:     draw.RollNumber,
			DareText:       draw.Entry.DareText,
			DateStage:      draw.Entry.DateStage,
			Severity:       draw.Entry.Severity,
			CatalogVersion: s.catalog.Version(),
		}
		return tx.CreateDareRoll(ctx, roll)
	})
	if err != nil {
		return nil, passthrough(err, "failed to roll dare")
	}

	metrics.DaresRolled.WithLabelValues(gender).Inc()
	s.log.Info("dare rolled",
		zap.String("proposal_id", proposalID.String()),
		zap.String("user_id", actorID.String()),
		zap.Int("roll_number", roll.RollNumber),
		zap.String("gender", gender),
	)

	return roll, nil
}

// ListDares returns every dare rolled for a proposal
func (s *DareService) ListDares(ctx context.Context, proposalID uuid.UUID) ([]*models.DareRoll, error) {
	if _, err := s.repo.GetProposalByID(ctx, proposalID); err != nil {
		if isNotFound(err) {
			return nil, proposalNotFound(proposalID)
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	rolls, err := s.repo.ListDareRollsByProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dares: %w", err)
	}
	return rolls, nil
}

// CatalogSummary describes the loaded catalog
func (s *DareService) CatalogSummary() *models.CatalogSummary {
	return &models.CatalogSummary{
		Version:  s.catalog.Version(),
		DieSides: s.catalog.DieSides(),
		Genders:  s.catalog.Genders(),
		Entries:  s.catalog.CountByGender(),
	}
}
