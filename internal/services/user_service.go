package services

import (
	"context"
	"fmt"

	"love-dice/internal/models"
	"love-dice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// GetBettorStats summarizes the user's bets. WinRate is a percentage of
// settled bets, rounded to two places.
func (s *UserService) GetBettorStats(ctx context.Context, userID uuid.UUID) (*models.BettorStats, error) {
	total, open, won, lost, err := s.repo.GetBettorStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bettor stats: %w", err)
	}

	winRate := decimal.Zero
	if settled := won + lost; settled > 0 {
		winRate = decimal.NewFromInt(won).
			Div(decimal.NewFromInt(settled)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &models.BettorStats{
		UserID:    userID,
		TotalBets: total,
		OpenBets:  open,
		Won:       won,
		Lost:      lost,
		WinRate:   winRate,
	}, nil
}
