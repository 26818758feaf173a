package repository

import (
	"context"
	"errors"
	"time"

	"love-dice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleStatus is returned by compare-and-set updates that matched no row.
var ErrStaleStatus = errors.New("row changed concurrently")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn inside a single database transaction. The Repository
// passed to fn is bound to that transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// lock adds a row lock on postgres. SQLite serializes writers on its own
// and does not understand FOR UPDATE.
func (r *Repository) lock(q *gorm.DB, strength string) *gorm.DB {
	if r.db.Dialector.Name() != "postgres" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: strength})
}

// CreateUser inserts a user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername looks a user up by exact username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UsernameOrEmailTaken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	var users []models.User
	err = r.db.WithContext(ctx).
		Select("username", "email").
		Where("username = ? OR email = ?", username, email).
		Find(&users).Error
	if err != nil {
		return false, false, err
	}
	for _, u := range users {
		if u.Username == username {
			usernameTaken = true
		}
		if u.Email == email {
			emailTaken = true
		}
	}
	return usernameTaken, emailTaken, nil
}

// CreateProposal inserts a proposal
func (r *Repository) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetProposalByID loads a proposal with its participants.
func (r *Repository) GetProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Proposer").
		Preload("Target").
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// LockProposal reads a proposal under SELECT ... FOR UPDATE.
func (r *Repository) LockProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return r.lockedProposal(ctx, id, clause.LockingStrengthUpdate)
}

// ShareLockProposal reads a proposal under SELECT ... FOR SHARE so a
// concurrent status change waits for the caller's insert to commit.
func (r *Repository) ShareLockProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return r.lockedProposal(ctx, id, clause.LockingStrengthShare)
}

func (r *Repository) lockedProposal(ctx context.Context, id uuid.UUID, strength string) (*models.Proposal, error) {
	var proposal models.Proposal
	q := r.lock(r.db.WithContext(ctx), strength)
	if err := q.Where("id = ?", id).First(&proposal).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

// TransitionProposalStatus moves a proposal from one status to another
// with a compare-and-set on the current status.
func (r *Repository) TransitionProposalStatus(
	ctx context.Context,
	id uuid.UUID,
	from models.ProposalStatus,
	to models.ProposalStatus,
) error {
	result := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return ErrStaleStatus
	}
	return nil
}

// ListProposalsForUser returns proposals where the user is proposer or target, newest first
func (r *Repository) ListProposalsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Proposer").
		Preload("Target").
		Where("proposer_user_id = ? OR target_user_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

// CreateBet inserts a bet
func (r *Repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Create(bet).Error
}

func (r *Repository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&bet).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

// ListBetsByProposal returns every bet on a proposal, oldest first
func (r *Repository) ListBetsByProposal(ctx context.Context, proposalID uuid.UUID) ([]*models.Bet, error) {
	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Order("id").
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

// GetBetsByIDs loads the bets with the given ids regardless of proposal.
func (r *Repository) GetBetsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Bet, error) {
	var bets []*models.Bet
	if len(ids) == 0 {
		return bets, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&bets).Error; err != nil {
		return nil, err
	}
	return bets, nil
}

// SettleBet completes an open bet. It fails with ErrStaleStatus when the
// bet was already completed.
func (r *Repository) SettleBet(ctx context.Context, id uuid.UUID, won bool, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed":  true,
			"won":        won,
			"settled_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return ErrStaleStatus
	}
	return nil
}

// CountOpenBets counts uncompleted bets on a proposal
func (r *Repository) CountOpenBets(ctx context.Context, proposalID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("proposal_id = ? AND completed = ?", proposalID, false).
		Count(&count).Error
	return count, err
}

// GetBettorStats aggregates a user's bets.
func (r *Repository) GetBettorStats(ctx context.Context, userID uuid.UUID) (total, open, won, lost int64, err error) {
	var row struct {
		Total int64
		Open  int64
		Won   int64
		Lost  int64
	}
	err = r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN completed = ? THEN 1 ELSE 0 END), 0) AS open,
			COALESCE(SUM(CASE WHEN completed = ? AND won = ? THEN 1 ELSE 0 END), 0) AS won,
			COALESCE(SUM(CASE WHEN completed = ? AND won = ? THEN 1 ELSE 0 END), 0) AS lost`,
			false, true, true, true, false).
		Where("bet_creator_user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return row.Total, row.Open, row.Won, row.Lost, nil
}

// CreateDareRoll inserts a dare roll
func (r *Repository) CreateDareRoll(ctx context.Context, roll *models.DareRoll) error {
	return r.db.WithContext(ctx).Create(roll).Error
}

// ListDareRollsByProposal returns a proposal's rolls, oldest first
func (r *Repository) ListDareRollsByProposal(ctx context.Context, proposalID uuid.UUID) ([]*models.DareRoll, error) {
	var rolls []*models.DareRoll
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Order("id").
		Find(&rolls).Error
	if err != nil {
		return nil, err
	}
	return rolls, nil
}

func (r *Repository) CountDareRolls(ctx context.Context, proposalID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DareRoll{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error
	return count, err
}

// GetDareRollsByIDs loads the dare rolls with the given ids regardless of proposal.
func (r *Repository) GetDareRollsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.DareRoll, error) {
	var rolls []*models.DareRoll
	if len(ids) == 0 {
		return rolls, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rolls).Error; err != nil {
		return nil, err
	}
	return rolls, nil
}

// CreateRecap inserts the recap row. A second insert for the same
// proposal fails on the primary key.
func (r *Repository) CreateRecap(ctx context.Context, recap *models.Recap) error {
	return r.db.WithContext(ctx).Create(recap).Error
}

func (r *Repository) GetRecapByProposal(ctx context.Context, proposalID uuid.UUID) (*models.Recap, error) {
	var recap models.Recap
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).First(&recap).Error; err != nil {
		return nil, err
	}
	return &recap, nil
}
