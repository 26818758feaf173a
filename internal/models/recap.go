package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BetResult struct {
	BetID uuid.UUID `json:"bet_id" binding:"required"`
	Won   bool      `json:"won"`
}

// Recap is the single settlement record for a proposal.
type Recap struct {
	ProposalID        uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"proposal_id"`
	SubmittedByUserID uuid.UUID                      `gorm:"type:uuid;not null" json:"submitted_by_user_id"`
	Happened          bool                           `gorm:"not null" json:"happened"`
	Notes             string                         `gorm:"type:text" json:"notes"`
	CompletedDareIDs  datatypes.JSONSlice[uuid.UUID] `json:"completed_dare_ids"`
	BetResults        datatypes.JSONSlice[BetResult] `json:"bet_results"`
	SubmittedAt       time.Time                      `gorm:"not null" json:"submitted_at"`
}

func (Recap) TableName() string {
	return "recaps"
}

// SubmitRecapRequest is the body of POST /api/outcomes
type SubmitRecapRequest struct {
	ProposalID     uuid.UUID   `json:"proposal_id" binding:"required"`
	Happened       bool        `json:"happened"`
	Notes          string      `json:"notes"`
	CompletedDares []uuid.UUID `json:"completed_dares"`
	BetResults     []BetResult `json:"bet_results" binding:"dive"`
}

// RecapResult reports what a recap settled.
type RecapResult struct {
	Recap       *Recap `json:"recap"`
	SettledBets int    `json:"settled_bets"`
	OpenBets    int    `json:"open_bets"`
}
