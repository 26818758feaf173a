package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bet is a free-text wager on a proposal's outcome. Won stays nil until
// the bet is completed by a recap.
type Bet struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"proposal_id"`
	BetCreatorUserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"bet_creator_user_id"`
	BetDescription   string     `gorm:"type:text;not null" json:"bet_description"`
	Stake            string     `gorm:"size:255" json:"stake"`
	IsHidden         bool       `gorm:"not null;default:false" json:"is_hidden"`
	Won              *bool      `json:"won"`
	Completed        bool       `gorm:"not null;default:false;index" json:"completed"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	Creator *User `gorm:"foreignKey:BetCreatorUserID" json:"-"`
}

func (Bet) TableName() string {
	return "bets"
}

func (b *Bet) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// VisibleTo applies the sealed-bet rule: hidden bets are shown only to
// their creator until the proposal is completed.
func (b *Bet) VisibleTo(requester uuid.UUID, proposalStatus ProposalStatus) bool {
	if !b.IsHidden {
		return true
	}
	return b.BetCreatorUserID == requester || proposalStatus == ProposalStatusCompleted
}

// PlaceBetRequest is the body of POST /api/bets
type PlaceBetRequest struct {
	ProposalID     uuid.UUID `json:"proposal_id" binding:"required"`
	BetDescription string    `json:"bet_description" binding:"required"`
	Stake          string    `json:"stake" binding:"max=255"`
	IsHidden       bool      `json:"is_hidden"`
}

type BetResponse struct {
	Bet
	BetCreatorUsername string `json:"bet_creator_username"`
}

func NewBetResponse(b *Bet) BetResponse {
	resp := BetResponse{Bet: *b}
	if b.Creator != nil {
		resp.BetCreatorUsername = b.Creator.Username
	}
	return resp
}
