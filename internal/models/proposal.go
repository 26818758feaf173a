package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusDeclined  ProposalStatus = "declined"
	ProposalStatusCompleted ProposalStatus = "completed"
)

var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusPending:  {ProposalStatusAccepted, ProposalStatusDeclined},
	ProposalStatusAccepted: {ProposalStatusCompleted},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	for _, allowed := range proposalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal is true for declined and completed proposals.
func (s ProposalStatus) IsTerminal() bool {
	return len(proposalTransitions[s]) == 0
}

// AcceptsBets is true while the outcome is still open.
func (s ProposalStatus) AcceptsBets() bool {
	return s == ProposalStatusPending || s == ProposalStatusAccepted
}

// Proposal is a suggested date between a target user and a named match.
type Proposal struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProposerUserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"proposer_user_id"`
	TargetUserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"target_user_id"`
	ProposedMatchName string         `gorm:"size:255;not null" json:"proposed_match_name"`
	Stakes            string         `gorm:"type:text" json:"stakes"`
	Status            ProposalStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Proposer *User `gorm:"foreignKey:ProposerUserID" json:"-"`
	Target   *User `gorm:"foreignKey:TargetUserID" json:"-"`
}

func (Proposal) TableName() string {
	return "proposals"
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsParticipant reports whether userID is the proposer or the target.
func (p *Proposal) IsParticipant(userID uuid.UUID) bool {
	return p.ProposerUserID == userID || p.TargetUserID == userID
}

// CreateProposalRequest is the body of POST /api/proposals
type CreateProposalRequest struct {
	TargetUsername    string `json:"target_username" binding:"required"`
	ProposedMatchName string `json:"proposed_match_name" binding:"required,max=255"`
	Stakes            string `json:"stakes"`
}

// ProposalResponse adds display names to a proposal.
type ProposalResponse struct {
	Proposal
	ProposerUsername string `json:"proposer_username"`
	TargetUsername   string `json:"target_username"`
}

func NewProposalResponse(p *Proposal) ProposalResponse {
	resp := ProposalResponse{Proposal: *p}
	if p.Proposer != nil {
		resp.ProposerUsername = p.Proposer.Username
	}
	if p.Target != nil {
		resp.TargetUsername = p.Target.Username
	}
	return resp
}
