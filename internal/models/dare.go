package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DareRoll is an immutable record of one roll against the dare catalog.
type DareRoll struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID     uuid.UUID `gorm:"type:uuid;not null;index" json:"proposal_id"`
	RolledByUserID uuid.UUID `gorm:"type:uuid;not null" json:"rolled_by_user_id"`
	GenderTag      string    `gorm:"size:32;not null" json:"gender_tag"`
	RollNumber     int       `gorm:"not null" json:"roll_number"`
	DareText       string    `gorm:"type:text;not null" json:"dare_text"`
	DateStage      string    `gorm:"size:64" json:"date_stage"`
	Severity       string    `gorm:"size:64" json:"severity"`
	CatalogVersion string    `gorm:"size:64" json:"catalog_version"`
	CreatedAt      time.Time `json:"created_at"`
}

func (DareRoll) TableName() string {
	return "dare_rolls"
}

func (d *DareRoll) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// RollDareRequest is the body of POST /api/dares/roll
type RollDareRequest struct {
	ProposalID uuid.UUID `json:"proposal_id" binding:"required"`
	Gender     string    `json:"gender" binding:"required"`
}

// CatalogSummary describes the loaded dare catalog.
type CatalogSummary struct {
	Version  string         `json:"version"`
	DieSides int            `json:"die_sides"`
	Genders  []string       `json:"genders"`
	Entries  map[string]int `json:"entries"`
}
