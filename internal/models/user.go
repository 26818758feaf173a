package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User is an identity known to the engine. Proposals, bets and dares
// reference users by ID only.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Gender       Gender    `gorm:"size:16;not null" json:"gender"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SignupRequest registers a new user
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Gender   Gender `json:"gender" binding:"required,oneof=male female"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// BettorStats summarizes a user's settled and open bets.
type BettorStats struct {
	UserID    uuid.UUID       `json:"user_id"`
	TotalBets int64           `json:"total_bets"`
	OpenBets  int64           `json:"open_bets"`
	Won       int64           `json:"won"`
	Lost      int64           `json:"lost"`
	WinRate   decimal.Decimal `json:"win_rate"`
}
