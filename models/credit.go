package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditTransaction is a ledger entry granting (or consuming) credits.
// RemainingAmount counts down as credits are consumed; ExpirationDate is
// null for grants that never expire.
type CreditTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	Type            string     `gorm:"type:varchar(30);not null" json:"type"`
	Amount          int        `gorm:"not null" json:"amount"`
	RemainingAmount *int       `json:"remainingAmount,omitempty"`
	ExpirationDate  *time.Time `gorm:"index" json:"expirationDate,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ExpiringCredits is the aggregate returned by the credit stats read.
type ExpiringCredits struct {
	Amount             int        `json:"amount"`
	EarliestExpiration *time.Time `json:"earliestExpiration"`
}
