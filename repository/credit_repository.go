package repository

import (
	"context"
	"errors"
	"time"

	"wheatstraw-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientCredits is returned when a consume request exceeds the
// user's usable balance.
var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditRepository defines the interface for credit ledger access
type CreditRepository interface {
	ExpiringCredits(ctx context.Context, userID uuid.UUID, now time.Time, lookahead time.Duration) (*models.ExpiringCredits, error)
	Consume(ctx context.Context, userID uuid.UUID, amount int, now time.Time) error
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.CreditTransaction, int64, error)
}

type GormCreditRepository struct {
	db *gorm.DB
}

func NewGormCreditRepository(db *gorm.DB) CreditRepository {
	return &GormCreditRepository{db: db}
}

type expiringRow struct {
	Amount   *int       `gorm:"column:amount"`
	Earliest *time.Time `gorm:"column:earliest"`
}

// ExpiringCredits aggregates remaining amounts over the user's transactions
// whose expiration falls inside [now, now+lookahead]. Read-only.
func (r *GormCreditRepository) ExpiringCredits(ctx context.Context, userID uuid.UUID, now time.Time, lookahead time.Duration) (*models.ExpiringCredits, error) {
	var row expiringRow
	err := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Select("SUM(remaining_amount) AS amount, MIN(expiration_date) AS earliest").
		Where("user_id = ?", userID).
		Where("expiration_date IS NOT NULL").
		Where("remaining_amount IS NOT NULL").
		Where("remaining_amount >= ?", 1).
		Where("expiration_date >= ?", now).
		Where("expiration_date <= ?", now.Add(lookahead)).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &models.ExpiringCredits{EarliestExpiration: row.Earliest}
	if row.Amount != nil {
		stats.Amount = *row.Amount
	}
	return stats, nil
}

// Consume debits amount credits from the user's usable transactions,
// draining the soonest-expiring grants first, inside one transaction.
func (r *GormCreditRepository) Consume(ctx context.Context, userID uuid.UUID, amount int, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txns []models.CreditTransaction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Where("remaining_amount IS NOT NULL AND remaining_amount >= 1").
			Where("expiration_date IS NULL OR expiration_date >= ?", now).
			Order("expiration_date ASC").
			Find(&txns).Error; err != nil {
			return err
		}

		remaining := amount
		for _, t := range txns {
			if remaining == 0 {
				break
			}
			take := *t.RemainingAmount
			if take > remaining {
				take = remaining
			}
			newRemaining := *t.RemainingAmount - take
			if err := tx.Model(&models.CreditTransaction{}).
				Where("id = ?", t.ID).
				Update("remaining_amount", newRemaining).Error; err != nil {
				return err
			}
			remaining -= take
		}

		if remaining > 0 {
			return ErrInsufficientCredits
		}
		return nil
	})
}

func (r *GormCreditRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.CreditTransaction, int64, error) {
	var txns []models.CreditTransaction
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
