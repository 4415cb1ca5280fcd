package services

import (
	"context"
	"errors"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credits expiring within this window are reported as "expiring soon".
const CreditsExpirationDays = 31

type CreditStats struct {
	ExpiringCredits models.ExpiringCredits `json:"expiringCredits"`
}

type CreditService struct {
	creditRepo repository.CreditRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewCreditService(creditRepo repository.CreditRepository, logger *zap.Logger) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GetCreditStats returns the caller's expiring-soon balance and the earliest
// expiration among the qualifying transactions.
func (s *CreditService) GetCreditStats(ctx context.Context, userID uuid.UUID) (*CreditStats, *ServiceError) {
	expiring, err := s.creditRepo.ExpiringCredits(ctx, userID, s.now(), CreditsExpirationDays*24*time.Hour)
	if err != nil {
		s.logger.Error("Failed to fetch credit stats", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch credit statistics"}
	}
	return &CreditStats{ExpiringCredits: *expiring}, nil
}

// ConsumeCredits debits amount credits, draining soonest-expiring grants first.
func (s *CreditService) ConsumeCredits(ctx context.Context, userID uuid.UUID, amount int) *ServiceError {
	if amount < 1 {
		return &ServiceError{StatusCode: 400, Message: "Amount must be at least 1"}
	}
	if err := s.creditRepo.Consume(ctx, userID, amount, s.now()); err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return &ServiceError{StatusCode: 400, Message: "Insufficient credits"}
		}
		s.logger.Error("Failed to consume credits", zap.String("user_id", userID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to consume credits"}
	}
	return nil
}

// ListTransactions returns the caller's ledger entries, newest first.
func (s *CreditService) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.CreditTransaction, int64, *ServiceError) {
	txns, total, err := s.creditRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch credit transactions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch credit transactions"}
	}
	return txns, total, nil
}
