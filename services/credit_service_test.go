package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// ---- mock credit repository ----

type mockCreditRepo struct {
	expiring      *models.ExpiringCredits
	expiringErr   error
	lastNow       time.Time
	lastLookahead time.Duration
	consumeErr    error
	consumed      []int
	txns          []models.CreditTransaction
	txnsTotal     int64
	txnsErr       error
}

func (m *mockCreditRepo) ExpiringCredits(_ context.Context, _ uuid.UUID, now time.Time, lookahead time.Duration) (*models.ExpiringCredits, error) {
	m.lastNow = now
	m.lastLookahead = lookahead
	return m.expiring, m.expiringErr
}

func (m *mockCreditRepo) Consume(_ context.Context, _ uuid.UUID, amount int, _ time.Time) error {
	if m.consumeErr != nil {
		return m.consumeErr
	}
	m.consumed = append(m.consumed, amount)
	return nil
}

func (m *mockCreditRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]models.CreditTransaction, int64, error) {
	return m.txns, m.txnsTotal, m.txnsErr
}

func newCreditService(repo *mockCreditRepo) *CreditService {
	logger, _ := zap.NewDevelopment()
	return NewCreditService(repo, logger)
}

// ---- tests ----

func TestGetCreditStats_UsesLookaheadWindow(t *testing.T) {
	earliest := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	repo := &mockCreditRepo{expiring: &models.ExpiringCredits{Amount: 10, EarliestExpiration: &earliest}}
	svc := newCreditService(repo)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stats, svcErr := svc.GetCreditStats(context.Background(), uuid.New())
	assert.Nil(t, svcErr)
	assert.Equal(t, 10, stats.ExpiringCredits.Amount)
	assert.Equal(t, earliest, *stats.ExpiringCredits.EarliestExpiration)

	assert.Equal(t, now, repo.lastNow)
	assert.Equal(t, 31*24*time.Hour, repo.lastLookahead)
}

func TestGetCreditStats_NoExpiringCredits(t *testing.T) {
	repo := &mockCreditRepo{expiring: &models.ExpiringCredits{}}
	svc := newCreditService(repo)

	stats, svcErr := svc.GetCreditStats(context.Background(), uuid.New())
	assert.Nil(t, svcErr)
	assert.Equal(t, 0, stats.ExpiringCredits.Amount)
	assert.Nil(t, stats.ExpiringCredits.EarliestExpiration)
}

func TestGetCreditStats_RepoError(t *testing.T) {
	repo := &mockCreditRepo{expiringErr: errors.New("connection reset")}
	svc := newCreditService(repo)

	_, svcErr := svc.GetCreditStats(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
}

func TestConsumeCredits_RejectsNonPositiveAmount(t *testing.T) {
	repo := &mockCreditRepo{}
	svc := newCreditService(repo)

	for _, amount := range []int{0, -5} {
		svcErr := svc.ConsumeCredits(context.Background(), uuid.New(), amount)
		assert.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
	}
	assert.Empty(t, repo.consumed)
}

func TestConsumeCredits_Insufficient(t *testing.T) {
	repo := &mockCreditRepo{consumeErr: repository.ErrInsufficientCredits}
	svc := newCreditService(repo)

	svcErr := svc.ConsumeCredits(context.Background(), uuid.New(), 5)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, "Insufficient credits", svcErr.Message)
}

func TestConsumeCredits_Success(t *testing.T) {
	repo := &mockCreditRepo{}
	svc := newCreditService(repo)

	svcErr := svc.ConsumeCredits(context.Background(), uuid.New(), 3)
	assert.Nil(t, svcErr)
	assert.Equal(t, []int{3}, repo.consumed)
}

func TestListTransactions_Success(t *testing.T) {
	repo := &mockCreditRepo{
		txns:      []models.CreditTransaction{{ID: uuid.New(), Amount: 10}},
		txnsTotal: 1,
	}
	svc := newCreditService(repo)

	txns, total, svcErr := svc.ListTransactions(context.Background(), uuid.New(), 1, 10)
	assert.Nil(t, svcErr)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(1), total)
}
