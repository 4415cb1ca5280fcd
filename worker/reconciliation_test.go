package worker

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- mock order repository ----

type mockOrderRepo struct {
	stuck       []models.Order
	stuckErr    error
	orders      map[uuid.UUID]*models.Order
	updateCalls map[uuid.UUID]map[string]interface{}
}

func (m *mockOrderRepo) Create(_ context.Context, _ *models.Order) error { return nil }

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[orderID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindBySessionID(_ context.Context, _ string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _ *models.OrderStatus, _, _ int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) SetSessionID(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (m *mockOrderRepo) UpdateFields(_ context.Context, orderID uuid.UUID, updates map[string]interface{}) error {
	if m.updateCalls == nil {
		m.updateCalls = map[uuid.UUID]map[string]interface{}{}
	}
	m.updateCalls[orderID] = updates
	return nil
}

func (m *mockOrderRepo) FindStuckPending(_ context.Context, _ time.Duration) ([]models.Order, error) {
	return m.stuck, m.stuckErr
}

// ---- stub stripe ----

type stubStripe struct {
	states map[string]*services.SessionPaymentState
	errs   map[string]error
}

func (s *stubStripe) CreateCheckoutSession(_ *services.CheckoutSessionInput) (*services.CheckoutSessionResult, error) {
	return nil, errors.New("not used")
}

func (s *stubStripe) SessionPaymentState(sessionID string) (*services.SessionPaymentState, error) {
	if err, ok := s.errs[sessionID]; ok {
		return nil, err
	}
	return s.states[sessionID], nil
}

func (s *stubStripe) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return stripe.Event{}, errors.New("not used")
}

// ---- helpers ----

func stuckOrder(sessionID string) models.Order {
	o := models.Order{
		ID:     uuid.New(),
		Status: models.StatusPending,
	}
	if sessionID != "" {
		o.SessionID = &sessionID
	}
	return o
}

func newWorker(repo *mockOrderRepo, stripeStub *stubStripe) *ReconciliationWorker {
	logger, _ := zap.NewDevelopment()
	orders := services.NewOrderService(repo, logger)
	return NewReconciliationWorker(repo, orders, stripeStub, time.Minute, 30*time.Minute, logger)
}

// ---- tests ----

func TestProcess_CancelsOrderWithoutSession(t *testing.T) {
	order := stuckOrder("")
	repo := &mockOrderRepo{
		stuck:  []models.Order{order},
		orders: map[uuid.UUID]*models.Order{order.ID: &order},
	}
	w := newWorker(repo, &stubStripe{})

	assert.NoError(t, w.Process(context.Background()))
	assert.Equal(t, models.StatusCancelled, repo.updateCalls[order.ID]["status"])
}

func TestProcess_MarksPaidSessionPaid(t *testing.T) {
	order := stuckOrder("cs_paid")
	repo := &mockOrderRepo{
		stuck:  []models.Order{order},
		orders: map[uuid.UUID]*models.Order{order.ID: &order},
	}
	stripeStub := &stubStripe{states: map[string]*services.SessionPaymentState{
		"cs_paid": {Paid: true},
	}}
	w := newWorker(repo, stripeStub)

	assert.NoError(t, w.Process(context.Background()))
	assert.Equal(t, models.StatusPaid, repo.updateCalls[order.ID]["status"])
	assert.Contains(t, repo.updateCalls[order.ID], "paid_at")
}

func TestProcess_CancelsExpiredSession(t *testing.T) {
	order := stuckOrder("cs_expired")
	repo := &mockOrderRepo{
		stuck:  []models.Order{order},
		orders: map[uuid.UUID]*models.Order{order.ID: &order},
	}
	stripeStub := &stubStripe{states: map[string]*services.SessionPaymentState{
		"cs_expired": {Expired: true},
	}}
	w := newWorker(repo, stripeStub)

	assert.NoError(t, w.Process(context.Background()))
	assert.Equal(t, models.StatusCancelled, repo.updateCalls[order.ID]["status"])
}

func TestProcess_LeavesOpenSessionAlone(t *testing.T) {
	order := stuckOrder("cs_open")
	repo := &mockOrderRepo{
		stuck:  []models.Order{order},
		orders: map[uuid.UUID]*models.Order{order.ID: &order},
	}
	stripeStub := &stubStripe{states: map[string]*services.SessionPaymentState{
		"cs_open": {},
	}}
	w := newWorker(repo, stripeStub)

	assert.NoError(t, w.Process(context.Background()))
	assert.Empty(t, repo.updateCalls)
}

func TestProcess_SkipsOrderOnStripeError(t *testing.T) {
	order := stuckOrder("cs_flaky")
	repo := &mockOrderRepo{
		stuck:  []models.Order{order},
		orders: map[uuid.UUID]*models.Order{order.ID: &order},
	}
	stripeStub := &stubStripe{errs: map[string]error{
		"cs_flaky": errors.New("stripe timeout"),
	}}
	w := newWorker(repo, stripeStub)

	assert.NoError(t, w.Process(context.Background()))
	assert.Empty(t, repo.updateCalls)
}

func TestProcess_PropagatesRepoError(t *testing.T) {
	repo := &mockOrderRepo{stuckErr: errors.New("db down")}
	w := newWorker(repo, &stubStripe{})

	assert.Error(t, w.Process(context.Background()))
}

func TestProcess_NoStuckOrders(t *testing.T) {
	repo := &mockOrderRepo{}
	w := newWorker(repo, &stubStripe{})

	assert.NoError(t, w.Process(context.Background()))
	assert.Empty(t, repo.updateCalls)
}
