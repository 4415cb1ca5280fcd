package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wheatstraw-backend/controllers"
	"wheatstraw-backend/models"
	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- mock order repository ----

type mockOrderRepo struct {
	bySession   map[string]*models.Order
	updateCalls []map[string]interface{}
}

func (m *mockOrderRepo) Create(_ context.Context, _ *models.Order) error { return nil }

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	for _, o := range m.bySession {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	if o, ok := m.bySession[sessionID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _ *models.OrderStatus, _, _ int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) SetSessionID(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (m *mockOrderRepo) UpdateFields(_ context.Context, _ uuid.UUID, updates map[string]interface{}) error {
	m.updateCalls = append(m.updateCalls, updates)
	return nil
}

func (m *mockOrderRepo) FindStuckPending(_ context.Context, _ time.Duration) ([]models.Order, error) {
	return nil, nil
}

// ---- stub stripe ----

type stubStripe struct {
	event    stripe.Event
	eventErr error
}

func (s *stubStripe) CreateCheckoutSession(_ *services.CheckoutSessionInput) (*services.CheckoutSessionResult, error) {
	return nil, errors.New("not used")
}

func (s *stubStripe) SessionPaymentState(_ string) (*services.SessionPaymentState, error) {
	return nil, errors.New("not used")
}

func (s *stubStripe) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return s.event, s.eventErr
}

// ---- mock SNS publisher ----

type mockSNS struct {
	publishedArn string
	publishedMsg []byte
}

func (m *mockSNS) Publish(_ context.Context, topicArn string, message []byte) error {
	m.publishedArn = topicArn
	m.publishedMsg = append([]byte(nil), message...)
	return nil
}

// ---- helpers ----

func sessionEvent(eventType, sessionID string) stripe.Event {
	raw, _ := json.Marshal(map[string]string{"id": sessionID})
	return stripe.Event{
		ID:   "evt_test_1",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func pendingOrderWithSession(sessionID string) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "WS1748779200000ABC123",
		UserID:      uuid.New(),
		Status:      models.StatusPending,
		TotalPrice:  10700,
		Currency:    "USD",
		SessionID:   &sessionID,
	}
}

func setupWebhookRouter(repo *mockOrderRepo, stripeStub *stubStripe, sns *mockSNS) *gin.Engine {
	logger, _ := zap.NewDevelopment()
	wc := &controllers.WebhookController{
		Stripe:   stripeStub,
		Orders:   services.NewOrderService(repo, logger),
		SNS:      sns,
		TopicArn: "arn:aws:sns:us-east-1:000000000000:payment-events",
		Logger:   logger,
	}

	r := gin.New()
	r.POST("/stripe/webhook", wc.StripeWebhook)
	return r
}

func postWebhook(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewBufferString("{}"))
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestStripeWebhook_SessionCompletedMarksPaid(t *testing.T) {
	order := pendingOrderWithSession("cs_test_abc")
	repo := &mockOrderRepo{bySession: map[string]*models.Order{"cs_test_abc": order}}
	sns := &mockSNS{}
	r := setupWebhookRouter(repo, &stubStripe{event: sessionEvent("checkout.session.completed", "cs_test_abc")}, sns)

	w := postWebhook(r)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Len(t, repo.updateCalls, 1)
	assert.Equal(t, models.StatusPaid, repo.updateCalls[0]["status"])
	assert.Contains(t, repo.updateCalls[0], "paid_at")

	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:payment-events", sns.publishedArn)
	var event models.PaymentEvent
	assert.NoError(t, json.Unmarshal(sns.publishedMsg, &event))
	assert.Equal(t, "payment_succeeded", event.Type)
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	assert.Equal(t, 10700, event.Amount)
}

func TestStripeWebhook_SessionExpiredCancels(t *testing.T) {
	order := pendingOrderWithSession("cs_test_exp")
	repo := &mockOrderRepo{bySession: map[string]*models.Order{"cs_test_exp": order}}
	sns := &mockSNS{}
	r := setupWebhookRouter(repo, &stubStripe{event: sessionEvent("checkout.session.expired", "cs_test_exp")}, sns)

	w := postWebhook(r)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Len(t, repo.updateCalls, 1)
	assert.Equal(t, models.StatusCancelled, repo.updateCalls[0]["status"])

	var event models.PaymentEvent
	assert.NoError(t, json.Unmarshal(sns.publishedMsg, &event))
	assert.Equal(t, "payment_failed", event.Type)
}

func TestStripeWebhook_DuplicateDeliveryIsIdempotent(t *testing.T) {
	order := pendingOrderWithSession("cs_test_dup")
	order.Status = models.StatusPaid
	repo := &mockOrderRepo{bySession: map[string]*models.Order{"cs_test_dup": order}}
	r := setupWebhookRouter(repo, &stubStripe{event: sessionEvent("checkout.session.completed", "cs_test_dup")}, &mockSNS{})

	w := postWebhook(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.updateCalls, "already-paid order must not be rewritten")
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	repo := &mockOrderRepo{}
	r := setupWebhookRouter(repo, &stubStripe{eventErr: errors.New("signature mismatch")}, &mockSNS{})

	w := postWebhook(r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.updateCalls)
}

func TestStripeWebhook_UnhandledEventTypeAccepted(t *testing.T) {
	repo := &mockOrderRepo{}
	r := setupWebhookRouter(repo, &stubStripe{event: sessionEvent("invoice.paid", "cs_x")}, &mockSNS{})

	w := postWebhook(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.updateCalls)
}
