package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	awspkg "wheatstraw-backend/pkg/aws"

	"wheatstraw-backend/models"
	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type WebhookController struct {
	Stripe   services.StripeAPI
	Orders   *services.OrderService
	SNS      awspkg.SNSPublisher
	TopicArn string
	Logger   *zap.Logger
}

// StripeWebhook receives and dispatches Stripe webhook events.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		respondError(c, http.StatusBadRequest, "Invalid webhook")
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleSessionCompleted(c.Request.Context(), event)
	case "checkout.session.expired":
		wc.handleSessionExpired(c.Request.Context(), event)
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (wc *WebhookController) handleSessionCompleted(ctx context.Context, event stripe.Event) {
	sess, ok := wc.unmarshalSession(event)
	if !ok {
		return
	}

	order, svcErr := wc.Orders.MarkPaidBySession(ctx, sess.ID)
	if svcErr != nil {
		wc.Logger.Error("Failed to mark order paid",
			zap.String("session_id", sess.ID),
			zap.String("error", svcErr.Message),
		)
		return
	}

	wc.publishPaymentEvent(ctx, "payment_succeeded", order)
}

func (wc *WebhookController) handleSessionExpired(ctx context.Context, event stripe.Event) {
	sess, ok := wc.unmarshalSession(event)
	if !ok {
		return
	}

	order, svcErr := wc.Orders.CancelBySession(ctx, sess.ID)
	if svcErr != nil {
		wc.Logger.Error("Failed to cancel order for expired session",
			zap.String("session_id", sess.ID),
			zap.String("error", svcErr.Message),
		)
		return
	}

	wc.publishPaymentEvent(ctx, "payment_failed", order)
}

func (wc *WebhookController) unmarshalSession(event stripe.Event) (*stripe.CheckoutSession, bool) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return nil, false
	}
	if sess.ID == "" {
		wc.Logger.Warn("Checkout session event without session id", zap.String("event_id", event.ID))
		return nil, false
	}
	return &sess, true
}

// publishPaymentEvent sends the event to SNS, best-effort.
func (wc *WebhookController) publishPaymentEvent(ctx context.Context, eventType string, order *models.Order) {
	if wc.SNS == nil || wc.TopicArn == "" {
		return
	}

	payload, _ := json.Marshal(models.PaymentEvent{
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Amount:      order.TotalPrice,
		Currency:    order.Currency,
		Timestamp:   time.Now().UTC(),
	})

	if err := wc.SNS.Publish(ctx, wc.TopicArn, payload); err != nil {
		wc.Logger.Error("Failed to publish payment event to SNS",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	wc.Logger.Info("Payment event published to SNS",
		zap.String("event_type", eventType),
		zap.String("order_id", order.ID.String()),
	)
}
