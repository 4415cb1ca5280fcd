package services

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutSessionInput describes the single-line-item hosted session the
// checkout flow creates. Amount is in minor currency units.
type CheckoutSessionInput struct {
	Amount            int64
	Currency          string
	ProductName       string
	Description       string
	ImageURL          string
	CustomerEmail     string
	ClientReferenceID string
	Metadata          map[string]string
	SuccessURL        string
	CancelURL         string
}

// CheckoutSessionResult is the subset of the created session the caller needs.
type CheckoutSessionResult struct {
	SessionID string
	URL       string
}

// SessionPaymentState is what reconciliation needs to know about a session.
type SessionPaymentState struct {
	Paid    bool
	Expired bool
}

// StripeAPI abstracts the Stripe calls so controllers, services and the
// reconciliation worker can be tested with a stub.
type StripeAPI interface {
	CreateCheckoutSession(input *CheckoutSessionInput) (*CheckoutSessionResult, error)
	SessionPaymentState(sessionID string) (*SessionPaymentState, error)
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

func (s *StripeService) CreateCheckoutSession(input *CheckoutSessionInput) (*CheckoutSessionResult, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(input.ProductName),
	}
	if input.Description != "" {
		productData.Description = stripe.String(input.Description)
	}
	if input.ImageURL != "" {
		productData.Images = stripe.StringSlice([]string{input.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(input.Currency),
					ProductData: productData,
					UnitAmount:  stripe.Int64(input.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		ClientReferenceID: stripe.String(input.ClientReferenceID),
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSessionResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeService) SessionPaymentState(sessionID string) (*SessionPaymentState, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, err
	}
	return &SessionPaymentState{
		Paid:    sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired: sess.Status == stripe.CheckoutSessionStatusExpired,
	}, nil
}

func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
