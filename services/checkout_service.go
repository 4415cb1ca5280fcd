package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User is the caller identity resolved by the auth middleware.
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// CheckoutRequest is the validated payload for a checkout submission.
// Prices are minor currency units; option ids are optional per category.
type CheckoutRequest struct {
	ImageURL           string `json:"imageUrl" validate:"required,url"`
	OriginalImageURL   string `json:"originalImageUrl" validate:"omitempty,url"`
	Prompt             string `json:"prompt"`
	SizeOptionID       string `json:"sizeOptionId" validate:"omitempty,uuid"`
	FrameOptionID      string `json:"frameOptionId" validate:"omitempty,uuid"`
	MountingOptionID   string `json:"mountingOptionId" validate:"omitempty,uuid"`
	BasePrice          int    `json:"basePrice" validate:"required,gt=0"`
	TotalPrice         int    `json:"totalPrice" validate:"required,gt=0"`
	RecipientName      string `json:"recipientName" validate:"required,min=2"`
	RecipientPhone     string `json:"recipientPhone" validate:"required,min=5"`
	ShippingAddress    string `json:"shippingAddress" validate:"required,min=5"`
	ShippingCity       string `json:"shippingCity" validate:"required,min=2"`
	ShippingProvince   string `json:"shippingProvince" validate:"required,min=2"`
	ShippingPostalCode string `json:"shippingPostalCode"`
	ShippingCountry    string `json:"shippingCountry"`
	CustomerNote       string `json:"customerNote"`
	Locale             string `json:"locale"`
}

// CheckoutResult is returned to the client on a successful submission.
type CheckoutResult struct {
	URL         string `json:"url"`
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

const orderCurrency = "USD"

// IdempotencyStore remembers checkout results by client-supplied key so a
// resubmitted request replays the original response instead of double-charging.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, result string, ttl time.Duration) error
}

type CheckoutService struct {
	orderRepo   repository.OrderRepository
	optionRepo  repository.OptionRepository
	drafts      IdempotencyStore
	stripe      StripeAPI
	frontendURL string
	logger      *zap.Logger
	now         func() time.Time
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	optionRepo repository.OptionRepository,
	drafts IdempotencyStore,
	stripe StripeAPI,
	frontendURL string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		optionRepo:  optionRepo,
		drafts:      drafts,
		stripe:      stripe,
		frontendURL: frontendURL,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateCheckout persists a pending order and opens a hosted Stripe checkout
// session for it. A stripe failure leaves the pending order in place with a
// null session reference; the reconciliation worker sweeps those up later.
// idempotencyKey may be empty; when set, a repeated submission returns the
// original result instead of creating a second order.
func (s *CheckoutService) CreateCheckout(ctx context.Context, user User, req *CheckoutRequest, idempotencyKey string) (*CheckoutResult, *ServiceError) {
	if idempotencyKey != "" && s.drafts != nil {
		if stored, err := s.drafts.GetIdempotency(ctx, idempotencyKey); err == nil && stored != "" {
			var result CheckoutResult
			if err := json.Unmarshal([]byte(stored), &result); err == nil {
				s.logger.Info("Replaying checkout for idempotency key",
					zap.String("order_id", result.OrderID),
				)
				return &result, nil
			}
		}
	}

	selected, optionIDs, svcErr := s.resolveOptions(ctx, req)
	if svcErr != nil {
		return nil, svcErr
	}

	total, err := ComputeTotal(req.BasePrice, selected)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: err.Error()}
	}
	if total != req.TotalPrice {
		return nil, &ServiceError{
			StatusCode: 400,
			Message:    "Total price does not match the selected options",
		}
	}

	orderID := uuid.New()
	orderNumber := s.generateOrderNumber()

	order := &models.Order{
		ID:                 orderID,
		OrderNumber:        orderNumber,
		UserID:             user.ID,
		Status:             models.StatusPending,
		GeneratedImageURL:  req.ImageURL,
		OriginalImageURL:   optionalString(req.OriginalImageURL),
		Prompt:             optionalString(req.Prompt),
		SizeOptionID:       optionIDs[models.CategorySize],
		FrameOptionID:      optionIDs[models.CategoryFrame],
		MountingOptionID:   optionIDs[models.CategoryMounting],
		BasePrice:          req.BasePrice,
		TotalPrice:         total,
		Currency:           orderCurrency,
		RecipientName:      req.RecipientName,
		RecipientPhone:     req.RecipientPhone,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingProvince:   req.ShippingProvince,
		ShippingPostalCode: optionalString(req.ShippingPostalCode),
		ShippingCountry:    defaultString(req.ShippingCountry, "CN"),
		CustomerNote:       optionalString(req.CustomerNote),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	locale := defaultString(req.Locale, "en")
	sessionResult, err := s.stripe.CreateCheckoutSession(&CheckoutSessionInput{
		Amount:            int64(total),
		Currency:          "usd",
		ProductName:       productName(locale),
		Description:       productDescription(locale, req.Prompt),
		ImageURL:          req.ImageURL,
		CustomerEmail:     user.Email,
		ClientReferenceID: orderID.String(),
		Metadata: map[string]string{
			"orderId":     orderID.String(),
			"orderNumber": orderNumber,
			"userId":      user.ID.String(),
			"userName":    user.Name,
			"scene":       "physical_product",
			"type":        "wheat_straw_painting",
		},
		SuccessURL: fmt.Sprintf("%s/%s/payment?session_id={CHECKOUT_SESSION_ID}&order_id=%s", s.frontendURL, locale, orderID),
		CancelURL:  fmt.Sprintf("%s/%s/wheat-straw/customize", s.frontendURL, locale),
	})
	if err != nil {
		// Order stays pending with no session id; reconciliation owns it now.
		s.logger.Error("Failed to create checkout session",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to create checkout session"}
	}

	if err := s.orderRepo.SetSessionID(ctx, orderID, sessionResult.SessionID); err != nil {
		s.logger.Error("Failed to store session id on order",
			zap.String("order_id", orderID.String()),
			zap.String("session_id", sessionResult.SessionID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to finalize checkout"}
	}

	result := &CheckoutResult{
		URL:         sessionResult.URL,
		ID:          sessionResult.SessionID,
		OrderID:     orderID.String(),
		OrderNumber: orderNumber,
	}

	if idempotencyKey != "" && s.drafts != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.drafts.SetIdempotency(ctx, idempotencyKey, string(data), 24*time.Hour); err != nil {
				s.logger.Warn("Failed to store idempotency result", zap.Error(err))
			}
		}
	}

	s.logger.Info("Checkout created",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", orderNumber),
		zap.Int("total_price", total),
	)
	return result, nil
}

// resolveOptions loads and checks each selected option, returning them in
// submission order plus the per-category id pointers for the order row.
func (s *CheckoutService) resolveOptions(ctx context.Context, req *CheckoutRequest) ([]*models.ProductOption, map[models.OptionCategory]*uuid.UUID, *ServiceError) {
	wanted := map[models.OptionCategory]string{
		models.CategorySize:     req.SizeOptionID,
		models.CategoryFrame:    req.FrameOptionID,
		models.CategoryMounting: req.MountingOptionID,
	}

	var selected []*models.ProductOption
	ids := map[models.OptionCategory]*uuid.UUID{}

	for _, category := range []models.OptionCategory{models.CategorySize, models.CategoryFrame, models.CategoryMounting} {
		raw := wanted[category]
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid %s option id", category)}
		}
		opt, err := s.optionRepo.FindByID(ctx, id)
		if err != nil {
			return nil, nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Unknown %s option", category)}
		}
		if opt.Category != category || !opt.Active {
			return nil, nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Option is not a valid %s choice", category)}
		}
		selected = append(selected, opt)
		optID := opt.ID
		ids[category] = &optID
	}

	return selected, ids, nil
}

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber builds the human-readable "WS<millis><suffix>" number.
// The random suffix keeps concurrent submissions in the same millisecond apart.
func (s *CheckoutService) generateOrderNumber() string {
	return fmt.Sprintf("WS%d%s", s.now().UnixMilli(), randomSuffix(6))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for order numbering
		panic(err)
	}
	for i, b := range buf {
		buf[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return string(buf)
}

func productName(locale string) string {
	if locale == "zh" {
		return "定制麦秆画"
	}
	return "Custom Wheat Straw Painting"
}

func productDescription(locale, prompt string) string {
	if prompt == "" {
		return ""
	}
	if locale == "zh" {
		return "设计：" + prompt
	}
	return "Design: " + prompt
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
