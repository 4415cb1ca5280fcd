package services

import (
	"context"
	"errors"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

type OrderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// UpdateStatus moves an order to target, enforcing the transition table.
// Setting the status the order already has is a no-op. The matching *_at
// timestamp is stamped only if it has never been set.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus) (*models.Order, *ServiceError) {
	if !target.IsValid() {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown order status"}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.notFoundOr500(err, "Failed to fetch order")
	}

	if order.Status == target {
		return order, nil
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    "Order cannot move from " + string(order.Status) + " to " + string(target),
		}
	}

	updates := map[string]interface{}{"status": target}
	stamp := s.now()
	if col := target.TimestampColumn(); col != "" && statusTimestamp(order, target) == nil {
		updates[col] = &stamp
	}

	if err := s.orderRepo.UpdateFields(ctx, orderID, updates); err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID.String()),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return nil, s.notFoundOr500(err, "Failed to update order status")
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
	)

	order.Status = target
	if statusTimestamp(order, target) == nil {
		setStatusTimestamp(order, target, &stamp)
	}
	return order, nil
}

// MarkPaidBySession transitions the order referenced by a checkout session to
// paid. Duplicate webhook deliveries are a no-op.
func (s *OrderService) MarkPaidBySession(ctx context.Context, sessionID string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, s.notFoundOr500(err, "Failed to fetch order for session")
	}
	return s.UpdateStatus(ctx, order.ID, models.StatusPaid)
}

// CancelBySession cancels the order referenced by an expired checkout session.
func (s *OrderService) CancelBySession(ctx context.Context, sessionID string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, s.notFoundOr500(err, "Failed to fetch order for session")
	}
	if order.Status.IsTerminal() {
		return order, nil
	}
	return s.UpdateStatus(ctx, order.ID, models.StatusCancelled)
}

func (s *OrderService) UpdateShippingInfo(ctx context.Context, orderID uuid.UUID, shippingCompany, trackingNumber string) *ServiceError {
	if shippingCompany == "" || trackingNumber == "" {
		return &ServiceError{StatusCode: 400, Message: "Shipping company and tracking number are required"}
	}
	err := s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"shipping_company": shippingCompany,
		"tracking_number":  trackingNumber,
	})
	if err != nil {
		return s.notFoundOr500(err, "Failed to update shipping information")
	}
	return nil
}

func (s *OrderService) UpdateAdminNote(ctx context.Context, orderID uuid.UUID, adminNote string) *ServiceError {
	err := s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"admin_note": adminNote,
	})
	if err != nil {
		return s.notFoundOr500(err, "Failed to update admin note")
	}
	return nil
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return s.listResponse(orders, total, page, limit), nil
}

// GetAllOrders retrieves paginated orders for all users (admin only)
func (s *OrderService) GetAllOrders(ctx context.Context, status *models.OrderStatus, page, limit int) (*OrderListResponse, *ServiceError) {
	if status != nil && !status.IsValid() {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown order status"}
	}
	orders, total, err := s.orderRepo.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return s.listResponse(orders, total, page, limit), nil
}

// GetOrderByID retrieves a specific order for its owner.
func (s *OrderService) GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		return nil, s.notFoundOr500(err, "Failed to fetch order")
	}
	return order, nil
}

// GetOrderAdmin retrieves any order by id.
func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.notFoundOr500(err, "Failed to fetch order")
	}
	return order, nil
}

func (s *OrderService) listResponse(orders []models.Order, total int64, page, limit int) *OrderListResponse {
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}
}

func (s *OrderService) notFoundOr500(err error, msg string) *ServiceError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	s.logger.Error(msg, zap.Error(err))
	return &ServiceError{StatusCode: 500, Message: msg}
}

func statusTimestamp(order *models.Order, status models.OrderStatus) *time.Time {
	switch status {
	case models.StatusPaid:
		return order.PaidAt
	case models.StatusInProduction:
		return order.InProductionAt
	case models.StatusShipped:
		return order.ShippedAt
	case models.StatusCompleted:
		return order.CompletedAt
	case models.StatusCancelled:
		return order.CancelledAt
	}
	return nil
}

func setStatusTimestamp(order *models.Order, status models.OrderStatus, t *time.Time) {
	switch status {
	case models.StatusPaid:
		order.PaidAt = t
	case models.StatusInProduction:
		order.InProductionAt = t
	case models.StatusShipped:
		order.ShippedAt = t
	case models.StatusCompleted:
		order.CompletedAt = t
	case models.StatusCancelled:
		order.CancelledAt = t
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
