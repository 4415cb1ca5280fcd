package worker

import (
	"context"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"
	"wheatstraw-backend/services"

	"go.uber.org/zap"
)

// ReconciliationWorker sweeps pending orders that have sat past the cutoff.
// An order with no session reference never reached Stripe and is cancelled.
// An order with a session is settled against Stripe's view: paid sessions are
// marked paid, expired sessions cancelled, open sessions left for next sweep.
type ReconciliationWorker struct {
	orderRepo repository.OrderRepository
	orders    *services.OrderService
	stripe    services.StripeAPI
	interval  time.Duration
	cutoff    time.Duration
	logger    *zap.Logger
}

func NewReconciliationWorker(
	orderRepo repository.OrderRepository,
	orders *services.OrderService,
	stripe services.StripeAPI,
	interval time.Duration,
	cutoff time.Duration,
	logger *zap.Logger,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		orderRepo: orderRepo,
		orders:    orders,
		stripe:    stripe,
		interval:  interval,
		cutoff:    cutoff,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, processing one sweep per tick.
func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("Reconciliation worker started",
		zap.Duration("interval", rw.interval),
		zap.Duration("cutoff", rw.cutoff),
	)

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("Reconciliation worker stopped")
			return
		case <-ticker.C:
			if err := rw.Process(ctx); err != nil {
				rw.logger.Error("Reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

// Process runs a single sweep.
func (rw *ReconciliationWorker) Process(ctx context.Context) error {
	stuck, err := rw.orderRepo.FindStuckPending(ctx, rw.cutoff)
	if err != nil {
		return err
	}
	if len(stuck) == 0 {
		return nil
	}

	rw.logger.Info("Reconciling stuck pending orders", zap.Int("count", len(stuck)))

	for _, order := range stuck {
		if order.SessionID == nil {
			// Session creation never succeeded; nothing to settle.
			if _, svcErr := rw.orders.UpdateStatus(ctx, order.ID, models.StatusCancelled); svcErr != nil {
				rw.logger.Error("Failed to cancel orphaned order",
					zap.String("order_id", order.ID.String()),
					zap.String("error", svcErr.Message),
				)
			} else {
				rw.logger.Info("Cancelled orphaned order with no session",
					zap.String("order_id", order.ID.String()),
				)
			}
			continue
		}

		state, err := rw.stripe.SessionPaymentState(*order.SessionID)
		if err != nil {
			rw.logger.Warn("Failed to check session state, skipping order",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			continue
		}

		switch {
		case state.Paid:
			// Webhook never arrived; Stripe is the source of truth.
			if _, svcErr := rw.orders.UpdateStatus(ctx, order.ID, models.StatusPaid); svcErr != nil {
				rw.logger.Error("Failed to mark reconciled order paid",
					zap.String("order_id", order.ID.String()),
					zap.String("error", svcErr.Message),
				)
			} else {
				rw.logger.Info("Marked ghost order paid",
					zap.String("order_id", order.ID.String()),
				)
			}
		case state.Expired:
			if _, svcErr := rw.orders.UpdateStatus(ctx, order.ID, models.StatusCancelled); svcErr != nil {
				rw.logger.Error("Failed to cancel abandoned order",
					zap.String("order_id", order.ID.String()),
					zap.String("error", svcErr.Message),
				)
			} else {
				rw.logger.Info("Cancelled abandoned order",
					zap.String("order_id", order.ID.String()),
				)
			}
		}
	}
	return nil
}
