package routes

import (
	"time"

	"wheatstraw-backend/controllers"
	"wheatstraw-backend/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Controllers struct {
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrderController
	Options  *controllers.OptionController
	Credits  *controllers.CreditController
	Drafts   *controllers.DraftController
	Webhook  *controllers.WebhookController
}

// Register wires all HTTP routes onto the engine.
func Register(r *gin.Engine, ctrl *Controllers, jwtSecret string) {
	// Stripe webhook (signature-verified, no auth)
	r.POST("/stripe/webhook", ctrl.Webhook.StripeWebhook)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(jwtSecret)

	ws := r.Group("/wheat-straw")
	ws.Use(auth)
	ws.GET("/options", ctrl.Options.ListOptions)
	ws.POST("/checkout", middleware.RateLimitMiddleware(rate.Every(time.Second), 5), ctrl.Checkout.CreateCheckout)
	ws.POST("/draft", ctrl.Drafts.SaveDraft)
	ws.GET("/draft/:token", ctrl.Drafts.GetDraft)
	ws.DELETE("/draft/:token", ctrl.Drafts.DeleteDraft)

	orders := r.Group("/orders")
	orders.Use(auth)
	orders.GET("", ctrl.Orders.GetMyOrders)
	orders.GET("/:orderId", ctrl.Orders.GetMyOrder)

	credits := r.Group("/credits")
	credits.Use(auth)
	credits.GET("/stats", ctrl.Credits.GetCreditStats)
	credits.GET("/transactions", ctrl.Credits.ListTransactions)
	credits.POST("/consume", ctrl.Credits.ConsumeCredits)

	admin := r.Group("/admin")
	admin.Use(auth, middleware.RequireAdmin())
	admin.GET("/orders", ctrl.Orders.GetAllOrders)
	admin.GET("/orders/:orderId", ctrl.Orders.GetOrder)
	admin.PATCH("/orders/:orderId/status", ctrl.Orders.UpdateStatus)
	admin.PATCH("/orders/:orderId/shipping", ctrl.Orders.UpdateShipping)
	admin.PATCH("/orders/:orderId/note", ctrl.Orders.UpdateAdminNote)
}
