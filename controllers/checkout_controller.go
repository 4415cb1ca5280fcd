package controllers

import (
	"net/http"

	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	Checkout  *services.CheckoutService
	Validator *RequestValidator
}

// CreateCheckout accepts a customization payload, persists a pending order
// and returns the hosted payment page URL.
func (cc *CheckoutController) CreateCheckout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := cc.Validator.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	result, svcErr := cc.Checkout.CreateCheckout(c.Request.Context(), user, &req, idempotencyKey)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	respondData(c, result)
}
