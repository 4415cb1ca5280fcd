package controllers

import (
	"net/http"

	"wheatstraw-backend/models"
	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders    *services.OrderService
	Validator *RequestValidator
}

// GetMyOrders returns the caller's orders, newest first.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit, err := oc.Validator.ParsePagination(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, svcErr := oc.Orders.GetUserOrders(c.Request.Context(), user.ID, page, limit)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, resp)
}

// GetMyOrder returns one of the caller's orders with option display data.
func (oc *OrderController) GetMyOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, svcErr := oc.Orders.GetOrderByID(c.Request.Context(), user.ID, orderID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, order)
}

// GetAllOrders returns any user's orders, optionally filtered by status (admin).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, err := oc.Validator.ParsePagination(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		status = &s
	}

	resp, svcErr := oc.Orders.GetAllOrders(c.Request.Context(), status, page, limit)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, resp)
}

// GetOrder returns any order by id (admin).
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, svcErr := oc.Orders.GetOrderAdmin(c.Request.Context(), orderID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, order)
}

// UpdateStatus moves an order through its lifecycle (admin).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	order, svcErr := oc.Orders.UpdateStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, order)
}

// UpdateShipping records the carrier and tracking number (admin).
func (oc *OrderController) UpdateShipping(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req struct {
		ShippingCompany string `json:"shippingCompany" binding:"required"`
		TrackingNumber  string `json:"trackingNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Shipping company and tracking number are required")
		return
	}

	if svcErr := oc.Orders.UpdateShippingInfo(c.Request.Context(), orderID, req.ShippingCompany, req.TrackingNumber); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, gin.H{"orderId": orderID})
}

// UpdateAdminNote records an internal note on the order (admin).
func (oc *OrderController) UpdateAdminNote(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req struct {
		AdminNote string `json:"adminNote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if svcErr := oc.Orders.UpdateAdminNote(c.Request.Context(), orderID, req.AdminNote); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, gin.H{"orderId": orderID})
}
