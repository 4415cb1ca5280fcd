package controllers

import (
	"net/http"

	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
)

type CreditController struct {
	Credits   *services.CreditService
	Validator *RequestValidator
}

// GetCreditStats returns the caller's expiring-soon credit aggregate.
func (cc *CreditController) GetCreditStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, svcErr := cc.Credits.GetCreditStats(c.Request.Context(), user.ID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, stats)
}

// ConsumeCredits debits credits for an AI action.
func (cc *CreditController) ConsumeCredits(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Amount int `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Amount must be at least 1")
		return
	}

	if svcErr := cc.Credits.ConsumeCredits(c.Request.Context(), user.ID, req.Amount); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, gin.H{"consumed": req.Amount})
}

// ListTransactions returns the caller's credit ledger entries.
func (cc *CreditController) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit, err := cc.Validator.ParsePagination(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	txns, total, svcErr := cc.Credits.ListTransactions(c.Request.Context(), user.ID, page, limit)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	respondData(c, gin.H{"transactions": txns, "total": total})
}
