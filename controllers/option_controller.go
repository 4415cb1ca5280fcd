package controllers

import (
	"net/http"

	"wheatstraw-backend/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OptionController struct {
	Options repository.OptionRepository
	Logger  *zap.Logger
}

// ListOptions returns the active product options for the customize screen,
// grouped by category client-side.
func (oc *OptionController) ListOptions(c *gin.Context) {
	options, err := oc.Options.FindActive(c.Request.Context())
	if err != nil {
		oc.Logger.Error("Failed to fetch product options", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch product options")
		return
	}
	respondData(c, options)
}
