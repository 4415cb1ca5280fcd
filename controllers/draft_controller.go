package controllers

import (
	"net/http"
	"time"

	"wheatstraw-backend/models"
	"wheatstraw-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DraftController struct {
	Drafts *repository.DraftRepository
	Logger *zap.Logger
}

// SaveDraft stores the in-progress customization server-side and returns the
// token the client uses to resume it. An existing token updates in place.
func (dc *DraftController) SaveDraft(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var draft models.DraftOrder
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if draft.GeneratedImageURL == "" {
		respondError(c, http.StatusBadRequest, "Generated image URL is required")
		return
	}

	ctx := c.Request.Context()
	if draft.Token == "" {
		draft.Token = uuid.NewString()
		draft.CreatedAt = time.Now()
	} else {
		existing, err := dc.Drafts.GetDraft(ctx, draft.Token)
		if err != nil {
			dc.Logger.Error("Failed to load draft", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save draft")
			return
		}
		if existing == nil || existing.UserID != user.ID.String() {
			respondError(c, http.StatusNotFound, "Draft not found")
			return
		}
		draft.CreatedAt = existing.CreatedAt
	}
	draft.UserID = user.ID.String()

	if err := dc.Drafts.SaveDraft(ctx, &draft); err != nil {
		dc.Logger.Error("Failed to save draft", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save draft")
		return
	}

	respondData(c, gin.H{"token": draft.Token})
}

// GetDraft returns the caller's draft for the given token.
func (dc *DraftController) GetDraft(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	token := c.Param("token")
	draft, err := dc.Drafts.GetDraft(c.Request.Context(), token)
	if err != nil {
		dc.Logger.Error("Failed to load draft", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	if draft == nil || draft.UserID != user.ID.String() {
		respondError(c, http.StatusNotFound, "Draft not found")
		return
	}

	respondData(c, draft)
}

// DeleteDraft discards the caller's draft.
func (dc *DraftController) DeleteDraft(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	token := c.Param("token")
	ctx := c.Request.Context()
	draft, err := dc.Drafts.GetDraft(ctx, token)
	if err != nil {
		dc.Logger.Error("Failed to load draft", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete draft")
		return
	}
	if draft == nil || draft.UserID != user.ID.String() {
		respondError(c, http.StatusNotFound, "Draft not found")
		return
	}

	if err := dc.Drafts.DeleteDraft(ctx, token); err != nil {
		dc.Logger.Error("Failed to delete draft", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete draft")
		return
	}
	respondData(c, gin.H{"token": token})
}
