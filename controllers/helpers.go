package controllers

import (
	"net/http"

	"wheatstraw-backend/middleware"
	"wheatstraw-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondData writes the uniform success envelope.
func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondServiceError(c *gin.Context, err *services.ServiceError) {
	respondError(c, err.StatusCode, err.Message)
}

// currentUser builds the caller identity from the auth middleware claims.
func currentUser(c *gin.Context) (services.User, bool) {
	id, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid user identity")
		return services.User{}, false
	}
	return services.User{
		ID:    id,
		Email: middleware.GetUserEmail(c),
		Name:  middleware.GetUserName(c),
	}, true
}

// orderIDParam parses the :orderId path parameter.
func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return uuid.Nil, false
	}
	return id, true
}
