package handlers

import (
	"food-order-api/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps an application error onto the HTTP response. Internal
// details never reach the client.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
}
