package handlers

import (
	"net/http"
	"strconv"

	"food-order-api/internal/middleware"
	"food-order-api/internal/repository"
	"food-order-api/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService  services.UserService
	orderService services.OrderService
}

func NewUserHandler(userService services.UserService, orderService services.OrderService) *UserHandler {
	return &UserHandler{userService: userService, orderService: orderService}
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// Me returns the stored profile. The token only carries identity claims, so
// the full record is loaded fresh from the database.
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	full, err := h.userService.GetByID(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(full)})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, services.UpdateProfileInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(updated)})
}

// ListOrders returns the caller's order history, newest first by default.
func (h *UserHandler) ListOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, err := h.orderService.ListUserOrders(user.ID, repository.OrderFilter{
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
