package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/middleware"
	"food-order-api/internal/models"
	"food-order-api/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
	successURL   string
	failureURL   string
}

func NewOrderHandler(orderService services.OrderService, successURL, failureURL string) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		successURL:   successURL,
		failureURL:   failureURL,
	}
}

type createOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Note            string `json:"note"`
	City            string `json:"city"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create turns the caller's cart into a pending order and returns the
// hosted checkout form to render.
func (h *OrderHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.orderService.CreateOrderAndPaymentForm(user, services.CreateOrderInput{
		DeliveryAddress: req.DeliveryAddress,
		Note:            req.Note,
		City:            req.City,
	}, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":      form.OrderID,
		"checkout_form": form.HTMLContent,
	})
}

// PaymentCallback is hit by the payment gateway after the hosted form
// completes. It always answers with a browser redirect.
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	token := c.PostForm("token")
	if token == "" {
		h.redirectFailure(c, "missing payment token")
		return
	}

	orderID, err := h.orderService.CompletePayment(token)
	if err != nil {
		h.redirectFailure(c, apperrors.PublicMessage(err))
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s?orderId=%d", h.successURL, orderID))
}

func (h *OrderHandler) redirectFailure(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, h.failureURL+"?reason="+url.QueryEscape(reason))
}

func (h *OrderHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	details, err := h.orderService.GetOrderDetails(user.ID, uint(orderID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderService.UpdateOrderStatus(user, uint(orderID), models.OrderStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order status updated"})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orderService.CancelOrder(user, uint(orderID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}
