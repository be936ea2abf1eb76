package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/redis"
	"food-order-api/internal/repository"
	"food-order-api/internal/statemachine"
	"food-order-api/pkg/iyzico"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// amountTolerance is the maximum accepted drift between the gateway's paid
// amount and the stored order total.
var amountTolerance = decimal.RequireFromString("0.01")

// CheckoutGateway is the slice of the payment client the order service needs.
type CheckoutGateway interface {
	InitializeCheckoutForm(req *iyzico.CheckoutFormRequest) (*iyzico.InitializeResponse, error)
	RetrieveCheckoutForm(token string) (*iyzico.RetrieveResponse, error)
}

// OrderListCache caches paginated order listings with a short TTL.
type OrderListCache interface {
	GetOrderList(key string, dest interface{}) error
	SetOrderList(key string, value interface{}, ttl time.Duration) error
}

type CreateOrderInput struct {
	DeliveryAddress string
	Note            string
	City            string
}

// PaymentForm is what the caller renders to the payer.
type PaymentForm struct {
	OrderID     uint
	HTMLContent string
}

type OrderDetails struct {
	ID              uint               `json:"id"`
	Restaurant      RestaurantSummary  `json:"restaurant"`
	Items           []models.OrderItem `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	DeliveryFee     float64            `json:"delivery_fee"`
	Total           float64            `json:"total"`
	Status          models.OrderStatus `json:"status"`
	DeliveryAddress string             `json:"delivery_address"`
	Note            string             `json:"note"`
	DeliveredAt     *time.Time         `json:"delivered_at"`
	CreatedAt       time.Time          `json:"created_at"`
}

type RestaurantSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

type PaginatedOrders struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type OrderService interface {
	CreateOrderAndPaymentForm(user *models.User, input CreateOrderInput, clientIP string) (*PaymentForm, error)
	CompletePayment(token string) (uint, error)
	UpdateOrderStatus(actor *models.User, orderID uint, newStatus models.OrderStatus) error
	CancelOrder(user *models.User, orderID uint) error
	GetOrderDetails(userID, orderID uint) (*OrderDetails, error)
	ListUserOrders(userID uint, filter repository.OrderFilter) (*PaginatedOrders, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartService CartService
	gateway     CheckoutGateway
	cache       OrderListCache
	cacheTTL    time.Duration
	callbackURL string
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartService CartService,
	gateway CheckoutGateway,
	cache OrderListCache,
	cacheTTL time.Duration,
	callbackURL string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartService: cartService,
		gateway:     gateway,
		cache:       cache,
		cacheTTL:    cacheTTL,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

func (s *orderService) CreateOrderAndPaymentForm(user *models.User, input CreateOrderInput, clientIP string) (*PaymentForm, error) {
	cart, err := s.cartService.GetCart(user.ID)
	if err != nil {
		return nil, err
	}
	if cart.ItemsCount == 0 {
		return nil, apperrors.BadRequest("cart is empty")
	}
	for _, item := range cart.Items {
		if item.RestaurantID != cart.RestaurantID {
			return nil, apperrors.BadRequest("cart contains items from different restaurants")
		}
	}

	// The total sent to the gateway must equal the sum the gateway itself
	// computes from the basket, so it is derived strictly from the rounded
	// per-line prices rather than an independently rounded subtotal + fee.
	basketItems := make([]iyzico.BasketItem, 0, len(cart.Items)+1)
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	total := decimal.Zero

	for _, item := range cart.Items {
		linePrice := decimal.NewFromFloat(item.MenuItem.Price).
			Mul(decimal.NewFromInt(int64(item.Quantity))).
			Round(2)
		total = total.Add(linePrice)

		basketItems = append(basketItems, iyzico.BasketItem{
			ID:        strconv.FormatUint(uint64(item.MenuItemID), 10),
			Name:      item.MenuItem.Name,
			Category1: "Food",
			ItemType:  "PHYSICAL",
			Price:     linePrice.StringFixed(2),
		})
		lineTotal, _ := linePrice.Float64()
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.MenuItem.Name,
			UnitPrice:  item.MenuItem.Price,
			Quantity:   item.Quantity,
			LineTotal:  lineTotal,
		})
	}

	deliveryFee := decimal.NewFromFloat(cart.DeliveryFee).Round(2)
	total = total.Add(deliveryFee)
	basketItems = append(basketItems, iyzico.BasketItem{
		ID:        "DELIVERY",
		Name:      "Delivery Fee",
		Category1: "Delivery",
		ItemType:  "PHYSICAL",
		Price:     deliveryFee.StringFixed(2),
	})

	totalAmount, _ := total.Round(2).Float64()
	order := &models.Order{
		UserID:          user.ID,
		RestaurantID:    cart.RestaurantID,
		Status:          models.OrderPending,
		TotalAmount:     totalAmount,
		DeliveryAddress: input.DeliveryAddress,
		Note:            input.Note,
		ClientIP:        clientIP,
		Items:           orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.Internal("failed to create order", err)
	}

	result, err := s.gateway.InitializeCheckoutForm(&iyzico.CheckoutFormRequest{
		Locale:              "tr",
		ConversationID:      strconv.FormatUint(uint64(order.ID), 10),
		Price:               total.StringFixed(2),
		PaidPrice:           total.StringFixed(2),
		Currency:            "TRY",
		BasketID:            strconv.FormatUint(uint64(order.ID), 10),
		PaymentGroup:        "PRODUCT",
		CallbackURL:         s.callbackURL,
		EnabledInstallments: []int{1, 2, 3, 6, 9},
		Buyer: iyzico.Buyer{
			ID:                  strconv.FormatUint(uint64(user.ID), 10),
			Name:                firstName(user.Name),
			Surname:             lastName(user.Name),
			Email:               user.Email,
			IdentityNumber:      "11111111111",
			RegistrationAddress: orDefault(user.Address, "N/A"),
			IP:                  clientIP,
			City:                input.City,
			Country:             "Turkey",
		},
		ShippingAddress: iyzico.Address{
			ContactName: user.Name,
			City:        input.City,
			Country:     "Turkey",
			Address:     input.DeliveryAddress,
		},
		BillingAddress: iyzico.Address{
			ContactName: user.Name,
			City:        input.City,
			Country:     "Turkey",
			Address:     input.DeliveryAddress,
		},
		BasketItems: basketItems,
	})
	if err != nil {
		return nil, apperrors.Internal("payment gateway call failed", err)
	}
	if result.Status != iyzico.StatusSuccess {
		// The order stays pending; a later checkout attempt creates a new one.
		return nil, apperrors.BadRequest("payment gateway error: " + result.ErrorMessage)
	}

	return &PaymentForm{OrderID: order.ID, HTMLContent: result.CheckoutFormContent}, nil
}

func (s *orderService) CompletePayment(token string) (uint, error) {
	result, err := s.gateway.RetrieveCheckoutForm(token)
	if err != nil {
		return 0, apperrors.Internal("payment gateway call failed", err)
	}
	if result.Status != iyzico.StatusSuccess || result.PaymentStatus != iyzico.PaymentStatusSuccess {
		return 0, apperrors.BadRequest("payment failed or was not confirmed")
	}

	reference := result.ConversationID
	if reference == "" {
		reference = result.BasketID
	}
	orderID, err := strconv.ParseUint(reference, 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("invalid order reference from gateway")
	}

	order, err := s.orderRepo.GetByID(uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("order not found")
		}
		return 0, apperrors.Internal("failed to load order", err)
	}

	// Duplicate callback delivery: already reconciled, nothing to do.
	if order.Status == models.OrderPaid {
		return order.ID, nil
	}

	// The callback acts as the system actor; a cancelled or fulfilled order
	// can no longer be marked paid.
	if err := statemachine.CanTransition(order.Status, models.OrderPaid, statemachine.ActorSystem); err != nil {
		return 0, apperrors.BadRequest(err.Error())
	}

	paidAmount, err := decimal.NewFromString(result.PaidPrice)
	if err != nil {
		return 0, apperrors.BadRequest("invalid paid amount from gateway")
	}
	storedAmount := decimal.NewFromFloat(order.TotalAmount).Round(2)
	if paidAmount.Sub(storedAmount).Abs().GreaterThan(amountTolerance) {
		return 0, apperrors.BadRequest(fmt.Sprintf(
			"payment amount mismatch: expected %s, got %s",
			storedAmount.StringFixed(2), paidAmount.StringFixed(2)))
	}

	if err := s.orderRepo.MarkPaidAndClearCart(order, result.PaymentID); err != nil {
		return 0, apperrors.Internal("failed to finalize payment", err)
	}

	s.logger.Info("payment completed",
		zap.Uint("order_id", order.ID),
		zap.String("payment_id", result.PaymentID),
	)
	return order.ID, nil
}

func (s *orderService) UpdateOrderStatus(actor *models.User, orderID uint, newStatus models.OrderStatus) error {
	if !statemachine.IsValidStatus(newStatus) {
		return apperrors.BadRequest("unknown order status")
	}

	order, err := s.orderRepo.GetWithRestaurant(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("order not found")
		}
		return apperrors.Internal("failed to load order", err)
	}

	var smActor string
	switch models.UserRole(actor.Role) {
	case models.RoleAdmin:
		smActor = statemachine.ActorAdmin
	case models.RoleRestaurantOwner:
		if order.Restaurant.OwnerID != actor.ID {
			return apperrors.Unauthorized("not allowed to update this order")
		}
		smActor = statemachine.ActorRestaurantOwner
	default:
		return apperrors.Unauthorized("not allowed to update order status")
	}

	if err := statemachine.CanTransition(order.Status, newStatus, smActor); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	if newStatus == models.OrderDelivered {
		now := time.Now()
		order.DeliveredAt = &now
	}
	order.Status = newStatus
	if err := s.orderRepo.Update(order); err != nil {
		return apperrors.Internal("failed to update order status", err)
	}
	return nil
}

func (s *orderService) CancelOrder(user *models.User, orderID uint) error {
	order, err := s.orderRepo.GetByIDForUser(orderID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("order not found")
		}
		return apperrors.Internal("failed to load order", err)
	}

	if statemachine.IsTerminal(order.Status) {
		return apperrors.BadRequest("order can no longer be cancelled")
	}

	// Refunds for already-paid orders are deferred.
	order.Status = models.OrderCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return apperrors.Internal("failed to cancel order", err)
	}
	return nil
}

func (s *orderService) GetOrderDetails(userID, orderID uint) (*OrderDetails, error) {
	order, err := s.orderRepo.GetByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}

	var subtotal float64
	for _, item := range order.Items {
		subtotal += item.LineTotal
	}

	// The fee is part of the order snapshot: total minus the item lines.
	// Reading it from the restaurant would drift when the owner changes the
	// fee after the order was placed.
	deliveryFee, _ := decimal.NewFromFloat(order.TotalAmount).
		Sub(decimal.NewFromFloat(subtotal)).
		Round(2).Float64()

	return &OrderDetails{
		ID: order.ID,
		Restaurant: RestaurantSummary{
			ID:      order.RestaurantID,
			Name:    order.Restaurant.Name,
			Phone:   order.Restaurant.Phone,
			Address: order.Restaurant.Address,
		},
		Items:           order.Items,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           order.TotalAmount,
		Status:          order.Status,
		DeliveryAddress: order.DeliveryAddress,
		Note:            order.Note,
		DeliveredAt:     order.DeliveredAt,
		CreatedAt:       order.CreatedAt,
	}, nil
}

func (s *orderService) ListUserOrders(userID uint, filter repository.OrderFilter) (*PaginatedOrders, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	status := filter.Status
	if status == "" {
		status = "all"
	}
	sort := filter.Sort
	if sort == "" {
		sort = "createdAt:DESC"
	}

	cacheKey := redis.OrderListKey(userID, filter.Page, filter.Limit, status, sort)

	var cached PaginatedOrders
	if err := s.cache.GetOrderList(cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("order list cache read failed", zap.Error(err))
	}

	orders, total, err := s.orderRepo.FindByUser(userID, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	result := &PaginatedOrders{
		Orders: orders,
		Pagination: Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}

	// Best effort: listings tolerate the documented TTL staleness window.
	if err := s.cache.SetOrderList(cacheKey, result, s.cacheTTL); err != nil {
		s.logger.Warn("order list cache write failed", zap.Error(err))
	}
	return result, nil
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}

func lastName(full string) string {
	if i := strings.LastIndexByte(full, ' '); i >= 0 && i < len(full)-1 {
		return full[i+1:]
	}
	return full
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
