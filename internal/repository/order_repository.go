package repository

import (
	"food-order-api/internal/models"

	"gorm.io/gorm"
)

// OrderFilter narrows and orders a user's order listing. Sort is
// "field:direction"; fields outside the allow list fall back to created_at.
type OrderFilter struct {
	Status string
	Sort   string
	Page   int
	Limit  int
}

var orderSortFields = map[string]string{
	"createdAt":   "created_at",
	"totalAmount": "total_amount",
	"status":      "status",
}

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDForUser(id, userID uint) (*models.Order, error)
	GetWithRestaurant(id uint) (*models.Order, error)
	Update(order *models.Order) error
	FindByUser(userID uint, filter OrderFilter) ([]models.Order, int64, error)
	MarkPaidAndClearCart(order *models.Order, paymentID string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByIDForUser(id, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Restaurant").
		Preload("Items").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetWithRestaurant(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Restaurant").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) FindByUser(userID uint, filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, direction := parseOrderSort(filter.Sort)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var orders []models.Order
	err := query.
		Preload("Restaurant").
		Preload("Items").
		Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// MarkPaidAndClearCart flips the order to paid, records the gateway payment
// id and empties the user's cart in a single transaction, so a crash cannot
// leave a paid order with a stale cart or the other way around.
func (r *orderRepository) MarkPaidAndClearCart(order *models.Order, paymentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		order.Status = models.OrderPaid
		order.PaymentID = paymentID
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
}

func parseOrderSort(sort string) (column, direction string) {
	column, direction = "created_at", "DESC"
	if sort == "" {
		return
	}
	field := sort
	dir := "DESC"
	for i := 0; i < len(sort); i++ {
		if sort[i] == ':' {
			field, dir = sort[:i], sort[i+1:]
			break
		}
	}
	if mapped, ok := orderSortFields[field]; ok {
		column = mapped
	}
	if dir == "ASC" || dir == "asc" {
		direction = "ASC"
	}
	return
}
