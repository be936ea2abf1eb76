package repository

import (
	"food-order-api/internal/models"

	"gorm.io/gorm"
)

type CartItemRepository interface {
	GetByUser(userID uint) ([]models.CartItem, error)
	GetByID(id uint) (*models.CartItem, error)
	GetByUserAndMenuItem(userID, menuItemID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
}

type cartItemRepository struct {
	db *gorm.DB
}

func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &cartItemRepository{db: db}
}

func (r *cartItemRepository) GetByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.
		Where("user_id = ?", userID).
		Preload("MenuItem").
		Preload("Restaurant").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartItemRepository) GetByID(id uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("MenuItem").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) GetByUserAndMenuItem(userID, menuItemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Preload("MenuItem").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartItemRepository) Update(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// Delete removes a single line. Deleting an absent row is not an error.
func (r *cartItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.CartItem{}, id).Error
}

// DeleteByUser clears the whole cart for a user.
func (r *cartItemRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
