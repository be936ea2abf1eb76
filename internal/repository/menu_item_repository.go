package repository

import (
	"food-order-api/internal/models"

	"gorm.io/gorm"
)

type MenuItemRepository interface {
	Create(item *models.MenuItem) error
	GetByID(id uint) (*models.MenuItem, error)
	Update(item *models.MenuItem) error
	Delete(id uint) error
	Search(query, city string, limit int) ([]models.MenuItem, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

func (r *menuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.
		Preload("Restaurant").
		Preload("Category").
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

func (r *menuItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}

func (r *menuItemRepository) Search(query, city string, limit int) ([]models.MenuItem, error) {
	q := r.db.Model(&models.MenuItem{}).
		Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Preload("Restaurant")
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where(
			"LOWER(menu_items.name) LIKE LOWER(?) OR LOWER(menu_items.description) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if city != "" {
		q = q.Where("restaurants.city = ?", city)
	}
	var items []models.MenuItem
	err := q.Limit(limit).Find(&items).Error
	return items, err
}
