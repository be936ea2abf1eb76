package repository

import (
	"food-order-api/internal/models"

	"gorm.io/gorm"
)

// RestaurantFilter narrows the open-restaurant listing.
type RestaurantFilter struct {
	City      string
	Cuisine   string
	MinRating float64
	Search    string
	Page      int
	Limit     int
}

type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	FindOpen(filter RestaurantFilter) ([]models.Restaurant, int64, error)
	GetCategoriesWithItems(restaurantID uint) ([]models.Category, error)
	GetCategory(restaurantID, categoryID uint) (*models.Category, error)
	CreateCategory(category *models.Category) error
	Search(query, city string, limit int) ([]models.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

func (r *restaurantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Restaurant{}, id).Error
}

func (r *restaurantRepository) FindOpen(filter RestaurantFilter) ([]models.Restaurant, int64, error) {
	query := r.db.Model(&models.Restaurant{}).Where("is_open = ?", true)

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Cuisine != "" {
		query = query.Where("cuisine = ?", filter.Cuisine)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var restaurants []models.Restaurant
	err := query.
		Order("rating DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&restaurants).Error
	return restaurants, total, err
}

func (r *restaurantRepository) GetCategoriesWithItems(restaurantID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Where("restaurant_id = ?", restaurantID).
		Preload("MenuItems").
		Find(&categories).Error
	return categories, err
}

func (r *restaurantRepository) GetCategory(restaurantID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.
		Where("id = ? AND restaurant_id = ?", categoryID, restaurantID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *restaurantRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *restaurantRepository) Search(query, city string, limit int) ([]models.Restaurant, error) {
	q := r.db.Model(&models.Restaurant{})
	if query != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
	}
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var restaurants []models.Restaurant
	err := q.Limit(limit).Find(&restaurants).Error
	return restaurants, err
}
