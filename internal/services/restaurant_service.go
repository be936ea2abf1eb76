package services

import (
	"errors"
	"time"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/redis"
	"food-order-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MenuCache caches the per-restaurant menu payload.
type MenuCache interface {
	GetMenu(restaurantID uint, dest interface{}) error
	SetMenu(restaurantID uint, value interface{}, ttl time.Duration) error
	DeleteMenu(restaurantID uint) error
}

type MenuView struct {
	Restaurant MenuRestaurant `json:"restaurant"`
	Categories []MenuCategory `json:"categories"`
}

type MenuRestaurant struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type MenuCategory struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Items []MenuItemView `json:"items"`
}

type MenuItemView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
}

type PaginatedRestaurants struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Pagination  Pagination          `json:"pagination"`
}

type SearchType string

const (
	SearchAll         SearchType = "all"
	SearchRestaurants SearchType = "restaurant"
	SearchMenuItems   SearchType = "menu_item"
)

type SearchResults struct {
	Restaurants []models.Restaurant `json:"restaurants,omitempty"`
	MenuItems   []models.MenuItem   `json:"menu_items,omitempty"`
}

type CreateRestaurantInput struct {
	Name           string
	Cuisine        string
	City           string
	District       string
	Address        string
	Phone          string
	DeliveryTime   int
	DeliveryFee    float64
	MinOrderAmount float64
}

type UpdateRestaurantInput struct {
	Name           *string
	Cuisine        *string
	City           *string
	District       *string
	Address        *string
	Phone          *string
	DeliveryTime   *int
	DeliveryFee    *float64
	MinOrderAmount *float64
	IsOpen         *bool
}

type CreateMenuItemInput struct {
	CategoryID  uint
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

type RestaurantService interface {
	ListRestaurants(filter repository.RestaurantFilter) (*PaginatedRestaurants, error)
	GetRestaurant(id uint) (*models.Restaurant, error)
	GetMenu(restaurantID uint) (*MenuView, error)
	GetMenuItem(id uint) (*models.MenuItem, error)
	Search(query string, searchType SearchType, city string) (*SearchResults, error)

	CreateRestaurant(owner *models.User, input CreateRestaurantInput) (*models.Restaurant, error)
	UpdateRestaurant(actor *models.User, id uint, input UpdateRestaurantInput) (*models.Restaurant, error)
	DeleteRestaurant(actor *models.User, id uint) error
	SetRestaurantImage(actor *models.User, id uint, imageURL string) error
	CreateCategory(actor *models.User, restaurantID uint, name, description string) (*models.Category, error)
	AddMenuItem(actor *models.User, restaurantID uint, input CreateMenuItemInput) (*models.MenuItem, error)
	SetMenuItemImage(actor *models.User, menuItemID uint, imageURL string) error
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	menuItemRepo   repository.MenuItemRepository
	cache          MenuCache
	menuCacheTTL   time.Duration
	logger         *zap.Logger
}

func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	menuItemRepo repository.MenuItemRepository,
	cache MenuCache,
	menuCacheTTL time.Duration,
	logger *zap.Logger,
) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		menuItemRepo:   menuItemRepo,
		cache:          cache,
		menuCacheTTL:   menuCacheTTL,
		logger:         logger,
	}
}

func (s *restaurantService) ListRestaurants(filter repository.RestaurantFilter) (*PaginatedRestaurants, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	restaurants, total, err := s.restaurantRepo.FindOpen(filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list restaurants", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &PaginatedRestaurants{
		Restaurants: restaurants,
		Pagination: Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}, nil
}

func (s *restaurantService) GetRestaurant(id uint) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("restaurant not found")
		}
		return nil, apperrors.Internal("failed to load restaurant", err)
	}
	return restaurant, nil
}

func (s *restaurantService) GetMenu(restaurantID uint) (*MenuView, error) {
	var cached MenuView
	if err := s.cache.GetMenu(restaurantID, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("menu cache read failed", zap.Error(err))
	}

	restaurant, err := s.GetRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}

	categories, err := s.restaurantRepo.GetCategoriesWithItems(restaurantID)
	if err != nil {
		return nil, apperrors.Internal("failed to load menu", err)
	}

	view := &MenuView{
		Restaurant: MenuRestaurant{ID: restaurant.ID, Name: restaurant.Name},
		Categories: make([]MenuCategory, 0, len(categories)),
	}
	for _, category := range categories {
		menuCategory := MenuCategory{
			ID:    category.ID,
			Name:  category.Name,
			Items: make([]MenuItemView, 0, len(category.MenuItems)),
		}
		for _, item := range category.MenuItems {
			menuCategory.Items = append(menuCategory.Items, MenuItemView{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				ImageURL:    item.ImageURL,
				IsAvailable: item.IsAvailable,
			})
		}
		view.Categories = append(view.Categories, menuCategory)
	}

	if err := s.cache.SetMenu(restaurantID, view, s.menuCacheTTL); err != nil {
		s.logger.Warn("menu cache write failed", zap.Error(err))
	}
	return view, nil
}

func (s *restaurantService) GetMenuItem(id uint) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("menu item not found")
		}
		return nil, apperrors.Internal("failed to load menu item", err)
	}
	return item, nil
}

func (s *restaurantService) Search(query string, searchType SearchType, city string) (*SearchResults, error) {
	if searchType == "" {
		searchType = SearchAll
	}

	results := &SearchResults{}
	if searchType == SearchAll || searchType == SearchRestaurants {
		restaurants, err := s.restaurantRepo.Search(query, city, 10)
		if err != nil {
			return nil, apperrors.Internal("restaurant search failed", err)
		}
		results.Restaurants = restaurants
	}
	if searchType == SearchAll || searchType == SearchMenuItems {
		items, err := s.menuItemRepo.Search(query, city, 10)
		if err != nil {
			return nil, apperrors.Internal("menu item search failed", err)
		}
		results.MenuItems = items
	}
	return results, nil
}

func (s *restaurantService) CreateRestaurant(owner *models.User, input CreateRestaurantInput) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{
		OwnerID:        owner.ID,
		Name:           input.Name,
		Cuisine:        input.Cuisine,
		City:           input.City,
		District:       input.District,
		Address:        input.Address,
		Phone:          input.Phone,
		DeliveryTime:   input.DeliveryTime,
		DeliveryFee:    input.DeliveryFee,
		MinOrderAmount: input.MinOrderAmount,
		IsOpen:         true,
	}
	if err := s.restaurantRepo.Create(restaurant); err != nil {
		return nil, apperrors.Internal("failed to create restaurant", err)
	}
	return restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(actor *models.User, id uint, input UpdateRestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.GetRestaurant(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(actor, restaurant); err != nil {
		return nil, err
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Cuisine != nil {
		restaurant.Cuisine = *input.Cuisine
	}
	if input.City != nil {
		restaurant.City = *input.City
	}
	if input.District != nil {
		restaurant.District = *input.District
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}
	if input.Phone != nil {
		restaurant.Phone = *input.Phone
	}
	if input.DeliveryTime != nil {
		restaurant.DeliveryTime = *input.DeliveryTime
	}
	if input.DeliveryFee != nil {
		restaurant.DeliveryFee = *input.DeliveryFee
	}
	if input.MinOrderAmount != nil {
		restaurant.MinOrderAmount = *input.MinOrderAmount
	}
	if input.IsOpen != nil {
		restaurant.IsOpen = *input.IsOpen
	}

	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return nil, apperrors.Internal("failed to update restaurant", err)
	}
	return restaurant, nil
}

func (s *restaurantService) DeleteRestaurant(actor *models.User, id uint) error {
	restaurant, err := s.GetRestaurant(id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, restaurant); err != nil {
		return err
	}
	if err := s.restaurantRepo.Delete(id); err != nil {
		return apperrors.Internal("failed to delete restaurant", err)
	}
	s.invalidateMenu(id)
	return nil
}

func (s *restaurantService) SetRestaurantImage(actor *models.User, id uint, imageURL string) error {
	restaurant, err := s.GetRestaurant(id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, restaurant); err != nil {
		return err
	}
	restaurant.ImageURL = imageURL
	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return apperrors.Internal("failed to update restaurant image", err)
	}
	return nil
}

func (s *restaurantService) CreateCategory(actor *models.User, restaurantID uint, name, description string) (*models.Category, error) {
	restaurant, err := s.GetRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(actor, restaurant); err != nil {
		return nil, err
	}

	category := &models.Category{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  description,
	}
	if err := s.restaurantRepo.CreateCategory(category); err != nil {
		return nil, apperrors.Internal("failed to create category", err)
	}
	s.invalidateMenu(restaurantID)
	return category, nil
}

func (s *restaurantService) AddMenuItem(actor *models.User, restaurantID uint, input CreateMenuItemInput) (*models.MenuItem, error) {
	restaurant, err := s.GetRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(actor, restaurant); err != nil {
		return nil, err
	}

	if _, err := s.restaurantRepo.GetCategory(restaurantID, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("category not found")
		}
		return nil, apperrors.Internal("failed to load category", err)
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		IsAvailable:  true,
	}
	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, apperrors.Internal("failed to create menu item", err)
	}
	s.invalidateMenu(restaurantID)
	return item, nil
}

func (s *restaurantService) SetMenuItemImage(actor *models.User, menuItemID uint, imageURL string) error {
	item, err := s.GetMenuItem(menuItemID)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, &item.Restaurant); err != nil {
		return err
	}
	item.ImageURL = imageURL
	if err := s.menuItemRepo.Update(item); err != nil {
		return apperrors.Internal("failed to update menu item image", err)
	}
	s.invalidateMenu(item.RestaurantID)
	return nil
}

func (s *restaurantService) authorizeManage(actor *models.User, restaurant *models.Restaurant) error {
	if models.UserRole(actor.Role) == models.RoleAdmin {
		return nil
	}
	if models.UserRole(actor.Role) == models.RoleRestaurantOwner && restaurant.OwnerID == actor.ID {
		return nil
	}
	return apperrors.Unauthorized("not allowed to manage this restaurant")
}

// invalidateMenu drops the cached menu after a write; readers simply rebuild
// it on the next request.
func (s *restaurantService) invalidateMenu(restaurantID uint) {
	if err := s.cache.DeleteMenu(restaurantID); err != nil {
		s.logger.Warn("menu cache invalidation failed",
			zap.Uint("restaurant_id", restaurantID), zap.Error(err))
	}
}
