package services

import (
	"errors"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"gorm.io/gorm"
)

// CartView is the computed cart projection: all lines plus totals. The
// delivery fee comes from the single restaurant present, or zero for an
// empty cart.
type CartView struct {
	Items        []models.CartItem `json:"cart_items"`
	ItemsCount   int               `json:"items_count"`
	RestaurantID uint              `json:"restaurant_id,omitempty"`
	Subtotal     float64           `json:"subtotal"`
	DeliveryFee  float64           `json:"delivery_fee"`
	Total        float64           `json:"total"`
}

type CartService interface {
	GetCart(userID uint) (*CartView, error)
	AddItem(userID, menuItemID uint, quantity int, clearCart bool) (*models.CartItem, error)
	// UpdateQuantity sets the line quantity to the requested value; zero
	// removes the line and returns nil.
	UpdateQuantity(userID, cartItemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo     repository.CartItemRepository
	menuItemRepo repository.MenuItemRepository
}

func NewCartService(cartRepo repository.CartItemRepository, menuItemRepo repository.MenuItemRepository) CartService {
	return &cartService{cartRepo: cartRepo, menuItemRepo: menuItemRepo}
}

func (s *cartService) GetCart(userID uint) (*CartView, error) {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}

	view := &CartView{Items: items, ItemsCount: len(items)}
	for _, item := range items {
		view.Subtotal += item.LineTotal()
	}
	if len(items) > 0 {
		view.RestaurantID = items[0].RestaurantID
		view.DeliveryFee = items[0].Restaurant.DeliveryFee
	}
	view.Total = view.Subtotal + view.DeliveryFee
	return view, nil
}

func (s *cartService) AddItem(userID, menuItemID uint, quantity int, clearCart bool) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.BadRequest("quantity must be at least 1")
	}

	menuItem, err := s.menuItemRepo.GetByID(menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("menu item not found")
		}
		return nil, apperrors.Internal("failed to load menu item", err)
	}
	if !menuItem.IsAvailable {
		return nil, apperrors.BadRequest("menu item is not available")
	}

	existing, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}

	if len(existing) > 0 && existing[0].RestaurantID != menuItem.RestaurantID {
		if !clearCart {
			return nil, apperrors.Conflict(
				"cart contains items from another restaurant; retry with clearCart=true to replace it")
		}
		if err := s.cartRepo.DeleteByUser(userID); err != nil {
			return nil, apperrors.Internal("failed to clear cart", err)
		}
		existing = nil
	}

	line, err := s.cartRepo.GetByUserAndMenuItem(userID, menuItemID)
	switch {
	case err == nil:
		line.Quantity += quantity
		if err := s.cartRepo.Update(line); err != nil {
			return nil, apperrors.Internal("failed to update cart line", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = &models.CartItem{
			UserID:       userID,
			MenuItemID:   menuItemID,
			RestaurantID: menuItem.RestaurantID,
			Quantity:     quantity,
		}
		if err := s.cartRepo.Create(line); err != nil {
			return nil, apperrors.Internal("failed to add cart line", err)
		}
	default:
		return nil, apperrors.Internal("failed to look up cart line", err)
	}

	line.MenuItem = *menuItem
	return line, nil
}

func (s *cartService) UpdateQuantity(userID, cartItemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, apperrors.BadRequest("quantity cannot be negative")
	}

	line, err := s.cartRepo.GetByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart item not found")
		}
		return nil, apperrors.Internal("failed to load cart line", err)
	}
	if line.UserID != userID {
		return nil, apperrors.NotFound("cart item not found")
	}

	if quantity == 0 {
		if err := s.cartRepo.Delete(line.ID); err != nil {
			return nil, apperrors.Internal("failed to remove cart line", err)
		}
		return nil, nil
	}

	line.Quantity = quantity
	if err := s.cartRepo.Update(line); err != nil {
		return nil, apperrors.Internal("failed to update cart line", err)
	}
	return line, nil
}

func (s *cartService) RemoveItem(userID, cartItemID uint) error {
	line, err := s.cartRepo.GetByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // already gone
		}
		return apperrors.Internal("failed to load cart line", err)
	}
	if line.UserID != userID {
		return apperrors.NotFound("cart item not found")
	}
	if err := s.cartRepo.Delete(line.ID); err != nil {
		return apperrors.Internal("failed to remove cart line", err)
	}
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		return apperrors.Internal("failed to clear cart", err)
	}
	return nil
}
