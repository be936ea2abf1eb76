package models

import "time"

// CartItem is one (user, menu item) line. RestaurantID is denormalized so the
// single-restaurant cart rule can be checked without joining through MenuItem.
type CartItem struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_menu_item"`
	MenuItemID   uint       `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_cart_user_menu_item"`
	MenuItem     MenuItem   `json:"menu_item" gorm:"foreignKey:MenuItemID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   Restaurant `json:"restaurant" gorm:"foreignKey:RestaurantID"`
	Quantity     int        `json:"quantity" gorm:"not null;default:1;check:quantity > 0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (ci *CartItem) LineTotal() float64 {
	return ci.MenuItem.Price * float64(ci.Quantity)
}
