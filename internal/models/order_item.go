package models

import "time"

// OrderItem is an immutable snapshot of a menu item at order time. Name and
// price are copied so later menu edits never change a placed order.
type OrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"not null;index"`
	MenuItemID uint      `json:"menu_item_id" gorm:"not null"`
	Name       string    `json:"name" gorm:"not null"`
	UnitPrice  float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	LineTotal  float64   `json:"line_total" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time `json:"created_at"`
}
