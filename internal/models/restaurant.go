package models

import (
	"time"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OwnerID        uint           `json:"owner_id" gorm:"not null;index"`
	Owner          User           `json:"-" gorm:"foreignKey:OwnerID"`
	Name           string         `json:"name" gorm:"not null"`
	Cuisine        string         `json:"cuisine" gorm:"not null"`
	City           string         `json:"city" gorm:"not null;index"`
	District       string         `json:"district"`
	Address        string         `json:"address" gorm:"not null"`
	Phone          string         `json:"phone"`
	Rating         float64        `json:"rating" gorm:"default:0"`
	ReviewCount    int            `json:"review_count" gorm:"default:0"`
	DeliveryTime   int            `json:"delivery_time_minutes"`
	DeliveryFee    float64        `json:"delivery_fee" gorm:"default:0"`
	MinOrderAmount float64        `json:"min_order_amount" gorm:"default:0"`
	ImageURL       string         `json:"image_url"`
	IsOpen         bool           `json:"is_open" gorm:"default:true"`
	Categories     []Category     `json:"categories,omitempty" gorm:"foreignKey:RestaurantID"`
	MenuItems      []MenuItem     `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type Category struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;index"`
	Name         string     `json:"name" gorm:"not null"`
	Description  string     `json:"description"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
