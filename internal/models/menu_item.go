package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	RestaurantID uint           `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   Restaurant     `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CategoryID   uint           `json:"category_id" gorm:"not null;index"`
	Category     Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Price        float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL     string         `json:"image_url"`
	IsAvailable  bool           `json:"is_available" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
