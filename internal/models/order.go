package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderOnTheWay  OrderStatus = "on_the_way"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	User            User           `json:"-" gorm:"foreignKey:UserID"`
	RestaurantID    uint           `json:"restaurant_id" gorm:"not null;index"`
	Restaurant      Restaurant     `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Status          OrderStatus    `json:"status" gorm:"default:'pending';index"`
	TotalAmount     float64        `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	DeliveryAddress string         `json:"delivery_address" gorm:"not null"`
	Note            string         `json:"note" gorm:"type:text"`
	ClientIP        string         `json:"-"`
	PaymentID       string         `json:"payment_id"` // gateway transaction id, set on completion
	Items           []OrderItem    `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	DeliveredAt     *time.Time     `json:"delivered_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
