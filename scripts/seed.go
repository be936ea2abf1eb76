package main

import (
	"errors"
	"fmt"
	"log"

	"food-order-api/internal/config"
	"food-order-api/internal/database"
	"food-order-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds the database with demo accounts, restaurants and menus for local
// development. Safe to run repeatedly, existing rows are kept.
func main() {
	fmt.Println("Seeding database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	seedUser(db, "admin@food-order.local", "admin123", "Admin", models.RoleAdmin)
	owner := seedUser(db, "owner@food-order.local", "owner123", "Mehmet Usta", models.RoleRestaurantOwner)
	seedUser(db, "customer@food-order.local", "customer123", "Ayse Yilmaz", models.RoleCustomer)

	kebabHouse := seedRestaurant(db, &models.Restaurant{
		OwnerID:        owner.ID,
		Name:           "Kebab House",
		Cuisine:        "Turkish",
		City:           "Istanbul",
		District:       "Kadikoy",
		Address:        "Moda Cad. 12",
		Phone:          "+90 216 555 0101",
		Rating:         4.6,
		ReviewCount:    128,
		DeliveryTime:   35,
		DeliveryFee:    10,
		MinOrderAmount: 50,
		IsOpen:         true,
	})
	seedMenu(db, kebabHouse, map[string][]models.MenuItem{
		"Kebabs": {
			{Name: "Adana Kebab", Description: "Spicy minced lamb skewer", Price: 150, IsAvailable: true},
			{Name: "Urfa Kebab", Description: "Mild minced lamb skewer", Price: 145, IsAvailable: true},
		},
		"Drinks": {
			{Name: "Ayran", Description: "Salted yogurt drink", Price: 15, IsAvailable: true},
			{Name: "Salgam", Description: "Fermented turnip juice", Price: 18, IsAvailable: true},
		},
	})

	pizzaPoint := seedRestaurant(db, &models.Restaurant{
		OwnerID:        owner.ID,
		Name:           "Pizza Point",
		Cuisine:        "Italian",
		City:           "Istanbul",
		District:       "Besiktas",
		Address:        "Barbaros Blv. 44",
		Phone:          "+90 212 555 0202",
		Rating:         4.3,
		ReviewCount:    86,
		DeliveryTime:   30,
		DeliveryFee:    12,
		MinOrderAmount: 60,
		IsOpen:         true,
	})
	seedMenu(db, pizzaPoint, map[string][]models.MenuItem{
		"Pizzas": {
			{Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: 120, IsAvailable: true},
			{Name: "Pepperoni", Description: "Tomato, mozzarella, pepperoni", Price: 140, IsAvailable: true},
		},
		"Salads": {
			{Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Price: 80, IsAvailable: true},
		},
	})

	fmt.Println("Seeding completed.")
}

func seedUser(db *gorm.DB, email, password, name string, role models.UserRole) *models.User {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up user:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         string(role),
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}
	fmt.Printf("Created user %s (%s)\n", email, role)
	return user
}

func seedRestaurant(db *gorm.DB, restaurant *models.Restaurant) *models.Restaurant {
	var existing models.Restaurant
	err := db.Where("name = ?", restaurant.Name).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up restaurant:", err)
	}

	if err := db.Create(restaurant).Error; err != nil {
		log.Fatal("Failed to create restaurant:", err)
	}
	fmt.Printf("Created restaurant %s\n", restaurant.Name)
	return restaurant
}

func seedMenu(db *gorm.DB, restaurant *models.Restaurant, menu map[string][]models.MenuItem) {
	for categoryName, items := range menu {
		category := &models.Category{
			RestaurantID: restaurant.ID,
			Name:         categoryName,
		}
		if err := db.Where("restaurant_id = ? AND name = ?", restaurant.ID, categoryName).
			FirstOrCreate(category).Error; err != nil {
			log.Fatal("Failed to create category:", err)
		}

		for i := range items {
			item := items[i]
			item.RestaurantID = restaurant.ID
			item.CategoryID = category.ID

			var existing models.MenuItem
			err := db.Where("restaurant_id = ? AND name = ?", restaurant.ID, item.Name).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatal("Failed to look up menu item:", err)
			}
			if err := db.Create(&item).Error; err != nil {
				log.Fatal("Failed to create menu item:", err)
			}
		}
	}
}
