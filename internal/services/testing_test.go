package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"food-order-api/internal/database"
	"food-order-api/internal/models"
	"food-order-api/internal/redis"
	"food-order-api/pkg/iyzico"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         string(role),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRestaurant(t *testing.T, db *gorm.DB, ownerID uint, name string, deliveryFee float64) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		OwnerID:      ownerID,
		Name:         name,
		Cuisine:      "Turkish",
		City:         "Istanbul",
		Address:      "Test Street 1",
		DeliveryFee:  deliveryFee,
		DeliveryTime: 30,
		IsOpen:       true,
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

func createMenuItem(t *testing.T, db *gorm.DB, restaurant *models.Restaurant, name string, price float64) *models.MenuItem {
	t.Helper()
	category := &models.Category{RestaurantID: restaurant.ID, Name: "Mains"}
	require.NoError(t, db.Where("restaurant_id = ? AND name = ?", restaurant.ID, "Mains").
		FirstOrCreate(category).Error)

	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         name,
		Price:        price,
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// fakeTokenStore keeps refresh tokens in memory. deleteErr, when set, makes
// every delete fail.
type fakeTokenStore struct {
	tokens    map[string]uint
	deleteErr error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]uint{}}
}

func (f *fakeTokenStore) SetRefreshToken(token string, userID uint, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetRefreshToken(token string) (uint, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, redis.ErrCacheMiss
	}
	return userID, nil
}

func (f *fakeTokenStore) DeleteRefreshToken(token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, token)
	return nil
}

// fakeGateway records requests and plays back canned responses.
type fakeGateway struct {
	initResp     *iyzico.InitializeResponse
	initErr      error
	retrieveResp *iyzico.RetrieveResponse
	retrieveErr  error

	lastInit      *iyzico.CheckoutFormRequest
	retrieveCalls int
}

func (f *fakeGateway) InitializeCheckoutForm(req *iyzico.CheckoutFormRequest) (*iyzico.InitializeResponse, error) {
	f.lastInit = req
	return f.initResp, f.initErr
}

func (f *fakeGateway) RetrieveCheckoutForm(string) (*iyzico.RetrieveResponse, error) {
	f.retrieveCalls++
	return f.retrieveResp, f.retrieveErr
}

// fakeJSONCache backs both the menu and the order list caches with a map of
// marshaled values, mirroring how the redis client stores them.
type fakeJSONCache struct {
	values map[string][]byte
	sets   int
	gets   int
}

func newFakeJSONCache() *fakeJSONCache {
	return &fakeJSONCache{values: map[string][]byte{}}
}

func (f *fakeJSONCache) get(key string, dest interface{}) error {
	f.gets++
	raw, ok := f.values[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeJSONCache) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	f.sets++
	return nil
}

func (f *fakeJSONCache) GetOrderList(key string, dest interface{}) error {
	return f.get(key, dest)
}

func (f *fakeJSONCache) SetOrderList(key string, value interface{}, _ time.Duration) error {
	return f.set(key, value)
}

func (f *fakeJSONCache) GetMenu(restaurantID uint, dest interface{}) error {
	return f.get(menuKey(restaurantID), dest)
}

func (f *fakeJSONCache) SetMenu(restaurantID uint, value interface{}, _ time.Duration) error {
	return f.set(menuKey(restaurantID), value)
}

func (f *fakeJSONCache) DeleteMenu(restaurantID uint) error {
	delete(f.values, menuKey(restaurantID))
	return nil
}

func menuKey(restaurantID uint) string {
	return fmt.Sprintf("menu:%d", restaurantID)
}
