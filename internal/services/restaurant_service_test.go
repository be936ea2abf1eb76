package services

import (
	"testing"
	"time"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type restaurantTestEnv struct {
	db    *gorm.DB
	svc   RestaurantService
	cache *fakeJSONCache
	owner *models.User
	admin *models.User
}

func newRestaurantTestEnv(t *testing.T) *restaurantTestEnv {
	t.Helper()
	db := newTestDB(t)
	cache := newFakeJSONCache()
	svc := NewRestaurantService(
		repository.NewRestaurantRepository(db),
		repository.NewMenuItemRepository(db),
		cache,
		time.Hour,
		zap.NewNop(),
	)
	return &restaurantTestEnv{
		db:    db,
		svc:   svc,
		cache: cache,
		owner: createUser(t, db, "owner@test.local", models.RoleRestaurantOwner),
		admin: createUser(t, db, "admin@test.local", models.RoleAdmin),
	}
}

func TestListRestaurantsFilters(t *testing.T) {
	env := newRestaurantTestEnv(t)

	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)
	kebab.Rating = 4.6
	require.NoError(t, env.db.Save(kebab).Error)

	pizza := createRestaurant(t, env.db, env.owner.ID, "Pizza Point", 12)
	pizza.City = "Ankara"
	pizza.Cuisine = "Italian"
	require.NoError(t, env.db.Save(pizza).Error)

	closed := createRestaurant(t, env.db, env.owner.ID, "Closed Diner", 8)
	closed.IsOpen = false
	require.NoError(t, env.db.Save(closed).Error)

	all, err := env.svc.ListRestaurants(repository.RestaurantFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Restaurants, 2) // closed restaurants are hidden

	byCity, err := env.svc.ListRestaurants(repository.RestaurantFilter{City: "Ankara"})
	require.NoError(t, err)
	require.Len(t, byCity.Restaurants, 1)
	assert.Equal(t, "Pizza Point", byCity.Restaurants[0].Name)

	byCuisine, err := env.svc.ListRestaurants(repository.RestaurantFilter{Cuisine: "Italian"})
	require.NoError(t, err)
	require.Len(t, byCuisine.Restaurants, 1)

	byRating, err := env.svc.ListRestaurants(repository.RestaurantFilter{MinRating: 4.5})
	require.NoError(t, err)
	require.Len(t, byRating.Restaurants, 1)
	assert.Equal(t, "Kebab House", byRating.Restaurants[0].Name)

	bySearch, err := env.svc.ListRestaurants(repository.RestaurantFilter{Search: "pizza"})
	require.NoError(t, err)
	require.Len(t, bySearch.Restaurants, 1)
}

func TestGetMenuBuildsAndCaches(t *testing.T) {
	env := newRestaurantTestEnv(t)
	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)
	createMenuItem(t, env.db, kebab, "Adana Kebab", 150)

	menu, err := env.svc.GetMenu(kebab.ID)
	require.NoError(t, err)
	assert.Equal(t, kebab.ID, menu.Restaurant.ID)
	require.Len(t, menu.Categories, 1)
	require.Len(t, menu.Categories[0].Items, 1)
	assert.Equal(t, "Adana Kebab", menu.Categories[0].Items[0].Name)
	assert.Equal(t, 1, env.cache.sets)

	// Second read is served from the cache without another build.
	again, err := env.svc.GetMenu(kebab.ID)
	require.NoError(t, err)
	assert.Equal(t, menu.Restaurant.Name, again.Restaurant.Name)
	assert.Equal(t, 1, env.cache.sets)
}

func TestMenuWritesInvalidateCache(t *testing.T) {
	env := newRestaurantTestEnv(t)
	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)
	createMenuItem(t, env.db, kebab, "Adana Kebab", 150)

	menu, err := env.svc.GetMenu(kebab.ID)
	require.NoError(t, err)
	require.Len(t, menu.Categories[0].Items, 1)

	_, err = env.svc.AddMenuItem(env.owner, kebab.ID, CreateMenuItemInput{
		CategoryID: menu.Categories[0].ID,
		Name:       "Urfa Kebab",
		Price:      145,
	})
	require.NoError(t, err)

	// The stale entry is gone, so the new item appears immediately.
	rebuilt, err := env.svc.GetMenu(kebab.ID)
	require.NoError(t, err)
	assert.Len(t, rebuilt.Categories[0].Items, 2)
}

func TestGetMenuUnknownRestaurant(t *testing.T) {
	env := newRestaurantTestEnv(t)

	_, err := env.svc.GetMenu(9999)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateRestaurantAuthorization(t *testing.T) {
	env := newRestaurantTestEnv(t)
	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)

	newName := "Kebab Palace"

	otherOwner := createUser(t, env.db, "other@test.local", models.RoleRestaurantOwner)
	_, err := env.svc.UpdateRestaurant(otherOwner, kebab.ID, UpdateRestaurantInput{Name: &newName})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	updated, err := env.svc.UpdateRestaurant(env.owner, kebab.ID, UpdateRestaurantInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Kebab Palace", updated.Name)

	// Admin may manage any restaurant.
	isOpen := false
	updated, err = env.svc.UpdateRestaurant(env.admin, kebab.ID, UpdateRestaurantInput{IsOpen: &isOpen})
	require.NoError(t, err)
	assert.False(t, updated.IsOpen)
}

func TestAddMenuItemRequiresOwnCategory(t *testing.T) {
	env := newRestaurantTestEnv(t)
	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)
	pizza := createRestaurant(t, env.db, env.owner.ID, "Pizza Point", 12)
	pizzaItem := createMenuItem(t, env.db, pizza, "Margherita", 120)

	// The category belongs to the other restaurant.
	_, err := env.svc.AddMenuItem(env.owner, kebab.ID, CreateMenuItemInput{
		CategoryID: pizzaItem.CategoryID,
		Name:       "Adana Kebab",
		Price:      150,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSearchByType(t *testing.T) {
	env := newRestaurantTestEnv(t)
	kebab := createRestaurant(t, env.db, env.owner.ID, "Kebab House", 10)
	createMenuItem(t, env.db, kebab, "Adana Kebab", 150)

	all, err := env.svc.Search("kebab", SearchAll, "")
	require.NoError(t, err)
	assert.Len(t, all.Restaurants, 1)
	assert.Len(t, all.MenuItems, 1)

	restaurantsOnly, err := env.svc.Search("kebab", SearchRestaurants, "")
	require.NoError(t, err)
	assert.Len(t, restaurantsOnly.Restaurants, 1)
	assert.Empty(t, restaurantsOnly.MenuItems)

	itemsOnly, err := env.svc.Search("adana", SearchMenuItems, "")
	require.NoError(t, err)
	assert.Empty(t, itemsOnly.Restaurants)
	assert.Len(t, itemsOnly.MenuItems, 1)
}

func TestCreateRestaurantOpensByDefault(t *testing.T) {
	env := newRestaurantTestEnv(t)

	restaurant, err := env.svc.CreateRestaurant(env.owner, CreateRestaurantInput{
		Name:    "New Place",
		Cuisine: "Turkish",
		City:    "Istanbul",
		Address: "Somewhere 1",
	})
	require.NoError(t, err)
	assert.True(t, restaurant.IsOpen)
	assert.Equal(t, env.owner.ID, restaurant.OwnerID)
}
