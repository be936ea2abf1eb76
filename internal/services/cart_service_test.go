package services

import (
	"testing"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (CartService, *testCartFixture) {
	t.Helper()
	db := newTestDB(t)

	owner := createUser(t, db, "owner@test.local", models.RoleRestaurantOwner)
	customer := createUser(t, db, "customer@test.local", models.RoleCustomer)

	kebab := createRestaurant(t, db, owner.ID, "Kebab House", 10)
	pizza := createRestaurant(t, db, owner.ID, "Pizza Point", 12)

	fixture := &testCartFixture{
		customer:  customer,
		kebab:     kebab,
		pizza:     pizza,
		adana:     createMenuItem(t, db, kebab, "Adana Kebab", 150),
		ayran:     createMenuItem(t, db, kebab, "Ayran", 15),
		margarita: createMenuItem(t, db, pizza, "Margherita", 120),
	}

	svc := NewCartService(
		repository.NewCartItemRepository(db),
		repository.NewMenuItemRepository(db),
	)
	return svc, fixture
}

type testCartFixture struct {
	customer  *models.User
	kebab     *models.Restaurant
	pizza     *models.Restaurant
	adana     *models.MenuItem
	ayran     *models.MenuItem
	margarita *models.MenuItem
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, f := newCartService(t)

	first, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	second, err := svc.AddItem(f.customer.ID, f.adana.ID, 2, false)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemsCount)
}

func TestAddItemRejectsSecondRestaurant(t *testing.T) {
	svc, f := newCartService(t)

	_, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	_, err = svc.AddItem(f.customer.ID, f.margarita.ID, 1, false)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The cart is untouched by the rejected add.
	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.kebab.ID, cart.RestaurantID)
	assert.Equal(t, 1, cart.ItemsCount)
}

func TestAddItemReplacesCartWhenRequested(t *testing.T) {
	svc, f := newCartService(t)

	_, err := svc.AddItem(f.customer.ID, f.adana.ID, 2, false)
	require.NoError(t, err)
	_, err = svc.AddItem(f.customer.ID, f.ayran.ID, 1, false)
	require.NoError(t, err)

	_, err = svc.AddItem(f.customer.ID, f.margarita.ID, 1, true)
	require.NoError(t, err)

	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.pizza.ID, cart.RestaurantID)
	assert.Equal(t, 1, cart.ItemsCount)
}

func TestAddItemValidation(t *testing.T) {
	svc, f := newCartService(t)

	_, err := svc.AddItem(f.customer.ID, f.adana.ID, 0, false)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.AddItem(f.customer.ID, 9999, 1, false)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	svc, f := newCartService(t)

	line, err := svc.AddItem(f.customer.ID, f.adana.ID, 5, false)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(f.customer.ID, line.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, f := newCartService(t)

	line, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	removed, err := svc.UpdateQuantity(f.customer.ID, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemsCount)
}

func TestUpdateQuantityRejectsNegative(t *testing.T) {
	svc, f := newCartService(t)

	line, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(f.customer.ID, line.ID, -1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestUpdateQuantityHidesForeignLines(t *testing.T) {
	svc, f := newCartService(t)

	line, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	otherUserID := f.customer.ID + 100
	_, err = svc.UpdateQuantity(otherUserID, line.ID, 2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, f := newCartService(t)

	line, err := svc.AddItem(f.customer.ID, f.adana.ID, 1, false)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(f.customer.ID, line.ID))
	require.NoError(t, svc.RemoveItem(f.customer.ID, line.ID))
}

func TestGetCartTotals(t *testing.T) {
	svc, f := newCartService(t)

	_, err := svc.AddItem(f.customer.ID, f.adana.ID, 2, false)
	require.NoError(t, err)
	_, err = svc.AddItem(f.customer.ID, f.ayran.ID, 1, false)
	require.NoError(t, err)

	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)

	assert.InDelta(t, 315.0, cart.Subtotal, 0.001) // 2*150 + 15
	assert.InDelta(t, 10.0, cart.DeliveryFee, 0.001)
	assert.InDelta(t, 325.0, cart.Total, 0.001)
}

func TestGetCartEmpty(t *testing.T) {
	svc, f := newCartService(t)

	cart, err := svc.GetCart(f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemsCount)
	assert.Zero(t, cart.Total)
	assert.Zero(t, cart.DeliveryFee)
}
