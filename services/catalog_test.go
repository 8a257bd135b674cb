package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUsers(db, newTestCredentials(t), false)
	catalog := NewCatalog(db)
	farmer := registerUser(t, users, "farmer1", models.RoleFarmer)
	buyer := registerUser(t, users, "buyer1", models.RoleBuyer)

	product := createProduct(t, catalog, farmer, "Maize", "grains", "45.50", 100)
	assert.Equal(t, farmer.ID, product.FarmerID)
	assert.Equal(t, "kg", product.Unit)
	assert.Equal(t, models.ProductActive, product.Status)
	assert.Empty(t, product.Images)

	price := dec("10")
	_, err := catalog.Create(ctx, buyer, models.ProductData{Name: "Beans", Category: "legumes", Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	negative := dec("-1")
	_, err = catalog.Create(ctx, farmer, models.ProductData{Name: "Beans", Category: "legumes", Price: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Farmer)
	assert.Equal(t, "farmer1", got.Farmer.Username)
	assert.Empty(t, got.Farmer.PasswordHash)
	assert.True(t, dec("45.50").Equal(got.Price))

	_, err = catalog.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogListPaginationAndFilters(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUsers(db, newTestCredentials(t), false)
	catalog := NewCatalog(db)
	f1 := registerUser(t, users, "farmer1", models.RoleFarmer)
	f2 := registerUser(t, users, "farmer2", models.RoleFarmer)

	for i := 0; i < 20; i++ {
		createProduct(t, catalog, f1, fmt.Sprintf("Tomato %d", i), "vegetables", "3", 10)
	}
	for i := 0; i < 5; i++ {
		createProduct(t, catalog, f2, fmt.Sprintf("Mango %d", i), "fruits", "8", 10)
	}

	products, pagination, err := catalog.List(ctx, models.ProductFilter{}, NewPage(2, 20))
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, int64(25), pagination.Total)
	assert.Equal(t, int64(2), pagination.Pages)
	assert.Equal(t, 2, pagination.Page)

	products, pagination, err = catalog.List(ctx, models.ProductFilter{Category: "fruits"}, NewPage(1, 0))
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, DefaultPageSize, pagination.Limit)

	products, _, err = catalog.List(ctx, models.ProductFilter{FarmerID: f2.ID, Search: "MANGO 3"}, NewPage(1, 20))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mango 3", products[0].Name)

	products, _, err = catalog.List(ctx, models.ProductFilter{Category: "fruits", Search: "tomato"}, NewPage(1, 20))
	require.NoError(t, err)
	assert.Empty(t, products)

	categories, err := catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruits", "vegetables"}, categories)
}

func TestCatalogOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUsers(db, newTestCredentials(t), false)
	catalog := NewCatalog(db)
	owner := registerUser(t, users, "owner", models.RoleFarmer)
	other := registerUser(t, users, "other", models.RoleFarmer)
	admin := models.User{ID: "admin-id", UserType: models.RoleAdmin}
	product := createProduct(t, catalog, owner, "Kale", "vegetables", "1.20", 40)

	name := "Sukuma"
	_, err := catalog.Update(ctx, product.ID, other, models.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "product not found or unauthorized")

	err = catalog.Delete(ctx, product.ID, other)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := catalog.Update(ctx, product.ID, owner, models.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sukuma", updated.Name)

	updated, err = catalog.AddImages(ctx, product.ID, owner, []string{"https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, []string(updated.Images))

	status := models.ProductInactive
	updated, err = catalog.Update(ctx, product.ID, admin, models.ProductPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ProductInactive, updated.Status)

	require.NoError(t, catalog.Delete(ctx, product.ID, owner))
	_, err = catalog.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogDeleteRecomputesCartTotals(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	users := NewUsers(db, newTestCredentials(t), false)
	catalog := NewCatalog(db)
	carts := NewCarts(db)
	farmer := registerUser(t, users, "farmer", models.RoleFarmer)
	buyer := registerUser(t, users, "buyer", models.RoleBuyer)
	other := registerUser(t, users, "other", models.RoleBuyer)
	tomatoes := createProduct(t, catalog, farmer, "Tomatoes", "vegetables", "2.50", 100)
	onions := createProduct(t, catalog, farmer, "Onions", "vegetables", "1.00", 100)

	_, err := carts.AddItem(ctx, buyer.ID, tomatoes.ID, 4)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, other.ID, tomatoes.ID, 2)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, other.ID, onions.ID, 3)
	require.NoError(t, err)
	assert.True(t, dec("8.00").Equal(cart.Total), cart.Total.String())

	require.NoError(t, catalog.Delete(ctx, tomatoes.ID, farmer))

	cart, err = carts.GetOrCreate(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero(), cart.Total.String())

	cart, err = carts.GetOrCreate(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, onions.ID, cart.Items[0].ProductID)
	assert.True(t, dec("3.00").Equal(cart.Total), cart.Total.String())
}
