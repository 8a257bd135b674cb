package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Kariqs/agronexus-api/initializers"
	"github.com/Kariqs/agronexus-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a private in-memory database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

func newTestCredentials(t *testing.T) *Credentials {
	t.Helper()
	creds, err := NewCredentials("test-secret", "test-salt", "HS256")
	require.NoError(t, err)
	return creds
}

func registerUser(t *testing.T, users *Users, username, role string) models.User {
	t.Helper()
	user, err := users.Register(context.Background(), models.RegisterData{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		UserType: role,
	})
	require.NoError(t, err)
	return user
}

func createProduct(t *testing.T, catalog *Catalog, farmer models.User, name, category, price string, quantity int) models.Product {
	t.Helper()
	p := decimal.RequireFromString(price)
	product, err := catalog.Create(context.Background(), farmer, models.ProductData{
		Name:     name,
		Category: category,
		Price:    &p,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, productID string) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Where("id = ?", productID).First(&product).Error)
	return product.Quantity
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (r *recordingNotifier) OrderPlaced(ctx context.Context, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}
