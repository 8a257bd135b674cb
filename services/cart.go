package services

import (
	"context"
	"errors"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errCartNotFound = &Error{Kind: KindNotFound, Message: "cart not found"}

type Carts struct {
	db *gorm.DB
}

func NewCarts(db *gorm.DB) *Carts {
	return &Carts{db: db}
}

func (s *Carts) load(ctx context.Context, cartID string) (models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product").
		Preload("Items.Product.Farmer", farmerSummary).
		Where("id = ?", cartID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cart{}, errCartNotFound
	}
	return cart, err
}

func ensureCart(tx *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where(models.Cart{UserID: userID}).
		Attrs(models.Cart{Total: decimal.Zero}).
		FirstOrCreate(&cart).Error
	return cart, err
}

func findCart(tx *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cart{}, errCartNotFound
	}
	return cart, err
}

// recomputeTotal sets the cart total to the sum of its persisted lines.
func recomputeTotal(tx *gorm.DB, cartID string) (decimal.Decimal, error) {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	err := tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("total", total).Error
	return total, err
}

func (s *Carts) GetOrCreate(ctx context.Context, userID string) (models.Cart, error) {
	cart, err := ensureCart(s.db.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a creation race with a concurrent request for the same user.
		cart, err = findCart(s.db.WithContext(ctx), userID)
	}
	if err != nil {
		return models.Cart{}, err
	}
	return s.load(ctx, cart.ID)
}

// AddItem sets the line for productID to quantity at the product's current
// price, creating the cart on first use.
func (s *Carts) AddItem(ctx context.Context, userID, productID string, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, newError(KindValidation, "quantity must be at least 1")
	}

	var cartID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		price, err := priceOf(tx, productID)
		if err != nil {
			return err
		}

		item := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity, Price: price}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "price", "updated_at"}),
		}).Create(&item).Error
		if err != nil {
			return err
		}

		_, err = recomputeTotal(tx, cart.ID)
		return err
	})
	if err != nil {
		return models.Cart{}, err
	}
	return s.load(ctx, cartID)
}

func (s *Carts) RemoveItem(ctx context.Context, userID, productID string) (models.Cart, error) {
	var cartID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		_, err = recomputeTotal(tx, cart.ID)
		return err
	})
	if err != nil {
		return models.Cart{}, err
	}
	return s.load(ctx, cartID)
}

func (s *Carts) Clear(ctx context.Context, userID string) (models.Cart, error) {
	var cartID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID
		return clearCart(tx, cart.ID)
	})
	if err != nil {
		return models.Cart{}, err
	}
	return s.load(ctx, cartID)
}

// claimCartLines deletes the cart's lines and reports ErrEmptyCart unless
// exactly expected rows went, which means another checkout got there first.
func claimCartLines(tx *gorm.DB, cartID string, expected int) error {
	result := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(expected) {
		return ErrEmptyCart
	}
	return nil
}

func clearCart(tx *gorm.DB, cartID string) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	_, err := recomputeTotal(tx, cartID)
	return err
}
