package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errOrderNotFound = &Error{Kind: KindNotFound, Message: "order not found"}

const notifyTimeout = 2 * time.Minute

// OrderNotifier is told about every order once it has been committed.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order models.Order) error
}

type Orders struct {
	db        *gorm.DB
	notifiers []OrderNotifier
	pending   sync.WaitGroup
}

func NewOrders(db *gorm.DB, notifiers ...OrderNotifier) *Orders {
	return &Orders{db: db, notifiers: notifiers}
}

// decrementStock lowers a product's quantity in a single statement. There is
// no sufficiency check, so quantity can go negative.
func decrementStock(tx *gorm.DB, productID string, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "product %s not found", productID)
	}
	return nil
}

// notify hands committed orders to the notifiers in the background. The
// request context is detached so a finished request does not cancel delivery.
func (s *Orders) notify(ctx context.Context, orders ...models.Order) {
	if len(s.notifiers) == 0 || len(orders) == 0 {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		for _, order := range orders {
			for _, notifier := range s.notifiers {
				if err := notifier.OrderPlaced(ctx, order); err != nil {
					log.WithFields(log.Fields{
						"order_id":  order.ID,
						"farmer_id": order.FarmerID,
					}).Println("Order notification failed:", err)
				}
			}
		}
	}()
}

// Wait blocks until every notification started so far has been delivered or
// has failed.
func (s *Orders) Wait() {
	s.pending.Wait()
}

// checkDirectOrder verifies that farmerID names a farmer who owns every
// ordered product.
func checkDirectOrder(tx *gorm.DB, farmerID string, items []models.OrderItem) error {
	var farmer models.User
	err := tx.Select("id", "user_type").Where("id = ?", farmerID).First(&farmer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindNotFound, "farmer not found")
	}
	if err != nil {
		return err
	}
	if farmer.UserType != models.RoleFarmer {
		return newError(KindValidation, "farmer_id must reference a farmer")
	}

	for _, item := range items {
		var product models.Product
		err := tx.Select("id", "farmer_id").Where("id = ?", item.ProductID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, "product %s not found", item.ProductID)
		}
		if err != nil {
			return err
		}
		if product.FarmerID != farmerID {
			return newError(KindValidation, "product %s does not belong to farmer %s", item.ProductID, farmerID)
		}
	}
	return nil
}

// CreateDirectOrder places a single-vendor order with client supplied items
// and totals.
func (s *Orders) CreateDirectOrder(ctx context.Context, buyer models.User, data models.OrderData) (models.Order, error) {
	if data.TotalAmount == nil || data.TotalAmount.IsNegative() {
		return models.Order{}, newError(KindValidation, "total_amount must be a non-negative number")
	}

	order := models.Order{
		BuyerID:         buyer.ID,
		FarmerID:        data.FarmerID,
		TotalAmount:     *data.TotalAmount,
		Status:          models.OrderPending,
		ShippingAddress: data.ShippingAddress,
		DeliveryAddress: data.DeliveryAddress,
		DeliveryNotes:   data.DeliveryNotes,
		PhoneNumber:     data.PhoneNumber,
		PaymentInfo:     data.PaymentInfo,
	}
	for _, item := range data.Items {
		if item.Price == nil || item.Price.IsNegative() {
			return models.Order{}, newError(KindValidation, "item price must be a non-negative number")
		}
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     *item.Price,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDirectOrder(tx, data.FarmerID, order.OrderItems); err != nil {
			return err
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("order creation failed: %w", err)
		}
		for _, item := range order.OrderItems {
			if err := decrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	s.notify(ctx, order)
	return order, nil
}

// Checkout turns the buyer's cart into one pending order per farmer. Orders,
// stock decrements and the cart reset commit together or not at all. The cart
// row is locked and its lines claimed up front, so concurrent checkouts of the
// same cart yield one set of orders and ErrEmptyCart for the rest.
func (s *Orders) Checkout(ctx context.Context, buyer models.User, cartID string, data models.CheckoutData) ([]models.Order, error) {
	var orders []models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", cartID, buyer.ID).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCartNotFound
		}
		if err != nil {
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cart.ID).Order("created_at").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		groups := make(map[string][]models.CartItem)
		for _, item := range items {
			if item.Product == nil {
				return newError(KindNotFound, "product %s is no longer available", item.ProductID)
			}
			groups[item.Product.FarmerID] = append(groups[item.Product.FarmerID], item)
		}
		if err := claimCartLines(tx, cart.ID, len(items)); err != nil {
			return err
		}

		farmerIDs := make([]string, 0, len(groups))
		for farmerID := range groups {
			farmerIDs = append(farmerIDs, farmerID)
		}
		sort.Strings(farmerIDs)

		for _, farmerID := range farmerIDs {
			order := models.Order{
				BuyerID:         buyer.ID,
				FarmerID:        farmerID,
				TotalAmount:     decimal.Zero,
				Status:          models.OrderPending,
				DeliveryAddress: data.DeliveryAddress,
				DeliveryNotes:   data.DeliveryNotes,
				PhoneNumber:     data.PhoneNumber,
			}
			for _, item := range groups[farmerID] {
				line := models.OrderItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					Price:     item.Product.Price,
				}
				order.TotalAmount = order.TotalAmount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
				order.OrderItems = append(order.OrderItems, line)
			}

			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("order creation failed for farmer %s: %w", farmerID, err)
			}
			for _, line := range order.OrderItems {
				if err := decrementStock(tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
			orders = append(orders, order)
		}

		_, err = recomputeTotal(tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, orders...)
	return orders, nil
}

func (s *Orders) find(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, errOrderNotFound
	}
	return order, err
}

// Get returns an order to its buyer, its farmer or an admin.
func (s *Orders) Get(ctx context.Context, id string, actor models.User) (models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !order.IsParticipant(actor.ID) && !actor.IsAdmin() {
		return models.Order{}, newError(KindForbidden, "not authorized")
	}
	return order, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, id string, actor models.User, patch models.OrderPatch) (models.Order, error) {
	order, err := s.Get(ctx, id, actor)
	if err != nil {
		return models.Order{}, err
	}

	if updates := patch.Updates(); len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
			return models.Order{}, err
		}
	}
	return s.find(ctx, order.ID)
}

// List returns farmers their sales, buyers their purchases and admins every
// order, newest first.
func (s *Orders) List(ctx context.Context, actor models.User, status string, page Page) ([]models.Order, Pagination, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Order{})
		if status != "" {
			db = db.Where("status = ?", status)
		}
		switch actor.UserType {
		case models.RoleFarmer:
			db = db.Where("farmer_id = ?", actor.ID)
		case models.RoleAdmin:
		default:
			db = db.Where("buyer_id = ?", actor.ID)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Scopes(scope).
		Preload("OrderItems").
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return orders, page.Paginate(total), nil
}
