package services

import (
	"context"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FarmerStats struct {
	UserType      string          `json:"user_type"`
	ProductsCount int64           `json:"products_count"`
	OrdersCount   int64           `json:"orders_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int64           `json:"pending_orders"`
}

type BuyerStats struct {
	UserType       string `json:"user_type"`
	OrdersCount    int64  `json:"orders_count"`
	CartItemsCount int64  `json:"cart_items_count"`
}

type AdminStats struct {
	UserType      string          `json:"user_type,omitempty"`
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	ActiveFarmers int64           `json:"active_farmers"`
	ActiveBuyers  int64           `json:"active_buyers"`
}

// Dashboard computes role specific counters straight from the store on every
// call.
type Dashboard struct {
	db *gorm.DB
}

func NewDashboard(db *gorm.DB) *Dashboard {
	return &Dashboard{db: db}
}

func count(query *gorm.DB) (int64, error) {
	var n int64
	err := query.Count(&n).Error
	return n, err
}

// revenue sums completed order totals matching query.
func revenue(query *gorm.DB) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	if err := query.Where("status = ?", models.OrderCompleted).Pluck("total_amount", &totals).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, totals...), nil
}

// Stats returns FarmerStats, AdminStats or, for everyone else, BuyerStats.
func (s *Dashboard) Stats(ctx context.Context, actor models.User) (any, error) {
	switch actor.UserType {
	case models.RoleFarmer:
		return s.farmerStats(ctx, actor.ID)
	case models.RoleAdmin:
		stats, err := s.AdminStats(ctx)
		if err != nil {
			return nil, err
		}
		stats.UserType = models.RoleAdmin
		return stats, nil
	default:
		return s.buyerStats(ctx, actor.ID)
	}
}

func (s *Dashboard) farmerStats(ctx context.Context, farmerID string) (FarmerStats, error) {
	db := s.db.WithContext(ctx)
	orders := func() *gorm.DB { return db.Model(&models.Order{}).Where("farmer_id = ?", farmerID) }

	stats := FarmerStats{UserType: models.RoleFarmer}
	var err error
	if stats.ProductsCount, err = count(db.Model(&models.Product{}).Where("farmer_id = ?", farmerID)); err != nil {
		return FarmerStats{}, err
	}
	if stats.OrdersCount, err = count(orders()); err != nil {
		return FarmerStats{}, err
	}
	if stats.TotalRevenue, err = revenue(orders()); err != nil {
		return FarmerStats{}, err
	}
	if stats.PendingOrders, err = count(orders().Where("status = ?", models.OrderPending)); err != nil {
		return FarmerStats{}, err
	}
	return stats, nil
}

func (s *Dashboard) buyerStats(ctx context.Context, buyerID string) (BuyerStats, error) {
	db := s.db.WithContext(ctx)

	stats := BuyerStats{UserType: models.RoleBuyer}
	var err error
	if stats.OrdersCount, err = count(db.Model(&models.Order{}).Where("buyer_id = ?", buyerID)); err != nil {
		return BuyerStats{}, err
	}
	stats.CartItemsCount, err = count(db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", buyerID))
	if err != nil {
		return BuyerStats{}, err
	}
	return stats, nil
}

func (s *Dashboard) AdminStats(ctx context.Context) (AdminStats, error) {
	db := s.db.WithContext(ctx)
	users := func() *gorm.DB { return db.Model(&models.User{}) }

	var stats AdminStats
	var err error
	if stats.TotalUsers, err = count(users()); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalProducts, err = count(db.Model(&models.Product{})); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalOrders, err = count(db.Model(&models.Order{})); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalRevenue, err = revenue(db.Model(&models.Order{})); err != nil {
		return AdminStats{}, err
	}
	if stats.ActiveFarmers, err = count(users().Where("user_type = ?", models.RoleFarmer)); err != nil {
		return AdminStats{}, err
	}
	if stats.ActiveBuyers, err = count(users().Where("user_type = ?", models.RoleBuyer)); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}
