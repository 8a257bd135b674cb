package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errProductNotFound = &Error{Kind: KindNotFound, Message: "product not found or unauthorized"}

type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func farmerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "first_name", "last_name", "farm_name", "location", "profile_image_url")
}

func (s *Catalog) filtered(ctx context.Context, filter models.ProductFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FarmerID != "" {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return query
}

func (s *Catalog) List(ctx context.Context, filter models.ProductFilter, page Page) ([]models.Product, Pagination, error) {
	var total int64
	if err := s.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	products := []models.Product{}
	err := s.filtered(ctx, filter).
		Preload("Farmer", farmerSummary).
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return products, page.Paginate(total), nil
}

func (s *Catalog) Get(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Farmer", farmerSummary).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, newError(KindNotFound, "product not found")
	}
	return product, err
}

func (s *Catalog) Create(ctx context.Context, actor models.User, data models.ProductData) (models.Product, error) {
	if actor.UserType != models.RoleFarmer {
		return models.Product{}, newError(KindForbidden, "only farmers can create products")
	}
	if data.Price == nil || data.Price.IsNegative() {
		return models.Product{}, newError(KindValidation, "price must be a non-negative number")
	}
	if data.Quantity < 0 {
		return models.Product{}, newError(KindValidation, "quantity must not be negative")
	}

	product := models.Product{
		FarmerID:    actor.ID,
		Name:        data.Name,
		Category:    data.Category,
		Description: data.Description,
		Price:       *data.Price,
		Quantity:    data.Quantity,
		Unit:        data.Unit,
		Images:      datatypes.NewJSONSlice(data.Images),
		Status:      data.Status,
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}
	if product.Status == "" {
		product.Status = models.ProductActive
	}
	if product.Images == nil {
		product.Images = datatypes.NewJSONSlice([]string{})
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// owned loads a product the actor may mutate. Non-owners get the same
// not-found error as a missing id.
func (s *Catalog) owned(ctx context.Context, id string, actor models.User) (models.Product, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if !actor.IsAdmin() {
		query = query.Where("farmer_id = ?", actor.ID)
	}

	var product models.Product
	err := query.First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, errProductNotFound
	}
	return product, err
}

// CheckOwnership reports errProductNotFound unless actor may mutate product id.
func (s *Catalog) CheckOwnership(ctx context.Context, id string, actor models.User) error {
	_, err := s.owned(ctx, id, actor)
	return err
}

func (s *Catalog) Update(ctx context.Context, id string, actor models.User, patch models.ProductPatch) (models.Product, error) {
	product, err := s.owned(ctx, id, actor)
	if err != nil {
		return models.Product{}, err
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return models.Product{}, newError(KindValidation, "price must be a non-negative number")
	}

	if updates := patch.Updates(); len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return models.Product{}, err
		}
	}
	return s.Get(ctx, product.ID)
}

func (s *Catalog) Delete(ctx context.Context, id string, actor models.User) error {
	product, err := s.owned(ctx, id, actor)
	if err != nil {
		return err
	}

	// Cart lines for the product go with it, and every affected cart total is
	// recomputed in the same transaction.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cartIDs []string
		err := tx.Model(&models.CartItem{}).
			Where("product_id = ?", product.ID).
			Distinct().
			Pluck("cart_id", &cartIDs).Error
		if err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}
		for _, cartID := range cartIDs {
			if _, err := recomputeTotal(tx, cartID); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddImages appends already-uploaded image URLs to a product.
func (s *Catalog) AddImages(ctx context.Context, id string, actor models.User, urls []string) (models.Product, error) {
	product, err := s.owned(ctx, id, actor)
	if err != nil {
		return models.Product{}, err
	}

	images := append([]string{}, product.Images...)
	images = append(images, urls...)
	err = s.db.WithContext(ctx).Model(&product).Update("images", datatypes.NewJSONSlice(images)).Error
	if err != nil {
		return models.Product{}, err
	}
	return s.Get(ctx, product.ID)
}

func (s *Catalog) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category <> ''").
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

// priceOf returns the current price of a product.
func priceOf(tx *gorm.DB, productID string) (decimal.Decimal, error) {
	var product models.Product
	err := tx.Select("id", "price").Where("id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, newError(KindNotFound, "product not found")
	}
	return product.Price, err
}
