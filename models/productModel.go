package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Product struct {
	ID          string                      `json:"id" gorm:"type:varchar(36);primaryKey"`
	FarmerID    string                      `json:"farmer_id" gorm:"type:varchar(36);index;not null"`
	Farmer      *User                       `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Name        string                      `json:"name" gorm:"not null"`
	Category    string                      `json:"category" gorm:"index;not null"`
	Description string                      `json:"description"`
	Price       decimal.Decimal             `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity    int                         `json:"quantity" gorm:"not null;default:0"`
	Unit        string                      `json:"unit" gorm:"type:varchar(20);default:'kg'"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Status      string                      `json:"status" gorm:"type:varchar(20);index;default:'active'"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ProductData struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Category    string           `json:"category" binding:"required,max=100"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity" binding:"min=0"`
	Unit        string           `json:"unit" binding:"max=20"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	Status      string           `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ProductPatch struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Quantity    *int             `json:"quantity" binding:"omitempty,min=0"`
	Unit        *string          `json:"unit" binding:"omitempty,max=20"`
	Images      *[]string        `json:"images" binding:"omitempty,dive,url"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (p ProductPatch) Updates() map[string]any {
	updates := map[string]any{}
	setIfPresent(updates, "name", p.Name)
	setIfPresent(updates, "category", p.Category)
	setIfPresent(updates, "price", p.Price)
	setIfPresent(updates, "description", p.Description)
	setIfPresent(updates, "quantity", p.Quantity)
	setIfPresent(updates, "unit", p.Unit)
	setIfPresent(updates, "status", p.Status)
	if p.Images != nil {
		updates["images"] = datatypes.NewJSONSlice(*p.Images)
	}
	return updates
}

type ProductFilter struct {
	Category string `form:"category"`
	FarmerID string `form:"farmer_id"`
	Search   string `form:"search"`
}
