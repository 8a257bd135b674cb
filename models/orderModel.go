package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID              string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	BuyerID         string          `json:"buyer_id" gorm:"type:varchar(36);index;not null"`
	FarmerID        string          `json:"farmer_id" gorm:"type:varchar(36);index;not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status          string          `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	ShippingAddress datatypes.JSON  `json:"shipping_address"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryNotes   string          `json:"delivery_notes"`
	PhoneNumber     string          `json:"phone_number"`
	PaymentInfo     datatypes.JSON  `json:"payment_info"`
	OrderItems      []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsParticipant reports whether userID is the buyer or the farmer on the order.
func (o Order) IsParticipant(userID string) bool {
	return o.BuyerID == userID || o.FarmerID == userID
}

type OrderItem struct {
	ID        string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type OrderItemData struct {
	ProductID string           `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Price     *decimal.Decimal `json:"price" binding:"required"`
}

type OrderData struct {
	FarmerID        string           `json:"farmer_id" binding:"required"`
	TotalAmount     *decimal.Decimal `json:"total_amount" binding:"required"`
	ShippingAddress datatypes.JSON   `json:"shipping_address"`
	DeliveryAddress string           `json:"delivery_address"`
	DeliveryNotes   string           `json:"delivery_notes"`
	PhoneNumber     string           `json:"phone_number"`
	PaymentInfo     datatypes.JSON   `json:"payment_info"`
	Items           []OrderItemData  `json:"items" binding:"required,min=1,dive"`
}

type CheckoutData struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	DeliveryNotes   string `json:"delivery_notes"`
	PhoneNumber     string `json:"phone_number" binding:"required"`
}

type OrderPatch struct {
	Status          *string         `json:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered completed cancelled"`
	ShippingAddress *datatypes.JSON `json:"shipping_address"`
	DeliveryAddress *string         `json:"delivery_address"`
	DeliveryNotes   *string         `json:"delivery_notes"`
	PhoneNumber     *string         `json:"phone_number"`
	PaymentInfo     *datatypes.JSON `json:"payment_info"`
}

func (p OrderPatch) Updates() map[string]any {
	updates := map[string]any{}
	setIfPresent(updates, "status", p.Status)
	setIfPresent(updates, "shipping_address", p.ShippingAddress)
	setIfPresent(updates, "delivery_address", p.DeliveryAddress)
	setIfPresent(updates, "delivery_notes", p.DeliveryNotes)
	setIfPresent(updates, "phone_number", p.PhoneNumber)
	setIfPresent(updates, "payment_info", p.PaymentInfo)
	return updates
}
