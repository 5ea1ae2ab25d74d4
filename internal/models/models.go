package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusOrdered   OrderStatus = "Ordered"
	StatusPending   OrderStatus = "Pending"
	StatusInTransit OrderStatus = "In Transit"
	StatusDelivered OrderStatus = "Delivered"
)

// Next returns the status that follows s in the delivery pipeline.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusOrdered:
		return StatusPending, true
	case StatusPending:
		return StatusInTransit, true
	case StatusInTransit:
		return StatusDelivered, true
	default:
		return s, false
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOrdered, StatusPending, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

const (
	RoleRetailer = "retailer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"-"`
	ShopName     string `gorm:"not null"                  json:"shop_name"`
	OwnerName    string `gorm:"not null"                  json:"owner_name"`
	Location     string `gorm:"not null"                  json:"location"`
	Phone        string `gorm:"not null"                  json:"phone"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:retailer" json:"role"`
}

type Product struct {
	ProductID string          `gorm:"primaryKey;size:32"          json:"product_id"`
	Name      string          `gorm:"not null;index"              json:"name"`
	Category  string          `gorm:"not null;index"              json:"category"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Supplier  string          `json:"supplier"`
	Stock     int             `gorm:"not null;default:0"          json:"stock"`
}

// Order is one row per cart line; rows of one checkout share OrderID.
type Order struct {
	RowID         uint            `gorm:"primaryKey;autoIncrement"    json:"-"`
	OrderID       int64           `gorm:"index;not null"              json:"order_id"`
	RetailerEmail string          `gorm:"index;not null"              json:"-"`
	ProductID     string          `gorm:"not null;size:32"            json:"product_id"`
	ProductName   string          `gorm:"not null"                    json:"product_name"`
	Quantity      int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price         decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Total         decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total"`
	OrderDate     time.Time       `gorm:"not null"                    json:"order_date"`
	Status        OrderStatus     `gorm:"not null;size:16"            json:"status"`
}

type Transaction struct {
	TransactionID int64           `gorm:"primaryKey;autoIncrement:false" json:"transaction_id"`
	RetailerEmail string          `gorm:"index;not null"                 json:"-"`
	Amount        decimal.Decimal `gorm:"not null;type:decimal(12,2)"    json:"amount"`
	Date          time.Time       `gorm:"not null"                       json:"date"`
	Description   string          `gorm:"not null"                       json:"description"`
}

type DeliveryStatus struct {
	OrderID       int64       `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	Status        OrderStatus `gorm:"not null;size:16"               json:"status"`
	LastUpdate    time.Time   `gorm:"not null"                       json:"last_update"`
	DeliveryAgent string      `gorm:"not null"                       json:"delivery_agent"`
}

func (DeliveryStatus) TableName() string { return "delivery_statuses" }

type RewardsAccount struct {
	RetailerEmail string `gorm:"primaryKey;size:255" json:"-"`
	Points        int    `gorm:"not null;default:0"  json:"points"`
	Badges        string `gorm:"not null"            json:"badges"`
	Level         int    `gorm:"not null;default:1"  json:"level"`
}

func (RewardsAccount) TableName() string { return "rewards_accounts" }

type AssistantSuggestion struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID string `gorm:"not null;size:32"         json:"product_id"`
	Name      string `gorm:"not null"                 json:"name"`
	Category  string `json:"category"`
	Reason    string `json:"reason"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	Email     string `gorm:"index;not null"       json:"email"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}

// IDSequence backs NextID; Name is the table whose ids it hands out.
type IDSequence struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}

func (IDSequence) TableName() string { return "id_sequences" }

func All() []any {
	return []any{
		&User{}, &Product{}, &Order{}, &Transaction{}, &DeliveryStatus{},
		&RewardsAccount{}, &AssistantSuggestion{}, &RefreshToken{}, &IDSequence{},
	}
}
