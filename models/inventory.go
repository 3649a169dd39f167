package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockTransactionType string

const (
	StockIn  StockTransactionType = "IN"
	StockOut StockTransactionType = "OUT"
)

func (t StockTransactionType) IsValid() bool {
	return t == StockIn || t == StockOut
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"costPrice"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	MinStock    int             `gorm:"not null;default:0" json:"minStock"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"categoryId,omitempty"`

	Transactions []StockTransaction `gorm:"foreignKey:ProductID" json:"transactions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// IsLowStock reports whether stock has reached the alert threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

func (p Product) Clone() Product {
	out := p
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	out.Transactions = append([]StockTransaction(nil), p.Transactions...)
	return out
}

// StockTransaction records one signed stock movement. Applied differs from
// Quantity when an OUT movement was clamped at zero.
type StockTransaction struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID            `gorm:"type:uuid;index;not null" json:"productId"`
	Type      StockTransactionType `gorm:"type:varchar(3);not null" json:"type"`
	Quantity  int                  `gorm:"not null" json:"quantity"`
	Applied   int                  `gorm:"not null" json:"applied"`
	Reason    string               `json:"reason"`
	CreatedAt time.Time            `json:"date"`
}

// Shortfall is the part of an OUT movement that could not be served.
func (t StockTransaction) Shortfall() int {
	return t.Quantity - t.Applied
}

// InventorySummary holds the stock dashboard figures.
type InventorySummary struct {
	TotalUnits int             `json:"totalUnits"`
	LowStock   int             `json:"lowStock"`
	StockValue decimal.Decimal `json:"stockValue"`
}
