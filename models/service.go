package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int             `json:"duration"` // in minutes
	Category    string          `gorm:"default:'General'" json:"category"`
	IsActive    bool            `gorm:"not null" json:"isActive"`
}
