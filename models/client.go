package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "ACTIVE"
	ClientInactive ClientStatus = "INACTIVE"
)

type ClientProfile struct {
	ID       uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Name     string       `gorm:"not null" json:"name"`
	Phone    string       `gorm:"index" json:"phone"`
	Email    string       `json:"email"`
	Birthday *time.Time   `json:"birthday,omitempty"`
	Status   ClientStatus `gorm:"type:varchar(10);default:'ACTIVE'" json:"status"`

	// LoyaltyPoints is the redeemable balance. LifetimePoints only grows and
	// drives the tier lookup.
	LoyaltyPoints  int64 `gorm:"default:0" json:"loyaltyPoints"`
	LifetimePoints int64 `gorm:"default:0" json:"lifetimePoints"`

	TotalVisits int             `gorm:"default:0" json:"totalVisits"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0" json:"totalSpent"`
	LastVisit   string          `json:"lastVisit,omitempty"`
	MemberSince string          `json:"memberSince"`
	Preferences StringList      `gorm:"type:jsonb" json:"preferences"`

	// LastBirthdayBonusYear guards against crediting the birthday bonus twice in a year.
	LastBirthdayBonusYear int `json:"lastBirthdayBonusYear,omitempty"`

	History        []Visit              `gorm:"foreignKey:ClientID" json:"history"`
	LoyaltyHistory []LoyaltyTransaction `gorm:"foreignKey:ClientID" json:"loyaltyHistory"`
	Vouchers       []Voucher            `gorm:"foreignKey:ClientID" json:"vouchers"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *ClientProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Clone returns a deep copy so callers never share slices with a ledger.
func (c ClientProfile) Clone() ClientProfile {
	out := c
	if c.Birthday != nil {
		b := *c.Birthday
		out.Birthday = &b
	}
	out.Preferences = c.Preferences.Clone()
	out.History = append([]Visit(nil), c.History...)
	out.LoyaltyHistory = append([]LoyaltyTransaction(nil), c.LoyaltyHistory...)
	out.Vouchers = append([]Voucher(nil), c.Vouchers...)
	return out
}

// BirthdayOn reports whether the client's birthday falls on day. Clients born
// on 29 February celebrate on 28 February in non-leap years.
func (c ClientProfile) BirthdayOn(day time.Time) bool {
	if c.Birthday == nil {
		return false
	}
	month, dom := c.Birthday.Month(), c.Birthday.Day()
	if month == time.February && dom == 29 && !isLeap(day.Year()) {
		dom = 28
	}
	return day.Month() == month && day.Day() == dom
}

// HasVisit reports whether the booking is already in the client's history.
func (c ClientProfile) HasVisit(bookingID uuid.UUID) bool {
	for _, v := range c.History {
		if v.BookingID == bookingID {
			return true
		}
	}
	return false
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Visit is one completed appointment in a client's history.
type Visit struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ClientID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"clientId"`
	BookingID   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"bookingId"`
	Date        string          `json:"date"`
	ServiceName string          `json:"service"`
	BarberName  string          `json:"barberName"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
