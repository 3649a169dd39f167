package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus is the lifecycle state of an appointment
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

const (
	BookingDateLayout = "2006-01-02"
	BookingTimeLayout = "15:04"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo encodes the booking state machine:
// PENDING -> CONFIRMED -> COMPLETED, and PENDING|CONFIRMED -> CANCELLED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}

// OccupiesSlot reports whether a booking in status s blocks the barber's slot.
func (s BookingStatus) OccupiesSlot() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

type Booking struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ClientID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"clientId"`
	ClientName  string          `json:"clientName"`
	BarberID    uuid.UUID       `gorm:"type:uuid;index:idx_barber_slot,priority:1;not null" json:"barberId"`
	BarberName  string          `json:"barberName"`
	ServiceID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Date        string          `gorm:"type:varchar(10);index:idx_barber_slot,priority:2;not null" json:"date"`
	Time        string          `gorm:"type:varchar(5);index:idx_barber_slot,priority:3;not null" json:"time"`
	Status      BookingStatus   `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// SameSlot reports whether both bookings are for the same barber, date and time.
func (b Booking) SameSlot(other Booking) bool {
	return b.BarberID == other.BarberID && b.Date == other.Date && b.Time == other.Time
}

// StartsAt combines Date and Time in loc.
func (b Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(BookingDateLayout+" "+BookingTimeLayout, b.Date+" "+b.Time, loc)
}
