package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultProBarberCap is the active-barber limit of the Pro plan.
const DefaultProBarberCap = 5

type settings struct {
	now          func() time.Time
	strictStock  bool
	proBarberCap int
	hashCost     int
}

func newSettings(opts []Option) settings {
	s := settings{
		now:          time.Now,
		proBarberCap: DefaultProBarberCap,
		hashCost:     14,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option tunes a ledger or service at construction.
type Option func(*settings)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithStrictStock makes InventoryLedger reject OUT movements larger than the
// current stock instead of clamping them at zero.
func WithStrictStock() Option {
	return func(s *settings) { s.strictStock = true }
}

// WithProBarberCap sets the active barber limit on the Pro plan.
func WithProBarberCap(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.proBarberCap = n
		}
	}
}

// WithHashCost sets the bcrypt cost used for barber passwords.
func WithHashCost(cost int) Option {
	return func(s *settings) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}
