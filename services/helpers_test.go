package services

import (
	"context"
	"errors"
	"time"

	"barberpro-backend/models"
)

var errStoreDown = errors.New("store unavailable")

// flakyStore accepts everything until err is set.
type flakyStore struct {
	NopStore
	err error
}

func (s *flakyStore) SaveClient(context.Context, *models.ClientProfile) error { return s.err }
func (s *flakyStore) SaveBooking(context.Context, *models.Booking) error      { return s.err }
func (s *flakyStore) SaveProduct(context.Context, *models.Product) error      { return s.err }
func (s *flakyStore) SaveBarber(context.Context, *models.Barber) error        { return s.err }
func (s *flakyStore) SaveShop(context.Context, *models.Shop) error            { return s.err }

// testClock is a settable clock for WithClock.
type testClock struct{ t time.Time }

func newTestClock(y int, m time.Month, d int) *testClock {
	return &testClock{t: time.Date(y, m, d, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
