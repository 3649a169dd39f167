package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"barberpro-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ClientDirectory interface {
	GetClient(ctx context.Context, id uuid.UUID) (*models.ClientProfile, error)
}

type BarberDirectory interface {
	GetBarber(ctx context.Context, id uuid.UUID) (*models.Barber, error)
}

type ServiceDirectory interface {
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// VisitRecorder is told about every booking that reaches COMPLETED.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, b models.Booking) error
}

type CreateBookingInput struct {
	ClientID  uuid.UUID
	BarberID  uuid.UUID
	ServiceID uuid.UUID
	Date      string
	Time      string
	// Price overrides the catalogue price when set.
	Price *decimal.Decimal
}

// BookingFilter narrows List. Zero values match everything.
type BookingFilter struct {
	BarberID uuid.UUID
	ClientID uuid.UUID
	Status   models.BookingStatus
}

// BookingLedger owns every appointment and its status machine.
type BookingLedger struct {
	mu       sync.Mutex
	store    BookingStore
	clients  ClientDirectory
	barbers  BarberDirectory
	services ServiceDirectory
	visits   VisitRecorder
	now      func() time.Time
	bookings map[uuid.UUID]*models.Booking
}

// NewBookingLedger builds an empty ledger that writes through to store and
// forwards completed bookings to loyalty.
func NewBookingLedger(
	store BookingStore,
	clients ClientDirectory,
	barbers BarberDirectory,
	services ServiceDirectory,
	visits VisitRecorder,
	opts ...Option,
) *BookingLedger {
	s := newSettings(opts)
	return &BookingLedger{
		store:    store,
		clients:  clients,
		barbers:  barbers,
		services: services,
		visits:   visits,
		now:      s.now,
		bookings: make(map[uuid.UUID]*models.Booking),
	}
}

// Restore replaces the in-memory bookings with what the store holds.
func (l *BookingLedger) Restore(ctx context.Context) error {
	bookings, err := l.store.LoadBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = make(map[uuid.UUID]*models.Booking, len(bookings))
	for i := range bookings {
		b := bookings[i]
		l.bookings[b.ID] = &b
	}
	return nil
}

// Create validates the references and the slot, then stores a PENDING booking.
func (l *BookingLedger) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	date := strings.TrimSpace(in.Date)
	if _, err := time.Parse(models.BookingDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	clock := strings.TrimSpace(in.Time)
	if _, err := time.Parse(models.BookingTimeLayout, clock); err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrValidation)
	}

	client, err := l.clients.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	barber, err := l.barbers.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.IsActive {
		return nil, fmt.Errorf("%w: barber %s is not active", ErrValidation, barber.Name)
	}
	service, err := l.services.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, fmt.Errorf("%w: service %s is not offered", ErrValidation, service.Name)
	}

	price := service.Price
	if in.Price != nil {
		price = *in.Price
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	now := l.now()
	booking := &models.Booking{
		ID:          uuid.New(),
		ClientID:    client.ID,
		ClientName:  client.Name,
		BarberID:    barber.ID,
		BarberName:  barber.Name,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Price:       price,
		Date:        date,
		Time:        clock,
		Status:      models.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.slotTaken(*booking) {
		return nil, ErrSlotTaken
	}
	if err := l.store.SaveBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	l.bookings[booking.ID] = booking

	log.Info().
		Str("booking_id", booking.ID.String()).
		Str("barber_id", booking.BarberID.String()).
		Str("slot", booking.Date+" "+booking.Time).
		Msg("booking created")
	out := *booking
	return &out, nil
}

// UpdateStatus moves a booking along its state machine. Completing a booking
// records the visit first; if that fails the booking keeps its status.
func (l *BookingLedger) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	next := *current
	next.Status = status
	next.UpdatedAt = l.now()

	switch status {
	case models.BookingConfirmed:
		if l.slotTaken(next) {
			return nil, ErrSlotTaken
		}
	case models.BookingCompleted:
		if err := l.visits.RecordVisit(ctx, next); err != nil {
			return nil, fmt.Errorf("record visit: %w", err)
		}
	}

	if err := l.store.SaveBooking(ctx, &next); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	l.bookings[id] = &next

	log.Info().
		Str("booking_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("booking status changed")
	out := next
	return &out, nil
}

// Delete removes a booking whatever its status.
func (l *BookingLedger) Delete(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	if err := l.store.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	delete(l.bookings, id)

	log.Warn().Str("booking_id", id.String()).Msg("booking deleted")
	return nil
}

// Get returns a copy of the booking, or ErrBookingNotFound.
func (l *BookingLedger) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

// List returns the bookings matching f, ordered by date then time.
func (l *BookingLedger) List(ctx context.Context, f BookingFilter) []models.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		if f.BarberID != uuid.Nil && b.BarberID != f.BarberID {
			continue
		}
		if f.ClientID != uuid.Nil && b.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	sortBookings(out)
	return out
}

// ListByBarber returns the barber's bookings ordered by date and time.
func (l *BookingLedger) ListByBarber(ctx context.Context, barberID uuid.UUID) []models.Booking {
	return l.List(ctx, BookingFilter{BarberID: barberID})
}

// ListByClient returns the client's bookings ordered by date and time.
func (l *BookingLedger) ListByClient(ctx context.Context, clientID uuid.UUID) []models.Booking {
	return l.List(ctx, BookingFilter{ClientID: clientID})
}

// ListByStatus returns every booking in the given status.
func (l *BookingLedger) ListByStatus(ctx context.Context, status models.BookingStatus) []models.Booking {
	return l.List(ctx, BookingFilter{Status: status})
}

// slotTaken reports whether another booking already holds b's slot.
func (l *BookingLedger) slotTaken(b models.Booking) bool {
	for _, other := range l.bookings {
		if other.ID != b.ID && other.Status.OccupiesSlot() && other.SameSlot(b) {
			return true
		}
	}
	return false
}

func sortBookings(bs []models.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Date != bs[j].Date {
			return bs[i].Date < bs[j].Date
		}
		if bs[i].Time != bs[j].Time {
			return bs[i].Time < bs[j].Time
		}
		return bs[i].CreatedAt.Before(bs[j].CreatedAt)
	})
}
