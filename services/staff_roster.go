package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AddBarberInput struct {
	Name         string
	Email        string
	Password     string
	Specialties  []string
	Availability []string
}

// StaffRoster keeps the barbers and enforces the plan headcount.
type StaffRoster struct {
	mu       sync.Mutex
	store    StaffStore
	gate     *PlanGate
	now      func() time.Time
	hashCost int
	barbers  map[uuid.UUID]*models.Barber
}

// NewStaffRoster returns an empty roster whose barber cap is checked against gate.
func NewStaffRoster(store StaffStore, gate *PlanGate, opts ...Option) *StaffRoster {
	s := newSettings(opts)
	return &StaffRoster{
		store:    store,
		gate:     gate,
		now:      s.now,
		hashCost: s.hashCost,
		barbers:  make(map[uuid.UUID]*models.Barber),
	}
}

// Restore loads the barbers from the store.
func (r *StaffRoster) Restore(ctx context.Context) error {
	barbers, err := r.store.LoadBarbers(ctx)
	if err != nil {
		return fmt.Errorf("load barbers: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.barbers = make(map[uuid.UUID]*models.Barber, len(barbers))
	for i := range barbers {
		b := barbers[i]
		r.barbers[b.ID] = &b
	}
	return nil
}

// AddBarber hires a barber if plan has room for one more active barber.
func (r *StaffRoster) AddBarber(ctx context.Context, in AddBarberInput, plan models.Plan) (*models.Barber, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: barber name is required", ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must have at least 8 characters", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.CheckBarberHeadcount(r.activeCount(), plan); err != nil {
		return nil, err
	}
	for _, b := range r.barbers {
		if b.Email == email {
			return nil, fmt.Errorf("%w: barber with this email", ErrDuplicate)
		}
	}

	hash, err := utils.HashPassword(in.Password, r.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	barber := &models.Barber{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Specialties:  models.StringList(in.Specialties).Clone(),
		Availability: models.StringList(in.Availability).Clone(),
		IsActive:     true,
		CreatedAt:    r.now(),
	}
	if err := r.store.SaveBarber(ctx, barber); err != nil {
		return nil, fmt.Errorf("save barber: %w", err)
	}
	r.barbers[barber.ID] = barber

	log.Info().Str("barber_id", barber.ID.String()).Str("plan", string(plan.Tier)).Msg("barber added")
	out := barber.Clone()
	return &out, nil
}

// SetActive toggles a barber. Reactivation counts against the plan.
func (r *StaffRoster) SetActive(ctx context.Context, id uuid.UUID, active bool, plan models.Plan) (*models.Barber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.barbers[id]
	if !ok {
		return nil, ErrBarberNotFound
	}
	if current.IsActive == active {
		out := current.Clone()
		return &out, nil
	}
	if active {
		if err := r.gate.CheckBarberHeadcount(r.activeCount(), plan); err != nil {
			return nil, err
		}
	}

	next := current.Clone()
	next.IsActive = active
	if err := r.store.SaveBarber(ctx, &next); err != nil {
		return nil, fmt.Errorf("save barber: %w", err)
	}
	r.barbers[id] = &next
	out := next.Clone()
	return &out, nil
}

// Deactivate marks the barber inactive.
func (r *StaffRoster) Deactivate(ctx context.Context, id uuid.UUID) (*models.Barber, error) {
	return r.SetActive(ctx, id, false, models.Plan{})
}

// GetBarber returns a copy of the barber, or ErrBarberNotFound.
func (r *StaffRoster) GetBarber(ctx context.Context, id uuid.UUID) (*models.Barber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.barbers[id]
	if !ok {
		return nil, ErrBarberNotFound
	}
	out := b.Clone()
	return &out, nil
}

// ListBarbers returns all barbers sorted by name.
func (r *StaffRoster) ListBarbers(ctx context.Context) []models.Barber {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Barber, 0, len(r.barbers))
	for _, b := range r.barbers {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActiveCount returns the number of active barbers.
func (r *StaffRoster) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeCount()
}

func (r *StaffRoster) activeCount() int {
	n := 0
	for _, b := range r.barbers {
		if b.IsActive {
			n++
		}
	}
	return n
}
