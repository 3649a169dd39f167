package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"barberpro-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type UpdateShopInput struct {
	Name        *string
	Address     *string
	City        *string
	State       *string
	CompanyCode *string
}

// ShopSettings holds the single barbershop profile and its subscription.
type ShopSettings struct {
	mu    sync.Mutex
	store ShopStore
	now   func() time.Time
	shop  models.Shop
}

// NewShopSettings returns empty settings backed by store. Call Restore before use.
func NewShopSettings(store ShopStore, opts ...Option) *ShopSettings {
	s := newSettings(opts)
	return &ShopSettings{store: store, now: s.now}
}

// Restore loads the shop, creating one on a fresh Rookie trial when the
// store has none.
func (s *ShopSettings) Restore(ctx context.Context, defaultName string) error {
	shop, err := s.store.LoadShop(ctx)
	if err != nil {
		return fmt.Errorf("load shop: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if shop != nil {
		s.shop = *shop
		return nil
	}

	now := s.now()
	fresh := models.Shop{
		ID:        uuid.New(),
		Name:      defaultName,
		Plan:      models.NewTrialPlan(now),
		UpdatedAt: now,
	}
	if err := s.store.SaveShop(ctx, &fresh); err != nil {
		return fmt.Errorf("save shop: %w", err)
	}
	s.shop = fresh
	log.Info().Str("shop_id", fresh.ID.String()).Msg("started rookie trial")
	return nil
}

// Shop returns a copy of the shop profile.
func (s *ShopSettings) Shop() models.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneShop(s.shop)
}

// Plan returns the current subscription plan.
func (s *ShopSettings) Plan() models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneShop(s.shop).Plan
}

// UpdateProfile applies the non-nil fields of in and saves the shop.
func (s *ShopSettings) UpdateProfile(ctx context.Context, in UpdateShopInput) (*models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneShop(s.shop)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: shop name is required", ErrValidation)
		}
		next.Name = name
	}
	if in.Address != nil {
		next.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		next.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		next.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.CompanyCode != nil {
		next.CompanyCode = strings.ToUpper(strings.TrimSpace(*in.CompanyCode))
	}
	next.UpdatedAt = s.now()

	return s.commit(ctx, next)
}

// ChangePlan switches the subscription. Paid tiers end the trial; going
// back to Rookie resumes the original trial window rather than a new one.
func (s *ShopSettings) ChangePlan(ctx context.Context, tier models.PlanTier) (*models.Shop, error) {
	if !tier.IsValid() {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrValidation, tier)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := cloneShop(s.shop)
	switch tier {
	case models.PlanRookie:
		if next.Plan.TrialExpires == nil {
			next.Plan = models.NewTrialPlan(now)
		} else {
			next.Plan.Tier = models.PlanRookie
			next.Plan.Trial = true
		}
	default:
		next.Plan.Tier = tier
		next.Plan.Trial = false
	}
	next.UpdatedAt = now

	out, err := s.commit(ctx, next)
	if err != nil {
		return nil, err
	}
	log.Info().Str("plan", string(tier)).Msg("subscription changed")
	return out, nil
}

func (s *ShopSettings) commit(ctx context.Context, next models.Shop) (*models.Shop, error) {
	if err := s.store.SaveShop(ctx, &next); err != nil {
		return nil, fmt.Errorf("save shop: %w", err)
	}
	s.shop = next
	out := cloneShop(next)
	return &out, nil
}

func cloneShop(s models.Shop) models.Shop {
	out := s
	if s.Plan.TrialExpires != nil {
		t := *s.Plan.TrialExpires
		out.Plan.TrialExpires = &t
	}
	return out
}
