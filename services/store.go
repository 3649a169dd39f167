package services

import (
	"context"

	"barberpro-backend/models"

	"github.com/google/uuid"
)

// The ledgers keep their state in memory and write every accepted mutation
// through one of these stores before it becomes visible.

type BookingStore interface {
	SaveBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	LoadBookings(ctx context.Context) ([]models.Booking, error)
}

type LoyaltyStore interface {
	SaveClient(ctx context.Context, c *models.ClientProfile) error
	LoadClients(ctx context.Context) ([]models.ClientProfile, error)
	SaveRule(ctx context.Context, r *models.LoyaltyRule) error
	ReplaceRules(ctx context.Context, rules []models.LoyaltyRule) error
	LoadRules(ctx context.Context) ([]models.LoyaltyRule, error)
	ReplaceTiers(ctx context.Context, tiers []models.LoyaltyTier) error
	LoadTiers(ctx context.Context) ([]models.LoyaltyTier, error)
	SaveReward(ctx context.Context, r *models.Reward) error
	LoadRewards(ctx context.Context) ([]models.Reward, error)
}

type InventoryStore interface {
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	LoadProducts(ctx context.Context) ([]models.Product, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	LoadCategories(ctx context.Context) ([]models.Category, error)
}

type StaffStore interface {
	SaveBarber(ctx context.Context, b *models.Barber) error
	LoadBarbers(ctx context.Context) ([]models.Barber, error)
}

type CatalogStore interface {
	SaveService(ctx context.Context, s *models.Service) error
	LoadServices(ctx context.Context) ([]models.Service, error)
}

type ShopStore interface {
	SaveShop(ctx context.Context, s *models.Shop) error
	LoadShop(ctx context.Context) (*models.Shop, error)
}

type NotificationStore interface {
	SaveNotification(ctx context.Context, n *models.NotificationLog) error
}

// Store is everything the application persists.
type Store interface {
	BookingStore
	LoyaltyStore
	InventoryStore
	StaffStore
	CatalogStore
	ShopStore
	NotificationStore
}

var _ Store = NopStore{}

// NopStore keeps nothing. It backs ledgers that live only for the process.
type NopStore struct{}

func (NopStore) SaveBooking(context.Context, *models.Booking) error { return nil }
func (NopStore) DeleteBooking(context.Context, uuid.UUID) error     { return nil }
func (NopStore) LoadBookings(context.Context) ([]models.Booking, error) {
	return nil, nil
}

func (NopStore) SaveClient(context.Context, *models.ClientProfile) error { return nil }
func (NopStore) LoadClients(context.Context) ([]models.ClientProfile, error) {
	return nil, nil
}
func (NopStore) SaveRule(context.Context, *models.LoyaltyRule) error { return nil }
func (NopStore) ReplaceRules(context.Context, []models.LoyaltyRule) error { return nil }
func (NopStore) LoadRules(context.Context) ([]models.LoyaltyRule, error) {
	return nil, nil
}
func (NopStore) ReplaceTiers(context.Context, []models.LoyaltyTier) error { return nil }
func (NopStore) LoadTiers(context.Context) ([]models.LoyaltyTier, error) {
	return nil, nil
}
func (NopStore) SaveReward(context.Context, *models.Reward) error { return nil }
func (NopStore) LoadRewards(context.Context) ([]models.Reward, error) {
	return nil, nil
}

func (NopStore) SaveProduct(context.Context, *models.Product) error { return nil }
func (NopStore) DeleteProduct(context.Context, uuid.UUID) error     { return nil }
func (NopStore) LoadProducts(context.Context) ([]models.Product, error) {
	return nil, nil
}
func (NopStore) SaveCategory(context.Context, *models.Category) error { return nil }
func (NopStore) DeleteCategory(context.Context, uuid.UUID) error      { return nil }
func (NopStore) LoadCategories(context.Context) ([]models.Category, error) {
	return nil, nil
}

func (NopStore) SaveBarber(context.Context, *models.Barber) error { return nil }
func (NopStore) LoadBarbers(context.Context) ([]models.Barber, error) {
	return nil, nil
}

func (NopStore) SaveService(context.Context, *models.Service) error { return nil }
func (NopStore) LoadServices(context.Context) ([]models.Service, error) {
	return nil, nil
}

func (NopStore) SaveShop(context.Context, *models.Shop) error { return nil }
func (NopStore) LoadShop(context.Context) (*models.Shop, error) {
	return nil, nil
}

func (NopStore) SaveNotification(context.Context, *models.NotificationLog) error { return nil }
