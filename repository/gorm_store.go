package repository

import (
	"context"
	"errors"

	"barberpro-backend/models"
	"barberpro-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ services.Store = (*GormStore)(nil)

// GormStore persists every ledger in Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db. Call Migrate before first use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the schema.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Shop{},
		&models.Barber{},
		&models.Service{},
		&models.ClientProfile{},
		&models.Visit{},
		&models.LoyaltyTransaction{},
		&models.Voucher{},
		&models.LoyaltyRule{},
		&models.LoyaltyTier{},
		&models.Reward{},
		&models.Booking{},
		&models.Category{},
		&models.Product{},
		&models.StockTransaction{},
		&models.NotificationLog{},
	)
}

func (s *GormStore) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// upsert saves the record and its child rows.
func (s *GormStore) upsert(ctx context.Context, value any) error {
	return s.with(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(value).Error
}

// --- bookings ---

func (s *GormStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	return s.with(ctx).Save(b).Error
}

func (s *GormStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.with(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}

func (s *GormStore) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.with(ctx).Order("date, time").Find(&bookings).Error
	return bookings, err
}

// --- loyalty ---

// SaveClient upserts the profile together with its history, transactions
// and vouchers.
func (s *GormStore) SaveClient(ctx context.Context, c *models.ClientProfile) error {
	return s.upsert(ctx, c)
}

// LoadClients returns every profile with its children preloaded.
func (s *GormStore) LoadClients(ctx context.Context) ([]models.ClientProfile, error) {
	var clients []models.ClientProfile
	err := s.with(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		Preload("LoyaltyHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Vouchers", func(db *gorm.DB) *gorm.DB { return db.Order("issued_at") }).
		Find(&clients).Error
	return clients, err
}

func (s *GormStore) SaveRule(ctx context.Context, r *models.LoyaltyRule) error {
	return s.with(ctx).Save(r).Error
}

// ReplaceRules swaps the whole rule table in one transaction.
func (s *GormStore) ReplaceRules(ctx context.Context, rules []models.LoyaltyRule) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LoyaltyRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}

func (s *GormStore) LoadRules(ctx context.Context) ([]models.LoyaltyRule, error) {
	var rules []models.LoyaltyRule
	err := s.with(ctx).Find(&rules).Error
	return rules, err
}

func (s *GormStore) ReplaceTiers(ctx context.Context, tiers []models.LoyaltyTier) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LoyaltyTier{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}
		return tx.Create(&tiers).Error
	})
}

func (s *GormStore) LoadTiers(ctx context.Context) ([]models.LoyaltyTier, error) {
	var tiers []models.LoyaltyTier
	err := s.with(ctx).Order("min_points").Find(&tiers).Error
	return tiers, err
}

func (s *GormStore) SaveReward(ctx context.Context, r *models.Reward) error {
	return s.with(ctx).Save(r).Error
}

func (s *GormStore) LoadRewards(ctx context.Context) ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.with(ctx).Order("points_required DESC").Find(&rewards).Error
	return rewards, err
}

// --- inventory ---

func (s *GormStore) SaveProduct(ctx context.Context, p *models.Product) error {
	return s.upsert(ctx, p)
}

// DeleteProduct removes the product and its stock transactions.
func (s *GormStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.StockTransaction{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
}

func (s *GormStore) LoadProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.with(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Find(&products).Error
	return products, err
}

func (s *GormStore) SaveCategory(ctx context.Context, c *models.Category) error {
	return s.with(ctx).Save(c).Error
}

func (s *GormStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.with(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (s *GormStore) LoadCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.with(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// --- staff, catalogue, shop ---

func (s *GormStore) SaveBarber(ctx context.Context, b *models.Barber) error {
	return s.with(ctx).Save(b).Error
}

func (s *GormStore) LoadBarbers(ctx context.Context) ([]models.Barber, error) {
	var barbers []models.Barber
	err := s.with(ctx).Find(&barbers).Error
	return barbers, err
}

func (s *GormStore) SaveService(ctx context.Context, svc *models.Service) error {
	return s.with(ctx).Save(svc).Error
}

func (s *GormStore) LoadServices(ctx context.Context) ([]models.Service, error) {
	var list []models.Service
	err := s.with(ctx).Order("category, name").Find(&list).Error
	return list, err
}

func (s *GormStore) SaveShop(ctx context.Context, shop *models.Shop) error {
	return s.with(ctx).Save(shop).Error
}

// LoadShop returns nil, nil when no shop has been created yet.
func (s *GormStore) LoadShop(ctx context.Context) (*models.Shop, error) {
	var shop models.Shop
	err := s.with(ctx).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *GormStore) SaveNotification(ctx context.Context, n *models.NotificationLog) error {
	return s.with(ctx).Create(n).Error
}
