package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"barberpro-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateServiceInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Duration    int
	Category    string
}

type UpdateServiceInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Duration    *int
	Category    *string
	IsActive    *bool
}

// Catalog is the menu of services the shop sells.
type Catalog struct {
	mu       sync.Mutex
	store    CatalogStore
	services map[uuid.UUID]*models.Service
}

// NewCatalog returns an empty service catalog backed by store.
func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store, services: make(map[uuid.UUID]*models.Service)}
}

// Restore loads the service list from the store.
func (c *Catalog) Restore(ctx context.Context) error {
	services, err := c.store.LoadServices(ctx)
	if err != nil {
		return fmt.Errorf("load services: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[uuid.UUID]*models.Service, len(services))
	for i := range services {
		s := services[i]
		c.services[s.ID] = &s
	}
	return nil
}

// CreateService validates and stores a new service.
func (c *Catalog) CreateService(ctx context.Context, in CreateServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrValidation)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "General"
	}

	svc := &models.Service{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Category:    category,
		IsActive:    true,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SaveService(ctx, svc); err != nil {
		return nil, fmt.Errorf("save service: %w", err)
	}
	c.services[svc.ID] = svc
	out := *svc
	return &out, nil
}

// UpdateService applies the non-nil fields of in.
func (c *Catalog) UpdateService(ctx context.Context, id uuid.UUID, in UpdateServiceInput) (*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	next := *current

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: service name is required", ErrValidation)
		}
		next.Name = name
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		next.Price = *in.Price
	}
	if in.Duration != nil {
		if *in.Duration < 0 {
			return nil, fmt.Errorf("%w: duration must not be negative", ErrValidation)
		}
		next.Duration = *in.Duration
	}
	if in.Category != nil {
		next.Category = *in.Category
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}

	if err := c.store.SaveService(ctx, &next); err != nil {
		return nil, fmt.Errorf("save service: %w", err)
	}
	c.services[id] = &next
	out := next
	return &out, nil
}

// GetService returns a copy of the service, or ErrServiceNotFound.
func (c *Catalog) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	out := *s
	return &out, nil
}

// ListServices returns the menu grouped by category, then by name.
func (c *Catalog) ListServices(ctx context.Context) []models.Service {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Service, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}
