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

type AddProductInput struct {
	Name        string
	Description string
	CostPrice   decimal.Decimal
	Price       decimal.Decimal
	Stock       int
	MinStock    int
	CategoryID  *uuid.UUID
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	CostPrice   *decimal.Decimal
	Price       *decimal.Decimal
	MinStock    *int
	CategoryID  *uuid.UUID
}

// InventoryLedger tracks product stock. Stock only moves through
// StockTransactions.
type InventoryLedger struct {
	mu         sync.Mutex
	store      InventoryStore
	now        func() time.Time
	strict     bool
	products   map[uuid.UUID]*models.Product
	categories map[uuid.UUID]*models.Category
}

// NewInventoryLedger returns an empty inventory backed by store.
func NewInventoryLedger(store InventoryStore, opts ...Option) *InventoryLedger {
	s := newSettings(opts)
	return &InventoryLedger{
		store:      store,
		now:        s.now,
		strict:     s.strictStock,
		products:   make(map[uuid.UUID]*models.Product),
		categories: make(map[uuid.UUID]*models.Category),
	}
}

// Restore loads products and categories from the store.
func (l *InventoryLedger) Restore(ctx context.Context) error {
	categories, err := l.store.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	products, err := l.store.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.categories = make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		c := categories[i]
		l.categories[c.ID] = &c
	}
	l.products = make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		p := products[i]
		l.products[p.ID] = &p
	}
	return nil
}

// --- products ---

// AddProduct validates and stores a new product. A non-zero opening stock is
// recorded as an IN transaction.
func (l *InventoryLedger) AddProduct(ctx context.Context, in AddProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if in.CostPrice.IsNegative() || in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return nil, fmt.Errorf("%w: stock levels must not be negative", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if in.CategoryID != nil {
		if _, ok := l.categories[*in.CategoryID]; !ok {
			return nil, ErrCategoryNotFound
		}
	}

	now := l.now()
	p := models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		CostPrice:   in.CostPrice,
		Price:       in.Price,
		MinStock:    in.MinStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.CategoryID != nil {
		id := *in.CategoryID
		p.CategoryID = &id
	}
	if in.Stock > 0 {
		l.apply(&p, models.StockIn, in.Stock, "Initial stock")
	}

	if err := l.commitProduct(ctx, &p); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID.String()).Int("stock", p.Stock).Msg("product added")
	out := p.Clone()
	return &out, nil
}

// UpdateProduct edits the product details. Stock only changes through
// transactions.
func (l *InventoryLedger) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	next := current.Clone()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name is required", ErrValidation)
		}
		next.Name = name
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: prices must not be negative", ErrValidation)
		}
		next.CostPrice = *in.CostPrice
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: prices must not be negative", ErrValidation)
		}
		next.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: stock levels must not be negative", ErrValidation)
		}
		next.MinStock = *in.MinStock
	}
	if in.CategoryID != nil {
		if _, ok := l.categories[*in.CategoryID]; !ok {
			return nil, ErrCategoryNotFound
		}
		cid := *in.CategoryID
		next.CategoryID = &cid
	}
	next.UpdatedAt = l.now()

	if err := l.commitProduct(ctx, &next); err != nil {
		return nil, err
	}
	out := next.Clone()
	return &out, nil
}

// DeleteProduct removes the product together with its transactions.
func (l *InventoryLedger) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.products[id]; !ok {
		return ErrProductNotFound
	}
	if err := l.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	delete(l.products, id)
	return nil
}

// GetProduct returns a copy of the product, or ErrProductNotFound.
func (l *InventoryLedger) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := p.Clone()
	return &out, nil
}

// ListProducts returns all products sorted by name.
func (l *InventoryLedger) ListProducts(ctx context.Context) []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collect(func(models.Product) bool { return true })
}

// LowStock lists the products at or under their alert threshold.
func (l *InventoryLedger) LowStock(ctx context.Context) []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collect(models.Product.IsLowStock)
}

// ApplyTransaction moves stock. OUT movements larger than the stock are
// clamped at zero, or rejected when the ledger runs in strict mode.
func (l *InventoryLedger) ApplyTransaction(
	ctx context.Context,
	productID uuid.UUID,
	kind models.StockTransactionType,
	quantity int,
	reason string,
) (*models.Product, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, kind)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	if l.strict && kind == models.StockOut && quantity > current.Stock {
		return nil, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, quantity, current.Stock)
	}

	next := current.Clone()
	tx := l.apply(&next, kind, quantity, strings.TrimSpace(reason))
	next.UpdatedAt = l.now()

	if err := l.commitProduct(ctx, &next); err != nil {
		return nil, err
	}

	ev := log.Info()
	if tx.Shortfall() > 0 {
		ev = log.Warn().Int("shortfall", tx.Shortfall())
	}
	ev.Str("product_id", productID.String()).
		Str("type", string(kind)).
		Int("quantity", quantity).
		Int("stock", next.Stock).
		Msg("stock moved")

	out := next.Clone()
	return &out, nil
}

func (l *InventoryLedger) apply(p *models.Product, kind models.StockTransactionType, quantity int, reason string) models.StockTransaction {
	applied := quantity
	switch kind {
	case models.StockIn:
		p.Stock += quantity
	case models.StockOut:
		if applied > p.Stock {
			applied = p.Stock
		}
		p.Stock -= applied
	}
	tx := models.StockTransaction{
		ID:        uuid.New(),
		ProductID: p.ID,
		Type:      kind,
		Quantity:  quantity,
		Applied:   applied,
		Reason:    reason,
		CreatedAt: l.now(),
	}
	p.Transactions = append(p.Transactions, tx)
	return tx
}

// Summary computes the stock dashboard figures. Stock value is sale price
// times units on hand.
func (l *InventoryLedger) Summary(ctx context.Context) models.InventorySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := models.InventorySummary{StockValue: decimal.Zero}
	for _, p := range l.products {
		sum.TotalUnits += p.Stock
		if p.IsLowStock() {
			sum.LowStock++
		}
		sum.StockValue = sum.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return sum
}

func (l *InventoryLedger) collect(keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(l.products))
	for _, p := range l.products {
		if keep(*p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *InventoryLedger) commitProduct(ctx context.Context, p *models.Product) error {
	if err := l.store.SaveProduct(ctx, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	l.products[p.ID] = p
	return nil
}

// --- categories ---

// AddCategory creates a category; names are unique ignoring case.
func (l *InventoryLedger) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.categories {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("%w: category %s", ErrDuplicate, c.Name)
		}
	}
	c := &models.Category{ID: uuid.New(), Name: name}
	if err := l.store.SaveCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	l.categories[c.ID] = c
	out := *c
	return &out, nil
}

// ListCategories returns all categories sorted by name.
func (l *InventoryLedger) ListCategories(ctx context.Context) []models.Category {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Category, 0, len(l.categories))
	for _, c := range l.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeleteCategory refuses while any product still points at the category.
func (l *InventoryLedger) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	inUse := 0
	for _, p := range l.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			inUse++
		}
	}
	if inUse > 0 {
		return fmt.Errorf("%w: %d products", ErrCategoryInUse, inUse)
	}
	if err := l.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	delete(l.categories, id)
	return nil
}
