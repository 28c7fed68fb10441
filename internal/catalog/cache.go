// Package catalog holds the session's reference data: item types with their
// price and tare, products, buyers and settings.
//
// The cache is loaded once per session and is read-mostly afterwards. Only
// RefreshBuyers mutates it after Load.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/balanca/internal/model"
)

// Source is the read side of the store the cache loads from.
type Source interface {
	ListItemTypes(ctx context.Context) ([]model.ItemType, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListBuyers(ctx context.Context) ([]model.Buyer, error)
	GetSettings(ctx context.Context) (*model.Settings, error)
}

// Cache is an in-memory snapshot of reference data.
type Cache struct {
	mu       sync.RWMutex
	loaded   bool
	types    []model.ItemType
	byType   map[string]model.ItemType
	products []model.Product
	buyers   []model.Buyer
	settings *model.Settings
}

// NewCache returns an empty, unloaded cache.
func NewCache() *Cache {
	return &Cache{}
}

// Load replaces the cache contents from src. On any failure the cache is
// left empty and unloaded; lookups then report zero defaults.
func (c *Cache) Load(ctx context.Context, src Source) error {
	types, err := src.ListItemTypes(ctx)
	if err != nil {
		c.reset()
		return fmt.Errorf("load item types: %w", err)
	}
	products, err := src.ListProducts(ctx)
	if err != nil {
		c.reset()
		return fmt.Errorf("load products: %w", err)
	}
	buyers, err := src.ListBuyers(ctx)
	if err != nil {
		c.reset()
		return fmt.Errorf("load buyers: %w", err)
	}
	settings, err := src.GetSettings(ctx)
	if err != nil {
		c.reset()
		return fmt.Errorf("load settings: %w", err)
	}

	byType := make(map[string]model.ItemType, len(types))
	for _, t := range types {
		byType[t.Name] = t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = types
	c.byType = byType
	c.products = products
	c.buyers = buyers
	c.settings = settings
	c.loaded = true
	return nil
}

// RefreshBuyers re-fetches the buyer list only. On failure the previous list
// is kept.
func (c *Cache) RefreshBuyers(ctx context.Context, src Source) error {
	buyers, err := src.ListBuyers(ctx)
	if err != nil {
		return fmt.Errorf("refresh buyers: %w", err)
	}
	c.mu.Lock()
	c.buyers = buyers
	c.mu.Unlock()
	return nil
}

func (c *Cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.types = nil
	c.byType = nil
	c.products = nil
	c.buyers = nil
	c.settings = nil
}

// Loaded reports whether the last Load succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ItemTypes returns the item types in store order.
func (c *Cache) ItemTypes() []model.ItemType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.types)
}

// Known reports whether itemType is in the cache.
func (c *Cache) Known(itemType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byType[itemType]
	return ok
}

// Price returns the unit price for itemType, or 0 when unknown.
func (c *Cache) Price(itemType string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byType[itemType].Price
}

// Tare returns the reference tare for itemType, or 0 when unknown.
func (c *Cache) Tare(itemType string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byType[itemType].TareKg
}

// Products returns every product.
func (c *Cache) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

// ProductsFor returns the products of one item type.
func (c *Cache) ProductsFor(itemType string) []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Product
	for _, p := range c.products {
		if p.ItemType == itemType {
			out = append(out, p)
		}
	}
	return out
}

// Product looks a product up by id.
func (c *Cache) Product(id string) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Buyers returns the buyers ordered by name.
func (c *Cache) Buyers() []model.Buyer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.buyers)
}

// Buyer looks a buyer up by id.
func (c *Cache) Buyer(id string) (model.Buyer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.buyers, func(b model.Buyer) bool { return b.ID == id })
	if i < 0 {
		return model.Buyer{}, false
	}
	return c.buyers[i], true
}

// Settings returns the settings record, or nil when none exists.
func (c *Cache) Settings() *model.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.settings == nil {
		return nil
	}
	s := *c.settings
	return &s
}
