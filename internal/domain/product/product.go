package product

import (
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID               string
	Name             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	Images           []string
	Category         string
	Colors           []string
	Specifications   map[string]string
	Stock            int
	Reviews          []Review
}

// Review is a customer review attached to a product.
type Review struct {
	ID       string
	UserID   string
	Username string
	Rating   int
	Comment  string
	Date     string
}

// Catalog defines read operations over the product catalog.
type Catalog interface {
	FindByID(id string) (*Product, error)
	List() []Product
}

// Patch is a partial update for a product. Nil pointer fields are left
// untouched; a nil Colors slice keeps the existing colors.
type Patch struct {
	Name             *string
	Price            *decimal.Decimal
	Description      *string
	ShortDescription *string
	Colors           []string
}

// MemoryCatalog is an in-memory Catalog with admin-facing mutations.
// Reads return copies so callers cannot alias internal state.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewMemoryCatalog builds a catalog from the given products.
func NewMemoryCatalog(products ...Product) *MemoryCatalog {
	m := make(map[string]*Product, len(products))
	for i := range products {
		p := products[i]
		m[p.ID] = &p
	}
	return &MemoryCatalog{products: m}
}

// FindByID returns a copy of the product with the given id.
func (c *MemoryCatalog) FindByID(id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// List returns all products sorted by id.
func (c *MemoryCatalog) List() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetStock overwrites the stock level of a product. Negative values are
// clamped to zero.
func (c *MemoryCatalog) SetStock(id string, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[id]
	if !ok {
		return ErrNotFound
	}
	if stock < 0 {
		stock = 0
	}
	p.Stock = stock
	return nil
}

// ApplyPatch applies a partial update to a product.
func (c *MemoryCatalog) ApplyPatch(id string, patch Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ShortDescription != nil {
		p.ShortDescription = *patch.ShortDescription
	}
	if patch.Colors != nil {
		p.Colors = append([]string(nil), patch.Colors...)
	}
	return nil
}
