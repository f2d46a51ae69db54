// Package cart holds the line items the signed-in identity intends to buy.
// Lines are keyed by product id; selection flags control which lines take
// part in checkout. Every mutation is mirrored to the persistence bridge.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/storage"
)

const bridgeKey = "cart"

// InvalidQuantityError indicates an Add with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// Line is one product entry in the cart.
type Line struct {
	ProductID string
	Quantity  int
	Color     string
	Selected  bool
}

// Cart is the mutable line-item collection for the current identity.
// All mutations persist the full cart state before returning.
type Cart struct {
	provider identity.Provider
	catalog  product.Catalog
	bridge   storage.Bridge
	lg       *zap.Logger

	mu         sync.Mutex
	identityID string // bridge partition currently loaded; empty when anonymous
	lines      []Line
}

// New creates an empty Cart. Call Load once an identity signs in.
func New(provider identity.Provider, catalog product.Catalog, bridge storage.Bridge, lg *zap.Logger) *Cart {
	return &Cart{
		provider: provider,
		catalog:  catalog,
		bridge:   bridge,
		lg:       lg,
	}
}

// Load replaces the cart contents with the persisted state of identityID.
// A missing document yields an empty cart; a corrupt document is purged and
// logged, never surfaced as a failure.
func (c *Cart) Load(ctx context.Context, identityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identityID = identityID
	c.lines = nil

	data, err := c.bridge.Load(ctx, identityID, bridgeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.lg.Warn("Discarding unreadable cart data", zap.String("identity", identityID), zap.Error(err))
			_ = c.bridge.Clear(ctx, identityID, bridgeKey)
		}
		return
	}

	lines, err := decodeLines(data)
	if err != nil {
		c.lg.Warn("Discarding corrupt cart data", zap.String("identity", identityID), zap.Error(err))
		_ = c.bridge.Clear(ctx, identityID, bridgeKey)
		return
	}
	c.lines = lines
}

// Reset drops the in-memory cart without touching persisted data. Used on
// sign-out: the identity's cart stays on disk for the next session.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identityID = ""
	c.lines = nil
}

// Add puts quantity units of a product into the cart. If a line for the
// product already exists its quantity grows by quantity, and the color is
// overwritten only when a non-empty color is supplied. New lines start
// selected.
func (c *Cart) Add(ctx context.Context, productID string, quantity int, color string) error {
	if _, ok := c.provider.Current(); !ok {
		return identity.ErrNotAuthenticated
	}
	if quantity < 1 {
		return &InvalidQuantityError{ProductID: productID}
	}
	if _, err := c.catalog.FindByID(productID); err != nil {
		return err
	}

	c.mu.Lock()
	if line := c.find(productID); line != nil {
		line.Quantity += quantity
		if color != "" {
			line.Color = color
		}
	} else {
		c.lines = append(c.lines, Line{
			ProductID: productID,
			Quantity:  quantity,
			Color:     color,
			Selected:  true,
		})
	}
	c.mu.Unlock()

	c.persist(ctx)
	return nil
}

// Remove deletes the line for productID. Unknown products are a no-op.
func (c *Cart) Remove(ctx context.Context, productID string) {
	c.mu.Lock()
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	c.mu.Unlock()

	c.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing line verbatim. A quantity
// of zero or less removes the line. No stock ceiling is enforced here.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(ctx, productID)
		return
	}

	c.mu.Lock()
	if line := c.find(productID); line != nil {
		line.Quantity = quantity
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// SetSelected toggles checkout participation for one line.
func (c *Cart) SetSelected(ctx context.Context, productID string, selected bool) {
	c.mu.Lock()
	if line := c.find(productID); line != nil {
		line.Selected = selected
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// SelectAll toggles checkout participation for every line.
func (c *Cart) SelectAll(ctx context.Context, selected bool) {
	c.mu.Lock()
	for i := range c.lines {
		c.lines[i].Selected = selected
	}
	c.mu.Unlock()

	c.persist(ctx)
}

// Clear empties the cart and persists the empty state.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()

	c.persist(ctx)
}

// ConsumeSelected removes and returns all selected lines. Used by order
// creation: the returned lines become order items, unselected lines stay.
func (c *Cart) ConsumeSelected(ctx context.Context) []Line {
	c.mu.Lock()
	var taken []Line
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.Selected {
			taken = append(taken, l)
		} else {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	c.mu.Unlock()

	c.persist(ctx)
	return taken
}

// Lines returns a copy of all lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// SelectedLines returns a copy of the selected subset.
func (c *Cart) SelectedLines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Line
	for _, l := range c.lines {
		if l.Selected {
			out = append(out, l)
		}
	}
	return out
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total prices all lines against the catalog at call time. Lines whose
// product has vanished from the catalog contribute nothing.
func (c *Cart) Total() decimal.Decimal {
	return c.sum(false)
}

// SelectedTotal prices only the selected lines.
func (c *Cart) SelectedTotal() decimal.Decimal {
	return c.sum(true)
}

func (c *Cart) sum(selectedOnly bool) decimal.Decimal {
	c.mu.Lock()
	lines := append([]Line(nil), c.lines...)
	c.mu.Unlock()

	total := decimal.Zero
	for _, l := range lines {
		if selectedOnly && !l.Selected {
			continue
		}
		p, err := c.catalog.FindByID(l.ProductID)
		if err != nil {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// find returns the line for productID. Caller must hold c.mu.
func (c *Cart) find(productID string) *Line {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return &c.lines[i]
		}
	}
	return nil
}

// persist mirrors the cart to the bridge. Anonymous carts are not persisted.
// Failures are logged and swallowed: persistence is best-effort mirroring,
// not a transaction.
func (c *Cart) persist(ctx context.Context) {
	c.mu.Lock()
	identityID := c.identityID
	data := encodeLines(c.lines)
	c.mu.Unlock()

	if identityID == "" {
		return
	}
	if err := c.bridge.Save(ctx, identityID, bridgeKey, data); err != nil {
		c.lg.Warn("Persisting cart failed", zap.String("identity", identityID), zap.Error(err))
	}
}
