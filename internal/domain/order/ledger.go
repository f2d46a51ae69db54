package order

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/domain/cart"
	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/storage"
)

const bridgeKey = "orders"

// Sentinel errors for ledger operations.
var (
	ErrNotFound        = errors.New("order not found")
	ErrNothingSelected = errors.New("no cart lines selected")
	ErrNotCancellable  = errors.New("order can no longer be cancelled")
	ErrTerminalStatus  = errors.New("order status is terminal")
	ErrBadTransition   = errors.New("status transition not allowed")
)

// Ledger owns all orders for the current identity. It is the single writer
// of order records; readers get copies.
type Ledger struct {
	provider identity.Provider
	catalog  product.Catalog
	cart     *cart.Cart
	bridge   storage.Bridge
	lg       *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	identityID string
	orders     []*Order
}

// NewLedger creates an empty Ledger. Call Load once an identity signs in.
func NewLedger(provider identity.Provider, catalog product.Catalog, c *cart.Cart, bridge storage.Bridge, lg *zap.Logger) *Ledger {
	return &Ledger{
		provider: provider,
		catalog:  catalog,
		cart:     c,
		bridge:   bridge,
		lg:       lg,
		now:      time.Now,
	}
}

// Load replaces the ledger contents with the persisted orders of identityID.
// Corrupt documents are purged and logged, never surfaced as a failure.
func (l *Ledger) Load(ctx context.Context, identityID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.identityID = identityID
	l.orders = nil

	data, err := l.bridge.Load(ctx, identityID, bridgeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.lg.Warn("Discarding unreadable order data", zap.String("identity", identityID), zap.Error(err))
			_ = l.bridge.Clear(ctx, identityID, bridgeKey)
		}
		return
	}

	orders, err := decodeOrders(data)
	if err != nil {
		l.lg.Warn("Discarding corrupt order data", zap.String("identity", identityID), zap.Error(err))
		_ = l.bridge.Clear(ctx, identityID, bridgeKey)
		return
	}
	l.orders = orders
}

// Reset drops the in-memory ledger without touching persisted data.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.identityID = ""
	l.orders = nil
}

// CreateOrder snapshots the selected cart lines into a new pending order,
// removes those lines from the cart, and persists both. It returns the new
// order id, or an empty id with ErrNothingSelected /
// identity.ErrNotAuthenticated when the preconditions fail — the caller is
// expected to pre-validate, so these are redirect signals, not faults.
func (l *Ledger) CreateOrder(ctx context.Context, addr Address, method PaymentMethod) (string, error) {
	ident, ok := l.provider.Current()
	if !ok {
		return "", identity.ErrNotAuthenticated
	}

	selected := l.cart.SelectedLines()
	if len(selected) == 0 {
		return "", ErrNothingSelected
	}

	// Snapshot each line with its product as priced right now. Lines whose
	// product has left the catalog are dropped rather than failing checkout.
	items := make([]Item, 0, len(selected))
	total := decimal.Zero
	for _, line := range selected {
		p, err := l.catalog.FindByID(line.ProductID)
		if err != nil {
			l.lg.Warn("Skipping stale cart line", zap.String("product", line.ProductID))
			continue
		}
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Color:     line.Color,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if len(items) == 0 {
		return "", ErrNothingSelected
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          ident.ID,
		Username:        ident.Username,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		Status:          StatusPending,
		Total:           total,
		OrderDate:       l.now(),
	}

	l.mu.Lock()
	l.orders = append(l.orders, o)
	l.mu.Unlock()

	l.cart.ConsumeSelected(ctx)
	l.persist(ctx)

	l.lg.Info("Order placed",
		zap.String("order", o.ID),
		zap.String("identity", ident.ID),
		zap.Int("items", len(items)),
		zap.String("total", total.String()),
	)
	return o.ID, nil
}

// Get returns a copy of the order with the given id.
func (l *Ledger) Get(orderID string) (Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if o := l.find(orderID); o != nil {
		return o.clone(), true
	}
	return Order{}, false
}

// Orders returns copies of all orders in creation sequence.
func (l *Ledger) Orders() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.clone())
	}
	return out
}

// Eligibility computes the current action flags for an order.
func (l *Ledger) Eligibility(orderID string) (Eligibility, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(orderID)
	if o == nil {
		return Eligibility{}, ErrNotFound
	}
	return o.EligibilityAt(l.now()), nil
}

// UpdateStatus is the back-office transition: it moves a non-terminal order
// to the given status. Terminal orders stay put, Returned is reachable only
// from Delivered, and moving to Delivered goes through the delivery path so
// the delivery date is stamped.
func (l *Ledger) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if status == StatusDelivered {
		return l.MarkDelivered(ctx, orderID)
	}

	l.mu.Lock()
	o := l.find(orderID)
	switch {
	case o == nil:
		l.mu.Unlock()
		return ErrNotFound
	case o.Status.Terminal():
		l.mu.Unlock()
		return ErrTerminalStatus
	case status == StatusReturned && o.Status != StatusDelivered:
		l.mu.Unlock()
		return ErrBadTransition
	}
	o.Status = status
	l.mu.Unlock()

	l.persist(ctx)
	return nil
}

// CancelOrder moves a cancellable order to Cancelled. Cancelling an already
// cancelled order is idempotent; orders past the cancellable states return
// ErrNotCancellable and stay untouched.
func (l *Ledger) CancelOrder(ctx context.Context, orderID string) error {
	l.mu.Lock()
	o := l.find(orderID)
	switch {
	case o == nil:
		l.mu.Unlock()
		return ErrNotFound
	case o.Status == StatusCancelled:
		l.mu.Unlock()
		return nil
	case !o.CanCancel():
		l.mu.Unlock()
		return ErrNotCancellable
	}
	o.Status = StatusCancelled
	l.mu.Unlock()

	l.persist(ctx)
	l.lg.Info("Order cancelled", zap.String("order", orderID))
	return nil
}

// MarkDelivered moves an order to Delivered and stamps the delivery date,
// opening the replacement/return window. Eligibility expiry needs no timer:
// flags are recomputed from the delivery date on every read.
func (l *Ledger) MarkDelivered(ctx context.Context, orderID string) error {
	l.mu.Lock()
	o := l.find(orderID)
	switch {
	case o == nil:
		l.mu.Unlock()
		return ErrNotFound
	case o.Status.Terminal():
		l.mu.Unlock()
		return ErrTerminalStatus
	}
	now := l.now()
	o.Status = StatusDelivered
	o.DeliveryDate = &now
	l.mu.Unlock()

	l.persist(ctx)
	l.lg.Info("Order delivered", zap.String("order", orderID))
	return nil
}

// RequestReturn records a return request. It is a notification to a human
// process outside this system: the order itself is not mutated.
func (l *Ledger) RequestReturn(orderID, reason string) error {
	return l.request("return", orderID, reason)
}

// RequestReplacement records a replacement request. Like RequestReturn it
// leaves the order untouched.
func (l *Ledger) RequestReplacement(orderID, reason string) error {
	return l.request("replacement", orderID, reason)
}

func (l *Ledger) request(kind, orderID, reason string) error {
	l.mu.Lock()
	o := l.find(orderID)
	l.mu.Unlock()

	if o == nil {
		return ErrNotFound
	}
	l.lg.Info("Customer request submitted",
		zap.String("kind", kind),
		zap.String("order", orderID),
		zap.String("reason", reason),
	)
	return nil
}

// find returns the order with the given id. Caller must hold l.mu.
func (l *Ledger) find(orderID string) *Order {
	for _, o := range l.orders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

func (l *Ledger) persist(ctx context.Context) {
	l.mu.Lock()
	identityID := l.identityID
	data := encodeOrders(l.orders)
	l.mu.Unlock()

	if identityID == "" {
		return
	}
	if err := l.bridge.Save(ctx, identityID, bridgeKey, data); err != nil {
		l.lg.Warn("Persisting orders failed", zap.String("identity", identityID), zap.Error(err))
	}
}
