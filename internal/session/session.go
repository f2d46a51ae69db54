// Package session ties the cart and order ledger to the identity lifecycle:
// sign-in loads that identity's persisted state, sign-out drops the
// in-memory state while leaving the persisted copy for the next visit.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/domain/cart"
	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/order"
)

// Session is the per-identity working set: one cart and one order ledger.
type Session struct {
	Cart   *cart.Cart
	Orders *order.Ledger

	lg *zap.Logger
}

// Bind wires the session to the identity store's change notifications and
// loads state for any identity already signed in (a resumed session).
func Bind(ctx context.Context, store *identity.Store, c *cart.Cart, ledger *order.Ledger, lg *zap.Logger) *Session {
	s := &Session{Cart: c, Orders: ledger, lg: lg}

	store.OnChange(func(id identity.Identity, signedIn bool) {
		// Listener runs on the caller's goroutine; state loads are quick
		// local reads, so a background context is fine here.
		s.onChange(context.Background(), id, signedIn)
	})

	if id, ok := store.Current(); ok {
		s.onChange(ctx, id, true)
	}
	return s
}

func (s *Session) onChange(ctx context.Context, id identity.Identity, signedIn bool) {
	if !signedIn {
		s.Cart.Reset()
		s.Orders.Reset()
		s.lg.Debug("Session cleared")
		return
	}
	s.Cart.Load(ctx, id.ID)
	s.Orders.Load(ctx, id.ID)
	s.lg.Debug("Session loaded", zap.String("identity", id.ID))
}
