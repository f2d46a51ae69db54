// Package handler exposes the storefront core over HTTP. It is a thin
// presentation adapter: every route delegates to cart, ledger, identity, or
// catalog operations and maps domain errors to status codes.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/domain/shipping"
	"github.com/agrikart/agrikart/internal/session"
)

// Handler carries the wired storefront services.
type Handler struct {
	identities *identity.Store
	session    *session.Session
	catalog    *product.MemoryCatalog
	planner    *product.Planner

	// pincodes is optional; checkout skips serviceability validation when nil.
	pincodes *shipping.Index
}

// NewHandler constructs the HTTP handler over the wired services.
func NewHandler(
	identities *identity.Store,
	sess *session.Session,
	catalog *product.MemoryCatalog,
	planner *product.Planner,
	pincodes *shipping.Index,
) *Handler {
	return &Handler{
		identities: identities,
		session:    sess,
		catalog:    catalog,
		planner:    planner,
		pincodes:   pincodes,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/signup", h.signup)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
		r.Patch("/profile", h.updateProfile)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addToCart)
		r.Patch("/items/{productID}", h.updateCartLine)
		r.Delete("/items/{productID}", h.removeFromCart)
		r.Post("/select-all", h.selectAll)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{orderID}", h.getOrder)
		r.Post("/{orderID}/cancel", h.cancelOrder)
		r.Post("/{orderID}/return-request", h.requestReturn)
		r.Post("/{orderID}/replacement-request", h.requestReplacement)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Patch("/products/{id}", h.patchProduct)
		r.Post("/inventory/adjustments", h.adjustInventory)
		r.Post("/inventory/apply", h.applyInventory)
		r.Get("/inventory/summary", h.inventorySummary)
		r.Post("/orders/{orderID}/status", h.updateOrderStatus)
		r.Get("/reports/sales", h.salesReport)
	})

	return r
}

// requireAdmin gates the back office behind the admin identity.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.identities.Current()
		if !ok {
			writeError(w, http.StatusUnauthorized, "not_signed_in", "sign in required")
			return
		}
		if !id.Admin {
			writeError(w, http.StatusForbidden, "not_admin", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
