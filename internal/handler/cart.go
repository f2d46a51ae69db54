package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/agrikart/agrikart/internal/domain/cart"
	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/product"
)

type cartLineResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Selected  bool   `json:"selected"`
}

type cartResponse struct {
	Lines         []cartLineResponse `json:"lines"`
	ItemCount     int                `json:"itemCount"`
	Total         float64            `json:"total"`
	SelectedTotal float64            `json:"selectedTotal"`
}

func (h *Handler) cartSnapshot() cartResponse {
	lines := h.session.Cart.Lines()
	out := cartResponse{
		Lines:         make([]cartLineResponse, len(lines)),
		ItemCount:     h.session.Cart.ItemCount(),
		Total:         h.session.Cart.Total().InexactFloat64(),
		SelectedTotal: h.session.Cart.SelectedTotal().InexactFloat64(),
	}
	for i, l := range lines {
		out.Lines[i] = cartLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Color:     l.Color,
			Selected:  l.Selected,
		}
	}
	return out
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Color     string `json:"color"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.session.Cart.Add(r.Context(), req.ProductID, req.Quantity, req.Color)
	if err != nil {
		var iq *cart.InvalidQuantityError
		switch {
		case errors.Is(err, identity.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, "not_signed_in", "sign in to add items to your cart")
		case errors.Is(err, product.ErrNotFound):
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		case errors.As(err, &iq):
			writeError(w, http.StatusUnprocessableEntity, "invalid_quantity", iq.Error())
		default:
			writeError(w, http.StatusInternalServerError, "cart_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int  `json:"quantity"`
		Selected *bool `json:"selected"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	productID := chi.URLParam(r, "productID")
	if req.Quantity != nil {
		h.session.Cart.UpdateQuantity(r.Context(), productID, *req.Quantity)
	}
	if req.Selected != nil {
		h.session.Cart.SetSelected(r.Context(), productID, *req.Selected)
	}
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.session.Cart.Remove(r.Context(), chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) selectAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selected bool `json:"selected"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.session.Cart.SelectAll(r.Context(), req.Selected)
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.session.Cart.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
