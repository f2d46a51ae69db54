package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/agrikart/agrikart/internal/domain/order"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/report"
)

// lowStockThreshold matches the back-office dashboard's definition of a
// product running low.
const lowStockThreshold = 5

func (h *Handler) patchProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             *string  `json:"name"`
		Price            *float64 `json:"price"`
		Description      *string  `json:"description"`
		ShortDescription *string  `json:"shortDescription"`
		Colors           []string `json:"colors"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	patch := product.Patch{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Colors:           req.Colors,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		if price.IsNegative() {
			writeError(w, http.StatusUnprocessableEntity, "invalid_price", "price must not be negative")
			return
		}
		patch.Price = &price
	}

	id := chi.URLParam(r, "id")
	if err := h.catalog.ApplyPatch(id, patch); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "catalog_error", err.Error())
		return
	}

	p, _ := h.catalog.FindByID(id)
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) adjustInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Change    int    `json:"change"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pending, err := h.planner.Adjust(req.ProductID, req.Change)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "inventory_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"productId": req.ProductID,
		"pending":   pending,
	})
}

func (h *Handler) applyInventory(w http.ResponseWriter, _ *http.Request) {
	applied := h.planner.Apply()
	writeJSON(w, http.StatusOK, map[string]int{"updated": applied})
}

func (h *Handler) inventorySummary(w http.ResponseWriter, _ *http.Request) {
	s := h.planner.Summarize(lowStockThreshold)
	writeJSON(w, http.StatusOK, map[string]any{
		"totalValue": s.TotalValue.InexactFloat64(),
		"totalStock": s.TotalStock,
		"lowStock":   s.LowStock,
	})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := h.session.Orders.UpdateStatus(r.Context(), orderID, status); err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
		case errors.Is(err, order.ErrTerminalStatus), errors.Is(err, order.ErrBadTransition):
			writeError(w, http.StatusConflict, "invalid_transition", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "order_error", err.Error())
		}
		return
	}

	o, _ := h.session.Orders.Get(orderID)
	writeJSON(w, http.StatusOK, toOrderResponse(o, time.Now()))
}

func (h *Handler) salesReport(w http.ResponseWriter, _ *http.Request) {
	orders := h.session.Orders.Orders()

	statusCounts := make(map[string]int)
	for status, n := range report.StatusCounts(orders) {
		statusCounts[string(status)] = n
	}

	monthly := report.MonthlySales(orders)
	monthlyOut := make([]map[string]any, len(monthly))
	for i, pt := range monthly {
		monthlyOut[i] = map[string]any{
			"month":   pt.Month,
			"sales":   pt.Sales,
			"revenue": pt.Revenue.InexactFloat64(),
		}
	}

	top := report.TopProducts(orders, 5)
	topOut := make([]map[string]any, len(top))
	for i, ps := range top {
		topOut[i] = map[string]any{
			"productId": ps.ProductID,
			"name":      ps.Name,
			"units":     ps.Units,
			"revenue":   ps.Revenue.InexactFloat64(),
		}
	}

	categories := make(map[string]float64)
	for category, revenue := range report.CategoryRevenue(orders, h.catalog) {
		categories[category] = revenue.InexactFloat64()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"statusCounts":    statusCounts,
		"revenue":         report.Revenue(orders).InexactFloat64(),
		"monthlySales":    monthlyOut,
		"topProducts":     topOut,
		"categoryRevenue": categories,
	})
}
