package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/order"
)

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
}

type addressPayload struct {
	DoorNumber string `json:"doorNumber"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Pincode    string `json:"pincode"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Username        string              `json:"username"`
	Items           []orderItemResponse `json:"items"`
	ShippingAddress addressPayload      `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	Total           float64             `json:"total"`
	OrderDate       time.Time           `json:"orderDate"`
	DeliveryDate    *time.Time          `json:"deliveryDate,omitempty"`
	CanCancel       bool                `json:"canCancel"`
	CanReplace      bool                `json:"canReplace"`
	CanReturn       bool                `json:"canReturn"`
}

func toOrderResponse(o order.Order, now time.Time) orderResponse {
	elig := o.EligibilityAt(now)
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
			Color:     it.Color,
		}
	}
	return orderResponse{
		ID:       o.ID,
		UserID:   o.UserID,
		Username: o.Username,
		Items:    items,
		ShippingAddress: addressPayload{
			DoorNumber: o.ShippingAddress.DoorNumber,
			Street:     o.ShippingAddress.Street,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			Pincode:    o.ShippingAddress.Pincode,
		},
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Total:         o.Total.InexactFloat64(),
		OrderDate:     o.OrderDate,
		DeliveryDate:  o.DeliveryDate,
		CanCancel:     elig.CanCancel,
		CanReplace:    elig.CanReplace,
		CanReturn:     elig.CanReturn,
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress addressPayload `json:"shippingAddress"`
		PaymentMethod   string         `json:"paymentMethod"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
		return
	}
	if h.pincodes != nil && !h.pincodes.Serviceable(req.ShippingAddress.Pincode) {
		writeError(w, http.StatusUnprocessableEntity, "pincode_not_serviceable",
			"delivery is not available for this pincode")
		return
	}

	orderID, err := h.session.Orders.CreateOrder(r.Context(), order.Address{
		DoorNumber: req.ShippingAddress.DoorNumber,
		Street:     req.ShippingAddress.Street,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		Pincode:    req.ShippingAddress.Pincode,
	}, method)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, "not_signed_in", "sign in to place an order")
		case errors.Is(err, order.ErrNothingSelected):
			writeError(w, http.StatusUnprocessableEntity, "nothing_selected", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "order_error", err.Error())
		}
		return
	}

	o, _ := h.session.Orders.Get(orderID)
	writeJSON(w, http.StatusCreated, toOrderResponse(o, time.Now()))
}

func (h *Handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	orders := h.session.Orders.Orders()
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o, now)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session.Orders.Get(chi.URLParam(r, "orderID"))
	if !ok {
		writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o, time.Now()))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	err := h.session.Orders.CancelOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
		case errors.Is(err, order.ErrNotCancellable):
			writeError(w, http.StatusConflict, "not_cancellable", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "order_error", err.Error())
		}
		return
	}

	o, _ := h.session.Orders.Get(orderID)
	writeJSON(w, http.StatusOK, toOrderResponse(o, time.Now()))
}

func (h *Handler) requestReturn(w http.ResponseWriter, r *http.Request) {
	h.customerRequest(w, r, h.session.Orders.RequestReturn)
}

func (h *Handler) requestReplacement(w http.ResponseWriter, r *http.Request) {
	h.customerRequest(w, r, h.session.Orders.RequestReplacement)
}

func (h *Handler) customerRequest(w http.ResponseWriter, r *http.Request, submit func(orderID, reason string) error) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := submit(chi.URLParam(r, "orderID"), req.Reason); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "order_error", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
}
