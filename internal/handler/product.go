package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/agrikart/agrikart/internal/domain/product"
)

type reviewResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

type productResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	Price            float64           `json:"price"`
	Images           []string          `json:"images,omitempty"`
	Category         string            `json:"category"`
	Colors           []string          `json:"colors,omitempty"`
	Specifications   map[string]string `json:"specifications,omitempty"`
	Stock            int               `json:"stock"`
	Reviews          []reviewResponse  `json:"reviews,omitempty"`
}

func toProductResponse(p product.Product) productResponse {
	reviews := make([]reviewResponse, len(p.Reviews))
	for i, rv := range p.Reviews {
		reviews[i] = reviewResponse{
			ID:       rv.ID,
			UserID:   rv.UserID,
			Username: rv.Username,
			Rating:   rv.Rating,
			Comment:  rv.Comment,
			Date:     rv.Date,
		}
	}
	return productResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price.InexactFloat64(),
		Images:           p.Images,
		Category:         p.Category,
		Colors:           p.Colors,
		Specifications:   p.Specifications,
		Stock:            p.Stock,
		Reviews:          reviews,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.List()
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "catalog_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}
