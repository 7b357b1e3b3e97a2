package api

import (
	"net/http"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

func (a *API) handleProductsList(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

func (a *API) handleProductGet(w http.ResponseWriter, r *http.Request, p router.Params) {
	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	for _, product := range products {
		if product.ID == p["id"] {
			httputil.WriteJSON(w, http.StatusOK, product)
			return
		}
	}
	httputil.NotFound(w, "Product not found")
}

func (a *API) handleProductCreate(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Creator     string  `json:"creator"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Description == "" || req.Creator == "" {
		httputil.BadRequest(w, "Missing required fields")
		return
	}
	now := a.now()
	product := domain.Product{
		ID:              a.ids.NewID("product"),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Creator:         req.Creator,
		AssociatedIdeas: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !a.docs.Append(r.Context(), domain.CollectionProducts, product) {
		httputil.InternalError(w, "Failed to save product")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, product)
}

func (a *API) handleProductUpdate(w http.ResponseWriter, r *http.Request, p router.Params) {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	for i := range products {
		if products[i].ID != p["id"] {
			continue
		}
		if req.Name != "" {
			products[i].Name = req.Name
		}
		if req.Description != "" {
			products[i].Description = req.Description
		}
		if req.Price != nil {
			products[i].Price = *req.Price
		}
		products[i].UpdatedAt = a.now()
		if !a.docs.Write(r.Context(), domain.CollectionProducts, products) {
			httputil.InternalError(w, "Failed to save product")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, products[i])
		return
	}
	httputil.NotFound(w, "Product not found")
}

func (a *API) handleProductDelete(w http.ResponseWriter, r *http.Request, p router.Params) {
	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	remaining := products[:0:0]
	found := false
	for _, product := range products {
		if product.ID == p["id"] {
			found = true
			continue
		}
		remaining = append(remaining, product)
	}
	if !found {
		httputil.NotFound(w, "Product not found")
		return
	}
	if remaining == nil {
		remaining = []domain.Product{}
	}
	if !a.docs.Write(r.Context(), domain.CollectionProducts, remaining) {
		httputil.InternalError(w, "Failed to delete product")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
