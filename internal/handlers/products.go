package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendgate/internal/models"
	"lendgate/internal/store"
)

type productBody struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	MinAmount     int64  `json:"min_amount"`
	MaxAmount     int64  `json:"max_amount"`
	RateBPS       int    `json:"rate_bps"`
	MaxTermMonths int    `json:"max_term_months"`
	Active        *bool  `json:"active,omitempty"`
}

// handleListProducts serves the public catalog of active products.
func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.db.ListProducts(r.Context(), true)
	if err != nil {
		a.log.Error().Err(err).Msg("list products")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load products")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "products": products})
}

// handleAdminListProducts includes inactive catalog entries.
func (a *API) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.db.ListProducts(r.Context(), false)
	if err != nil {
		a.log.Error().Err(err).Msg("list products")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load products")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "products": products})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if body.Code == "" || body.Name == "" {
		respondError(w, http.StatusBadRequest, codeBadRequest, "code and name are required")
		return
	}

	product := models.LoanProduct{
		Code:          body.Code,
		Name:          body.Name,
		Category:      models.ProductCategory(body.Category),
		MinAmount:     body.MinAmount,
		MaxAmount:     body.MaxAmount,
		RateBPS:       body.RateBPS,
		MaxTermMonths: body.MaxTermMonths,
		Active:        true,
	}
	if body.Active != nil {
		product.Active = *body.Active
	}
	if product.Category == "" {
		product.Category = models.CategoryLoan
	}

	if err := a.db.CreateProduct(r.Context(), &product); err != nil {
		a.log.Error().Err(err).Msg("create product")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not create product")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "product": product})
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	product, err := a.db.GetProductByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		a.log.Error().Err(err).Msg("load product")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load product")
		return
	}

	var body productBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if body.Name != "" {
		product.Name = body.Name
	}
	if body.Category != "" {
		product.Category = models.ProductCategory(body.Category)
	}
	if body.MinAmount > 0 {
		product.MinAmount = body.MinAmount
	}
	if body.MaxAmount > 0 {
		product.MaxAmount = body.MaxAmount
	}
	if body.RateBPS > 0 {
		product.RateBPS = body.RateBPS
	}
	if body.MaxTermMonths > 0 {
		product.MaxTermMonths = body.MaxTermMonths
	}
	if body.Active != nil {
		product.Active = *body.Active
	}

	if err := a.db.UpdateProduct(r.Context(), product); err != nil {
		a.log.Error().Err(err).Msg("update product")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not update product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}
