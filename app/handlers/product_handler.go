package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render   *render.Render
	products *services.ProductService
	pricing  *services.PricingService
	importer *services.CSVImporter
}

func NewProductHandler(r *render.Render, products *services.ProductService, pricing *services.PricingService, importer *services.CSVImporter) *ProductHandler {
	return &ProductHandler{render: r, products: products, pricing: pricing, importer: importer}
}

type discountResponse struct {
	Success            bool                    `json:"success"`
	Message            string                  `json:"message"`
	DiscountPercentage decimal.Decimal         `json:"discount_percentage"`
	CategoryID         string                  `json:"category_id"`
	UpdatedProducts    []models.UpdatedProduct `json:"updated_products"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := pagination.FromQuery(q)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}

	filter := repositories.ProductFilter{
		CategoryID: q.Get("category_id"),
		Name:       q.Get("name"),
		Brand:      q.Get("brand"),
	}
	if filter.Name == "" {
		filter.Name = q.Get("title")
	}

	page, err := h.products.List(r.Context(), filter, params)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	product, err := h.products.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}

func (h *ProductHandler) ApplyCategoryDiscount(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["category_id"]

	raw := r.URL.Query().Get("discount_percentage")
	if raw == "" {
		writeError(h.render, w, r, apperrors.InvalidArgument("discount_percentage query parameter is required"))
		return
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(h.render, w, r, apperrors.InvalidArgument("discount_percentage must be a number"))
		return
	}

	result, err := h.pricing.ApplyCategoryDiscount(r.Context(), categoryID, pct)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}

	h.render.JSON(w, http.StatusOK, discountResponse{
		Success:            true,
		Message:            fmt.Sprintf("discount of %s%% applied to %d products", pct.String(), len(result.UpdatedProducts)),
		DiscountPercentage: result.Category.DiscountPercentage,
		CategoryID:         categoryID,
		UpdatedProducts:    result.UpdatedProducts,
	})
}

func (h *ProductHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	if r.URL.Query().Get("limit") == "" {
		params.Limit = pagination.MaxLimit
	}

	page, err := h.products.PriceHistory(r.Context(), mux.Vars(r)["product_id"], params)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedCSV(w, r)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportProducts(r.Context(), file)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}
