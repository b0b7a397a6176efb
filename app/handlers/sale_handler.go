package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type SaleHandler struct {
	render   *render.Render
	sales    *services.SaleService
	importer *services.CSVImporter
}

func NewSaleHandler(r *render.Render, sales *services.SaleService, importer *services.CSVImporter) *SaleHandler {
	return &SaleHandler{render: r, sales: sales, importer: importer}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	days, err := queryInt(r, "days", 0)
	if err == nil && days < 0 {
		err = apperrors.InvalidArgument("days must not be negative")
	}
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}

	filter := repositories.SaleFilter{ProductID: r.URL.Query().Get("product_id"), Since: h.sales.Since(days)}
	page, err := h.sales.List(r.Context(), filter, params)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SaleInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	sale, err := h.sales.Create(r.Context(), input)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, sale)
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.SalePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	sale, err := h.sales.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sales.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, messageResponse{Message: "sale deleted"})
}

func (h *SaleHandler) TotalProfit(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", services.DefaultProfitDays)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	summary, err := h.sales.TotalProfit(r.Context(), days, r.URL.Query().Get("product_id"))
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, summary)
}

func (h *SaleHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedCSV(w, r)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportSales(r.Context(), file)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}
