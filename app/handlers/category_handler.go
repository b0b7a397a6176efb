package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render     *render.Render
	categories *services.CategoryService
	importer   *services.CSVImporter
}

func NewCategoryHandler(r *render.Render, categories *services.CategoryService, importer *services.CSVImporter) *CategoryHandler {
	return &CategoryHandler{render: r, categories: categories, importer: importer}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	page, err := h.categories.List(r.Context(), repositories.CategoryFilter{Name: r.URL.Query().Get("name")}, params)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	category, err := h.categories.Create(r.Context(), input)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	category, err := h.categories.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, messageResponse{Message: "category deleted"})
}

func (h *CategoryHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedCSV(w, r)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportCategories(r.Context(), file)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}
