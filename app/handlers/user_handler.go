package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type UserHandler struct {
	render   *render.Render
	users    *services.UserService
	importer *services.CSVImporter
}

func NewUserHandler(r *render.Render, users *services.UserService, importer *services.CSVImporter) *UserHandler {
	return &UserHandler{render: r, users: users, importer: importer}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	filter := repositories.UserFilter{Role: models.Role(r.URL.Query().Get("role"))}
	page, err := h.users.List(r.Context(), filter, params)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.UserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), input)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	user, err := h.users.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

func (h *UserHandler) Roles(w http.ResponseWriter, r *http.Request) {
	h.render.JSON(w, http.StatusOK, map[string][]models.Role{"roles": models.Roles})
}

func (h *UserHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedCSV(w, r)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportUsers(r.Context(), file)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}
