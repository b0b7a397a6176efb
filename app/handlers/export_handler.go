package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ExportHandler struct {
	render   *render.Render
	exporter *services.CSVExporter
}

func NewExportHandler(r *render.Render, exporter *services.CSVExporter) *ExportHandler {
	return &ExportHandler{render: r, exporter: exporter}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	if !h.exporter.Supports(entity) {
		writeError(h.render, w, r, apperrors.NotFound("unknown export %q, available: %v", entity, h.exporter.Entities()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", entity))
	w.WriteHeader(http.StatusOK)

	// the status line is already sent, so a failure can only be logged
	if err := h.exporter.Export(r.Context(), entity, w); err != nil {
		log.Printf("ExportHandler.Export: %s: %v", entity, err)
	}
}
