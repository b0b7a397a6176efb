package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type HealthHandler struct {
	render *render.Render
	db     *gorm.DB
}

func NewHealthHandler(r *render.Render, db *gorm.DB) *HealthHandler {
	return &HealthHandler{render: r, db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		h.render.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CSRFToken hands out the token clients echo back in X-CSRF-Token. Only
// routed when CSRF protection is on.
func (h *HealthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-CSRF-Token", csrf.Token(r))
	h.render.JSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
}
