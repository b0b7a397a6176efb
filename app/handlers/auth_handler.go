package handlers

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render *render.Render
	auth   *services.AuthService
	secure bool
}

func NewAuthHandler(r *render.Render, auth *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{render: r, auth: auth, secure: secureCookies}
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(h.render, w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), input)
	if err != nil {
		writeError(h.render, w, r, err)
		return
	}

	cookie := h.auth.Tokens().Cookie(result.Token)
	cookie.Secure = h.secure
	http.SetCookie(w, cookie)

	log.Printf("Login: user %s (%s) logged in", result.User.ID, result.User.Role)
	h.render.JSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: result.Token, User: result.User})
}

// Logout only clears the cookie; the token itself stays valid until it
// expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.VerifyToken(sessions.TokenFromRequest(r)); err != nil {
		writeError(h.render, w, r, err)
		return
	}
	http.SetCookie(w, h.auth.Tokens().ExpiredCookie())
	h.render.JSON(w, http.StatusOK, messageResponse{Message: "logout successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := helpers.ClaimsFromContext(r.Context())
	if !ok {
		writeError(h.render, w, r, apperrors.Unauthorized("authentication required"))
		return
	}
	h.render.JSON(w, http.StatusOK, claims)
}
