package middlewares

import (
	"log"
	"net/http"
	"slices"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/unrolled/render"
)

func writeError(rd *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	status, body := helpers.NewErrorBody(r, err)
	rd.JSON(w, status, body)
}

// SessionMiddleware puts the claims of a valid session token into the
// request context. Requests without a valid token pass through untouched.
func SessionMiddleware(tokens *sessions.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessions.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(helpers.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth rejects requests without valid claims with 401.
func RequireAuth(rd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := helpers.ClaimsFromContext(r.Context()); !ok {
				writeError(rd, w, r, apperrors.Unauthorized("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects anonymous requests with 401 and requests whose role is
// not in roles with 403.
func RequireRole(rd *render.Render, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := helpers.ClaimsFromContext(r.Context())
			if !ok {
				writeError(rd, w, r, apperrors.Unauthorized("authentication required"))
				return
			}
			if !slices.Contains(roles, claims.Role) {
				log.Printf("RequireRole: user %s (%s) denied %s %s", claims.UserID, claims.Role, r.Method, r.URL.Path)
				writeError(rd, w, r, apperrors.Forbidden("role %s may not perform this action", claims.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
