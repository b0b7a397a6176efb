package sessions

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	SessionCookieName = "session_token"
	TokenLifetime     = time.Hour
)

// Claims is what a session token carries. Tokens are stateless: logging out
// only deletes the cookie, so a copied token stays valid until ExpiresAt.
type Claims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
}

type TokenManager struct {
	codec    *securecookie.SecureCookie
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenManager signs tokens with hashKey and, when blockKey is not nil,
// encrypts them with AES (16, 24 or 32 byte key).
func NewTokenManager(hashKey, blockKey []byte) *TokenManager {
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(TokenLifetime / time.Second))

	return &TokenManager{codec: codec, lifetime: TokenLifetime, now: time.Now}
}

func (m *TokenManager) Issue(user *models.User) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Username:  user.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.lifetime).Unix(),
	}

	token, err := m.codec.Encode(SessionCookieName, claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode session token: %w", err)
	}
	return token, claims, nil
}

func (m *TokenManager) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("missing session token")
	}

	var claims Claims
	if err := m.codec.Decode(SessionCookieName, token, &claims); err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if claims.UserID == "" || m.now().Unix() >= claims.ExpiresAt {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return &claims, nil
}

func (m *TokenManager) Cookie(token string) *http.Cookie {
	return sessions.NewCookie(SessionCookieName, token, &sessions.Options{
		Path:     "/",
		MaxAge:   int(m.lifetime / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *TokenManager) ExpiredCookie() *http.Cookie {
	return sessions.NewCookie(SessionCookieName, "", &sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session cookie, falling back to a bearer token
// for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
