package configs

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	HashKey []byte
	// BlockKey is nil when tokens are signed but not encrypted.
	BlockKey []byte
	CSRFKey  []byte
}

// LoadSessionKeys derives the token keys from env. SECRET_KEY is used as
// raw bytes so the documented default keeps working; the other keys are
// base64 as printed by generate-keys.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	keys := &SessionKeys{HashKey: []byte(env.SecretKey)}

	if env.SessionEncKey != "" {
		encKey, err := base64.URLEncoding.DecodeString(env.SessionEncKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode SESSION_ENC_KEY from Base64: %w", err)
		}
		if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
			return nil, fmt.Errorf("SESSION_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
		}
		keys.BlockKey = encKey
	}

	if env.CSRFEnabled {
		if env.CSRFKey == "" {
			return nil, fmt.Errorf("CSRF_ENABLED is set but CSRF_KEY is empty")
		}
		csrfKey, err := base64.URLEncoding.DecodeString(env.CSRFKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSRF_KEY from Base64: %w", err)
		}
		if len(csrfKey) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(csrfKey))
		}
		keys.CSRFKey = csrfKey
	}
	return keys, nil
}

func GenerateAndPrintSessionKeys(w io.Writer) error {
	secret := securecookie.GenerateRandomKey(64)
	encKey := securecookie.GenerateRandomKey(32)
	csrfKey := securecookie.GenerateRandomKey(32)
	if secret == nil || encKey == nil || csrfKey == nil {
		return fmt.Errorf("error: could not generate keys")
	}

	_, err := fmt.Fprintf(w, "SECRET_KEY=%s\nSESSION_ENC_KEY=%s\nCSRF_KEY=%s\n",
		base64.URLEncoding.EncodeToString(secret),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey),
	)
	return err
}
