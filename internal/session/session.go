// Package session issues and reads the signed cookie that identifies a
// logged-in user.
package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

// CookieName is the cookie (and query parameter) carrying the session token
const CookieName = "auction_session"

// ErrInvalidToken is returned for tokens that fail verification or have expired
var ErrInvalidToken = errors.New("invalid session token")

type payload struct {
	UserID   uint
	IssuedAt int64
}

// Manager signs and encrypts session tokens
type Manager struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
}

// NewManager derives the hash and block keys from secret. secret must be at
// least 32 bytes.
func NewManager(secret []byte, maxAge time.Duration) (*Manager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session: secret must be at least 32 bytes, got %d", len(secret))
	}
	if maxAge <= 0 {
		return nil, errors.New("session: max age must be positive")
	}

	blockKey := sha256.Sum256(append([]byte("auction-site/session/block:"), secret...))
	codec := securecookie.New(secret, blockKey[:])
	codec.MaxAge(int(maxAge.Seconds()))
	return &Manager{codec: codec, maxAge: maxAge}, nil
}

// Encode returns a token for userID
func (m *Manager) Encode(userID uint) (string, error) {
	token, err := m.codec.Encode(CookieName, payload{UserID: userID, IssuedAt: time.Now().Unix()})
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	return token, nil
}

// Decode verifies token and returns the user id it was issued for
func (m *Manager) Decode(token string) (uint, error) {
	var p payload
	if err := m.codec.Decode(CookieName, token, &p); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if p.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return p.UserID, nil
}

// Issue sets the session cookie for userID on the response
func (m *Manager) Issue(c *gin.Context, userID uint) error {
	token, err := m.Encode(userID)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie
func (m *Manager) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID reads the session from the request cookie, falling back to the query
// parameter for clients that cannot set cookies. ok is false when no token is
// present.
func (m *Manager) UserID(c *gin.Context) (id uint, ok bool, err error) {
	token, cerr := c.Cookie(CookieName)
	if cerr != nil || token == "" {
		token = c.Query(CookieName)
	}
	if token == "" {
		return 0, false, nil
	}
	id, err = m.Decode(token)
	if err != nil {
		return 0, true, err
	}
	return id, true, nil
}
