package realtime

import (
	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	"auction-site/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const userKey = "realtime.user"

// UserLookup resolves session users
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (model.User, error)
}

// SessionReader extracts the user id from a signed session
type SessionReader interface {
	UserID(c *gin.Context) (id uint, ok bool, err error)
}

// AuthMiddleware attaches the session user, if any, to the request.
// Requests without a session continue anonymously; a session that fails
// verification or names a missing user is rejected.
func AuthMiddleware(users UserLookup, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok, err := sessions.UserID(c)
		if !ok {
			c.Next()
			return
		}
		if err != nil {
			reject(c, err)
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, auctionerrors.ErrRecordNotFound) {
				reject(c, err)
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, err, "internal server error")
			c.Abort()
			utils.Error("AuthMiddleware: user lookup failed", map[string]any{"user_id": id, "error": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func reject(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusUnauthorized, err, "invalid session")
	c.Abort()
	utils.Warn("AuthMiddleware: rejected session", map[string]any{"path": c.Request.URL.Path, "error": err.Error()})
}

// CurrentUser returns the session user attached by AuthMiddleware
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
