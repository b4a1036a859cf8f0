package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

// ErrNotLoggedIn is reported for session-scoped requests made while nobody is
// logged in.
var ErrNotLoggedIn = errors.New("not logged in")

// SessionResolver exposes the session pointer: the id of the user currently
// logged in, if any.
type SessionResolver interface {
	CurrentUserID() (string, bool)
}

// RequireSession rejects requests made while nobody is logged in and stores the
// session user id in the gin context for handlers.
func RequireSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessions.CurrentUserID()
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, ErrNotLoggedIn.Error())
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
