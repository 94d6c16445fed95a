package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
	"prepbuddy/internal/store"
)

const sessionKey = "session"

// SessionFromContext returns the session placed by the session middleware.
func SessionFromContext(c *gin.Context) (model.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.Session{}, false
	}
	s, ok := v.(model.Session)
	return s, ok
}

func SetSession(c *gin.Context, s model.Session) {
	c.Set(sessionKey, s)
}

// storeFor resolves the caller's hydrated store or writes the error
// response itself.
func storeFor(c *gin.Context, registry *store.Registry) (*store.Store, bool) {
	s, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return nil, false
	}

	st, err := registry.Get(c.Request.Context(), s)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return st, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsAuth(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.IsPersistence(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "durable backend rejected the operation"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
