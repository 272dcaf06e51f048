package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/http/respond"
)

const identityKey = "identity"

// Authenticator verifies an Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (auth.Identity, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity on the gin context.
func Authenticate(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := authn.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the caller stored by Authenticate.
func Identity(c *gin.Context) (auth.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, apperr.Unauthorized("authentication required")
	}
	id, ok := v.(auth.Identity)
	if !ok {
		return auth.Identity{}, apperr.Unauthorized("authentication required")
	}
	return id, nil
}
