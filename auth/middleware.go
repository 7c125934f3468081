package auth

import (
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Middleware authenticates the Bearer token before any handler touches state.
func Middleware(verifier contract.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, errors.ErrMissingToken)
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			abort(c, errors.ErrInvalidToken)
			return
		}
		user, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(userIDKey, user)
		c.Next()
	}
}

// UserFrom returns the user authenticated by Middleware.
func UserFrom(c *gin.Context) domain.UserID {
	if v, ok := c.Get(userIDKey); ok {
		if user, ok := v.(domain.UserID); ok {
			return user
		}
	}
	return domain.NoUser
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.MapToHTTPStatus(err), gin.H{"error": err.Error()})
}
