package middleware

import (
	"net/http"
	"strings"

	"github.com/JKelly423/connect-4-reinforced-learning/pkg/auth"
	"github.com/gin-gonic/gin"
)

const ClaimsKey = "game_claims"

type TokenValidator interface {
	ValidateGameToken(token string) (*auth.GameClaims, error)
}

// GameAuthMiddleware requires a bearer game token and stores its claims
// under ClaimsKey.
func GameAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing game token"})
			return
		}

		claims, err := validator.ValidateGameToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired game token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Claims returns the claims stored by GameAuthMiddleware.
func Claims(c *gin.Context) (*auth.GameClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.GameClaims)
	return claims, ok
}
