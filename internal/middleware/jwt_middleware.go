package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/utils"
)

// JWTMiddleware guards the admin back-office routes. The SSE stream
// authenticates on its own because EventSource cannot set headers.
type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing or invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
