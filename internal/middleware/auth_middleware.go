package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// AuthMiddleware authenticates storefront clients by API key. Live and
// sandbox keys both pass; sandbox is flagged in context so handlers
// can tell test traffic apart.
type AuthMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle enforces API-key auth, the X-Client-Id pairing, and the
// client's IP whitelist.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			m.reject(c, "INVALID_TOKEN", "Missing or invalid authorization header")
			return
		}

		client, isSandbox, err := m.authService.ValidateAPIKey(token)
		if err != nil || client == nil {
			m.reject(c, "INVALID_TOKEN", "Invalid API token")
			return
		}
		if !client.IsActive {
			m.reject(c, "INVALID_CLIENT", "Client is not active")
			return
		}
		if !m.authService.ValidateClientID(client, c.GetHeader("X-Client-Id")) {
			m.reject(c, "INVALID_CLIENT", "Client ID mismatch")
			return
		}
		if !m.authService.IsIPAllowed(client, c.ClientIP()) {
			m.reject(c, "INVALID_IP", "Request from unauthorized IP address")
			return
		}

		c.Set("client", client)
		c.Set("is_sandbox", isSandbox)
		c.Set("client_id", client.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}

// reject counts the failure against the caller's IP before answering;
// past the limit the answer degrades to 429.
func (m *AuthMiddleware) reject(c *gin.Context, code, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetClient returns the authenticated client, or nil outside the
// API-key surface.
func GetClient(c *gin.Context) *models.Client {
	v, ok := c.Get("client")
	if !ok {
		return nil
	}
	return v.(*models.Client)
}

// IsSandbox reports whether the request authenticated with a sandbox
// key.
func IsSandbox(c *gin.Context) bool {
	v, ok := c.Get("is_sandbox")
	if !ok {
		return false
	}
	return v.(bool)
}
