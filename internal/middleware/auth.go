package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/skinsewa/api/internal/handler"
	"github.com/skinsewa/api/pkg/auth"
)

const (
	ContextClinicID   = "clinic_id"
	ContextClinicName = "clinic_name"
	ContextRole       = "role"
)

// AuthMiddleware guards the clinic dashboard routes. Validated claims
// are cached briefly so repeated dashboard polling does not re-verify
// the same token signature on every request.
type AuthMiddleware struct {
	jwt   auth.JWTService
	cache *gocache.Cache
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:   jwt,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextClinicID, claims.SubjectID.String())
		c.Set(ContextClinicName, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func (m *AuthMiddleware) validate(token string) (*auth.Claims, error) {
	if cached, ok := m.cache.Get(token); ok {
		claims := cached.(*auth.Claims)
		if claims.ExpiresAt != nil && time.Now().Before(claims.ExpiresAt.Time) {
			return claims, nil
		}
		m.cache.Delete(token)
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	m.cache.Set(token, claims, gocache.DefaultExpiration)
	return claims, nil
}
