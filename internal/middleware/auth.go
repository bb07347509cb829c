package middleware

import (
	"net/http"
	"strings"

	"evidencias/internal/apierror"
	"evidencias/internal/model"
	"evidencias/internal/token"

	"github.com/gin-gonic/gin"
)

const IdentityKey = "identity"

// Authenticate validates the Bearer token on every protected route.
// A missing or malformed header is 401; a token that fails verification is 403.
func Authenticate(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(http.StatusUnauthorized, "Token requerido"))
			return
		}

		id, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(http.StatusForbidden, "Token inválido o expirado"))
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// RequireRole rejects requests whose identity role is not in roles.
// Mount it after Authenticate.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	allowed := make(map[model.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(http.StatusUnauthorized, "Token requerido"))
			return
		}
		if !allowed[id.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(http.StatusForbidden, "Acceso denegado"))
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the verified caller from the Gin context.
func GetIdentity(c *gin.Context) (token.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return token.Identity{}, false
	}
	id, ok := v.(token.Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
