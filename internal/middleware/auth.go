package middleware

import (
	"net/http"
	"strings"

	"github.com/Fraancoboss/WTRACKER/internal/service"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// JWTAuth validates the Bearer token on every protected route.
// Token parsing lives in the auth service so there is a single place
// that knows the signing method and secret.
func JWTAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Token no proporcionado")
			return
		}

		claims, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the typed claims from the Gin context.
// Returns nil when the request never went through JWTAuth.
func GetClaims(c *gin.Context) *service.TokenClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.TokenClaims)
	return claims
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}
