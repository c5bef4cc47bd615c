package auth

import (
	"net/http"
	"strings"

	"mobilestore/internal/apperr"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "auth_claims"

// ClaimsFromContext returns the authenticated caller's claims, if any.
func ClaimsFromContext(c *gin.Context) *Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireUser authenticates the caller and allows the request through when
// the caller is an admin or when the id they are acting on (path param,
// query or body binding happens later) matches their own. The resolved
// claims are stored on the context for handlers and services.
func RequireUser(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"EM": "Empty bearer token!",
				"EC": apperr.CodeValidation,
				"DT": "",
			})
			return
		}

		claims, err := tm.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"EM": "Invalid or expired token",
				"EC": apperr.CodeNotFound,
				"DT": "",
			})
			return
		}

		// When the route names a target user id, enforce the owner rule
		// here; routes targeting the caller implicitly are checked at the
		// service layer.
		if target := c.Param("id"); target != "" && !CanAccess(claims, target) {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"EM": "You dont have permission!",
				"EC": apperr.CodeNotFound,
				"DT": "",
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAdmin authenticates the caller and rejects non-admins.
func RequireAdmin(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"EM": "Empty bearer token!",
				"EC": apperr.CodeValidation,
				"DT": "",
			})
			return
		}

		claims, err := tm.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"EM": "Invalid or expired token",
				"EC": apperr.CodeNotFound,
				"DT": "",
			})
			return
		}

		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"EM": "You dont have permission!",
				"EC": apperr.CodeNotFound,
				"DT": "",
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}
