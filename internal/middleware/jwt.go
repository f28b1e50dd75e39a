package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/mkkmani/musicbackend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// TokenVerifier checks a bearer token against the secret of one role.
type TokenVerifier interface {
	VerifyToken(token string, expected model.Role) (*service.Claims, error)
}

// RequireAdminJWT admits only requests carrying a valid admin token. It aborts
// before any downstream handler runs.
func RequireAdminJWT(auth TokenVerifier) gin.HandlerFunc {
	return requireRole(auth, model.RoleAdmin)
}

// RequireStudentJWT admits only requests carrying a valid student token.
func RequireStudentJWT(auth TokenVerifier) gin.HandlerFunc {
	return requireRole(auth, model.RoleStudent)
}

func requireRole(auth TokenVerifier, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.VerifyToken(tokenStr, role)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, service.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
