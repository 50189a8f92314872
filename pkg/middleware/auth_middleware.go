package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/dto"
	"github.com/lavanderia/lavanderia-backend/pkg/jwt"
)

// EmployeeRequired valida el token JWT y expone las claims en el contexto.
// Cualquier rol autenticado (empleado o admin) puede pasar.
func EmployeeRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("store_id", claims.StoreID)
		c.Set("role", string(claims.Role))

		c.Next()
	}
}

// AdminRequired valida el token JWT y exige rol de administrador
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c)
		if !ok {
			return
		}

		if claims.Role != jwt.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "se requiere rol de administrador", ""))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("store_id", claims.StoreID)
		c.Set("role", string(claims.Role))

		c.Next()
	}
}

func extractClaims(c *gin.Context) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "token no informado", ""))
		return nil, false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "token inválido", ""))
		return nil, false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := jwt.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "token inválido", err.Error()))
		return nil, false
	}

	return claims, true
}
