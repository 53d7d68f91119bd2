package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promptdeck/promptdeck-backend/internal/common"
)

// RequireRole checks that the authenticated user holds one of the allowed
// roles. Runs after JWTAuth; a missing role means the request never passed
// the auth gate and is rejected.
func RequireRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		if _, ok := allowedSet[role]; !ok {
			common.ErrorResponse(c, http.StatusForbidden, "Insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
