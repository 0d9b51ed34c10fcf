package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// AdminTokenHeader carries the back-office shared secret
const AdminTokenHeader = "X-Admin-Token"

// AdminToken guards back-office routes with a shared secret.
// An empty token closes the routes entirely.
func AdminToken(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(AdminTokenHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin token is missing or invalid")
			return
		}
		c.Next()
	}
}
