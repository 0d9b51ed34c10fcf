package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAdminToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(token string) *gin.Engine {
		router := gin.New()
		router.Use(AdminToken(token))
		router.PUT("/admin", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	do := func(router *gin.Engine, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/admin", nil)
		if header != "" {
			req.Header.Set(AdminTokenHeader, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	router := newRouter("s3cret-token")

	t.Run("accepts matching token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(router, "s3cret-token").Code)
	})

	t.Run("rejects missing or wrong token", func(t *testing.T) {
		w := do(router, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")

		assert.Equal(t, http.StatusForbidden, do(router, "s3cret-tokem").Code)
		assert.Equal(t, http.StatusForbidden, do(router, "s3cret").Code)
	})

	t.Run("empty configured token closes the route", func(t *testing.T) {
		closed := newRouter("")
		assert.Equal(t, http.StatusForbidden, do(closed, "").Code)
		assert.Equal(t, http.StatusForbidden, do(closed, "anything").Code)
	})
}
