package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	cart := NewDomainGroup("cart", "/cart").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "cart") })
	orders := NewDomainGroup("orders", "/orders").
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

	r.Register(cart, orders).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/orders/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/cart", nil).Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

		g := NewDomainGroup("items", "/items").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			PATCH("/:id", ok).
			DELETE("/:id", ok).
			Handle(http.MethodOptions, "", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
			{http.MethodOptions, "/api/v1/items"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("shipping", "/shipping").
			Use(func(c *gin.Context) {
				c.Header("X-Outer", "applied")
				c.Next()
			}).
			GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.Group("guarded", "").
			Use(func(c *gin.Context) {
				c.AbortWithStatus(http.StatusForbidden)
			}).
			GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/shipping/public", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Outer"))

		w = serve(engine, http.MethodGet, "/api/v1/shipping/private", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Outer"))
	})

	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})
}

func testHandlers() Handlers {
	return Handlers{
		Cart:     handler.NewCartHandler(nil),
		Shipping: handler.NewShippingHandler(nil),
		Checkout: handler.NewCheckoutHandler(nil),
		Order:    handler.NewOrderHandler(nil),
		Health:   handler.NewHealthHandler("test"),
	}
}

func TestStorefrontRoutes(t *testing.T) {
	engine := gin.New()
	r := Mount(engine, testHandlers(), RouteConfig{AdminToken: "admin"})

	got := make([]string, 0)
	for _, route := range r.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}

	assert.ElementsMatch(t, []string{
		"GET /api/v1/cart",
		"DELETE /api/v1/cart",
		"POST /api/v1/cart/items",
		"PUT /api/v1/cart/items/:product_id",
		"DELETE /api/v1/cart/items/:product_id",
		"POST /api/v1/shipping/estimate",
		"POST /api/v1/shipping/quote",
		"GET /api/v1/shipping/quote",
		"PUT /api/v1/shipping/selection",
		"DELETE /api/v1/shipping/selection",
		"POST /api/v1/checkout",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"GET /api/v1/orders/number/:order_number",
		"PUT /api/v1/admin/orders/:id/status",
	}, got)

	mounted := make(map[string]bool)
	for _, info := range engine.Routes() {
		mounted[info.Method+" "+info.Path] = true
	}
	for _, route := range got {
		assert.True(t, mounted[route], route)
	}
	assert.True(t, mounted["GET /health"])
}

func TestStorefrontRoutes_Guards(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Session())
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	Mount(engine, testHandlers(), RouteConfig{AdminToken: "admin", CheckoutLimiter: limiter})

	customer := map[string]string{middleware.CustomerIDHeader: "6f1c1d5e-3b0a-4a51-9d8e-2a3f3c7d9b10"}

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"cart needs a session", http.MethodGet, "/api/v1/cart", nil, http.StatusBadRequest},
		{"quote needs a session", http.MethodGet, "/api/v1/shipping/quote", nil, http.StatusBadRequest},
		{"checkout needs a session", http.MethodPost, "/api/v1/checkout", customer, http.StatusBadRequest},
		{"checkout needs a customer", http.MethodPost, "/api/v1/checkout", map[string]string{middleware.SessionIDHeader: "s1"}, http.StatusUnauthorized},
		{"orders need a customer", http.MethodGet, "/api/v1/orders", nil, http.StatusUnauthorized},
		{"admin needs the token", http.MethodPut, "/api/v1/admin/orders/1/status", nil, http.StatusForbidden},
		{"admin rejects a wrong token", http.MethodPut, "/api/v1/admin/orders/1/status", map[string]string{middleware.AdminTokenHeader: "nope"}, http.StatusForbidden},
		{"health is public", http.MethodGet, "/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(engine, tt.method, tt.path, tt.headers).Code)
		})
	}
}

func TestStorefrontRoutes_CheckoutRateLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Session())
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	require.True(t, limiter.Allow("session:s1"))
	Mount(engine, testHandlers(), RouteConfig{CheckoutLimiter: limiter})

	w := serve(engine, http.MethodPost, "/api/v1/checkout", map[string]string{
		middleware.SessionIDHeader:  "s1",
		middleware.CustomerIDHeader: "6f1c1d5e-3b0a-4a51-9d8e-2a3f3c7d9b10",
	})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}
