package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers groups the storefront HTTP handlers
type Handlers struct {
	Cart     *handler.CartHandler
	Shipping *handler.ShippingHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Health   *handler.HealthHandler
}

// RouteConfig carries the per-route guards
type RouteConfig struct {
	// CheckoutLimiter throttles order placement; nil disables it
	CheckoutLimiter *middleware.RateLimiter
	AdminToken      string
}

// StorefrontGroups builds the domain groups of the storefront API
func StorefrontGroups(h Handlers, cfg RouteConfig) []RouteRegistrar {
	cart := NewDomainGroup("cart", "/cart").
		Use(middleware.RequireSession()).
		GET("", h.Cart.Get).
		DELETE("", h.Cart.Clear).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:product_id", h.Cart.UpdateItem).
		DELETE("/items/:product_id", h.Cart.RemoveItem)

	shipping := NewDomainGroup("shipping", "/shipping").
		POST("/estimate", h.Shipping.Estimate)
	shipping.Group("shipping-session", "").
		Use(middleware.RequireSession()).
		POST("/quote", h.Shipping.QuoteCart).
		GET("/quote", h.Shipping.CurrentQuote).
		PUT("/selection", h.Shipping.SelectOption).
		DELETE("/selection", h.Shipping.ClearSelection)

	checkout := NewDomainGroup("checkout", "/checkout").
		Use(middleware.RequireSession(), middleware.RequireCustomer())
	if cfg.CheckoutLimiter != nil {
		checkout.Use(middleware.RateLimit(cfg.CheckoutLimiter))
	}
	checkout.POST("", h.Checkout.Checkout)

	orders := NewDomainGroup("orders", "/orders").
		Use(middleware.RequireCustomer()).
		GET("", h.Order.List).
		GET("/:id", h.Order.GetByID).
		GET("/number/:order_number", h.Order.GetByNumber)

	admin := NewDomainGroup("admin", "/admin").
		Use(middleware.AdminToken(cfg.AdminToken)).
		PUT("/orders/:id/status", h.Order.SetStatus)

	return []RouteRegistrar{cart, shipping, checkout, orders, admin}
}

// Mount registers the storefront API on engine and returns the router
// holding it. The health probe lives outside the versioned prefix.
func Mount(engine *gin.Engine, h Handlers, cfg RouteConfig, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)
	r.Register(StorefrontGroups(h, cfg)...)
	r.Setup()

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	return r
}
