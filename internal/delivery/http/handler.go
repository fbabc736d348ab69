package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/service"
)

// Handler handles HTTP requests for the application.
type Handler struct {
	auth          *service.AuthService
	delivery      *service.DeliveryService
	catalog       *service.CatalogService
	cart          *service.CartService
	checkout      *service.CheckoutService
	orders        *service.OrderService
	admin         *service.AdminService
	notifications *service.NotificationService
	reviews       *service.ReviewService
	wishlist      *service.WishlistService
}

// Services groups the use cases the handler exposes.
type Services struct {
	Auth          *service.AuthService
	Delivery      *service.DeliveryService
	Catalog       *service.CatalogService
	Cart          *service.CartService
	Checkout      *service.CheckoutService
	Orders        *service.OrderService
	Admin         *service.AdminService
	Notifications *service.NotificationService
	Reviews       *service.ReviewService
	Wishlist      *service.WishlistService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		auth:          s.Auth,
		delivery:      s.Delivery,
		catalog:       s.Catalog,
		cart:          s.Cart,
		checkout:      s.Checkout,
		orders:        s.Orders,
		admin:         s.Admin,
		notifications: s.Notifications,
		reviews:       s.Reviews,
		wishlist:      s.Wishlist,
	}
}

// NewRouter builds the gin engine with CORS and all routes.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowOrigins
	}
	r.Use(cors.New(corsConfig))

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(h.resolveSession())

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", h.handleSignUp)
	authGroup.POST("/signin", h.handleSignIn)
	authGroup.POST("/signout", h.requireSession(), h.handleSignOut)
	authGroup.GET("/me", h.requireSession(), h.handleMe)
	authGroup.PUT("/profile", h.requireSession(), h.handleUpdateProfile)

	api.GET("/delivery/check", h.handleCheckPincode)

	api.GET("/products", h.handleListProducts)
	api.GET("/products/search", h.handleSuggestProducts)
	api.GET("/products/:id", h.handleGetProduct)
	api.GET("/products/:id/reviews", h.handleListReviews)
	api.PUT("/products/:id/reviews", h.requireSession(), h.handleSubmitReview)
	api.DELETE("/products/:id/reviews", h.requireSession(), h.handleDeleteReview)

	user := api.Group("", h.requireSession())

	user.GET("/cart", h.handleGetCart)
	user.POST("/cart/items", h.handleAddToCart)
	user.PATCH("/cart/items/:id", h.handleUpdateCartItem)
	user.DELETE("/cart/items/:id", h.handleRemoveCartItem)
	user.DELETE("/cart", h.handleClearCart)

	user.GET("/checkout", h.handleGetCheckout)
	user.GET("/checkout/payment-methods", h.handlePaymentMethods)
	user.PUT("/checkout/address", h.handleUpdateAddress)
	user.PUT("/checkout/payment", h.handleSelectPayment)
	user.POST("/checkout/coupon", h.handleApplyCoupon)
	user.DELETE("/checkout/coupon", h.handleRemoveCoupon)
	user.POST("/checkout/continue", h.handleContinueCheckout)
	user.POST("/checkout/back", h.handleBackCheckout)
	user.POST("/checkout/place", h.handlePlaceOrder)

	user.GET("/orders", h.handleListMyOrders)
	user.GET("/orders/track/:number", h.handleTrackOrder)
	user.GET("/orders/:number/live", h.handleWatchOrder)

	user.GET("/wishlist", h.handleListWishlist)
	user.POST("/wishlist", h.handleAddToWishlist)
	user.DELETE("/wishlist/:productId", h.handleRemoveFromWishlist)

	admin := api.Group("/admin", h.requireAdmin())
	admin.GET("/overview", h.handleAdminOverview)
	admin.GET("/orders", h.handleAdminListOrders)
	admin.GET("/orders/export", h.handleExportOrders)
	admin.GET("/orders/:id", h.handleAdminGetOrder)
	admin.PATCH("/orders/:id/status", h.handleUpdateOrderStatus)
	admin.GET("/products", h.handleAdminListProducts)
	admin.GET("/products/export", h.handleExportProducts)
	admin.POST("/products", h.handleCreateProduct)
	admin.PUT("/products/:id", h.handleUpdateProduct)
	admin.PATCH("/products/:id/active", h.handleToggleProduct)
	admin.DELETE("/products/:id", h.handleDeleteProduct)
	admin.GET("/delivery-areas", h.handleListDeliveryAreas)
	admin.POST("/delivery-areas", h.handleCreateDeliveryArea)
	admin.PUT("/delivery-areas/:id", h.handleUpdateDeliveryArea)
	admin.PATCH("/delivery-areas/:id/active", h.handleToggleDeliveryArea)
	admin.DELETE("/delivery-areas/:id", h.handleDeleteDeliveryArea)
	admin.GET("/customers", h.handleListCustomers)
	admin.GET("/audit-logs", h.handleListAuditLogs)

	api.POST("/functions/send-order-status-email", h.requireAdmin(), h.handleSendStatusEmail)
}
