// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/discount"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/payment"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"github.com/your-org/grocery-backend/internal/domain/shipping"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"github.com/your-org/grocery-backend/internal/infrastructure/cache"
	"github.com/your-org/grocery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/grocery-backend/internal/interfaces/http/middleware"
	"github.com/your-org/grocery-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires all services and registers every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) error {
	appCache := cache.New(cache.NewRedisBackend(redisClient), log)

	userService := user.NewService(db, cfg)
	addressService := user.NewAddressService(db, cfg)
	productService := product.NewService(db, appCache, cfg, log)
	discountService := discount.NewService(db, appCache, cfg, log)
	cartService := cart.NewService(db, log)
	inventoryService := inventory.NewService(db, log)

	rateProvider := shipping.NewHTTPRateProvider(&cfg.External.ShippingRates)
	resolver := shipping.NewResolver(db, rateProvider, appCache, cfg, log)
	gateway := payment.NewHTTPGateway(&cfg.External.PaymentGateway)

	orderService := order.NewService(order.NewStore(db), resolver, discountService, gateway,
		cartService, addressService, userService, cfg, log)

	invoiceGenerator, err := pdf.NewInvoiceGenerator(cfg.App.Name)
	if err != nil {
		return err
	}

	authHandler := handlers.NewAuthHandler(userService, addressService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(orderService, resolver)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(orderService, log)
	discountHandler := handlers.NewDiscountHandler(discountService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	invoiceHandler := handlers.NewInvoiceHandler(orderService, userService, addressService, invoiceGenerator)

	setupAuthRoutes(rg, authHandler, cfg)
	setupCatalogRoutes(rg, productHandler)
	setupCartRoutes(rg, cartHandler, cfg)
	setupCheckoutRoutes(rg, checkoutHandler, cfg)
	setupOrderRoutes(rg, orderHandler, invoiceHandler, cfg)
	setupPaymentRoutes(rg, paymentHandler)
	setupAdminRoutes(rg, productHandler, orderHandler, discountHandler, inventoryHandler, cfg)
	return nil
}

func setupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.Profile)
		}
	}

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/addresses", h.ListAddresses)
		users.POST("/addresses", h.CreateAddress)
		users.PUT("/addresses/:id", h.UpdateAddress)
		users.DELETE("/addresses/:id", h.DeleteAddress)
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
	}
	rg.GET("/categories", h.GetCategories)
}

func setupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, cfg *config.Config) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg))
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.Clear)
		cartGroup.POST("/items", h.AddItem)
		cartGroup.PUT("/items/:id", h.UpdateItem)
		cartGroup.DELETE("/items/:id", h.RemoveItem)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, h *handlers.CheckoutHandler, cfg *config.Config) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("/preview", h.Preview)
		checkout.GET("/shipping-methods", h.GetShippingMethods)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, invoices *handlers.InvoiceHandler, cfg *config.Config) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.GetOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/payment-proof", h.SubmitProof)
		orders.POST("/:id/retry-payment", h.RetryPayment)
		orders.GET("/:id/invoice", invoices.Download)
	}
}

func setupPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler) {
	// gateway callbacks carry no user token
	rg.POST("/payments/callback", h.Callback)
}

func setupAdminRoutes(rg *gin.RouterGroup, products *handlers.ProductHandler, orders *handlers.OrderHandler,
	discounts *handlers.DiscountHandler, stocks *handlers.InventoryHandler, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", products.CreateProduct)
		admin.PUT("/products/:id", products.UpdateProduct)
		admin.DELETE("/products/:id", products.DeleteProduct)
		admin.POST("/categories", products.CreateCategory)

		admin.GET("/orders", orders.ListOrders)
		admin.GET("/orders/:id", orders.GetOrderAdmin)
		admin.POST("/orders/:id/confirm", orders.ConfirmOrder)
		admin.POST("/orders/:id/reject", orders.RejectOrder)

		admin.GET("/discounts", discounts.ListDiscounts)
		admin.POST("/discounts", discounts.CreateDiscount)
		admin.DELETE("/discounts/:id", discounts.DeleteDiscount)
		admin.GET("/vouchers", discounts.ListVouchers)
		admin.POST("/vouchers", discounts.CreateVoucher)
		admin.DELETE("/vouchers/:id", discounts.DeleteVoucher)

		admin.GET("/inventory/:product_id", stocks.GetStock)
		admin.GET("/inventory/:product_id/movements", stocks.ListMovements)
		admin.POST("/inventory/adjust", stocks.AdjustStock)
	}
}
