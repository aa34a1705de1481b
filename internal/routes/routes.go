package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/narra/internal/config"
	"github.com/example/narra/internal/handlers"
	"github.com/example/narra/internal/middleware"
	"github.com/example/narra/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	orderService := services.NewOrderService(db, cfg)
	paymentService := services.NewPaymentService(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService, telegramService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, telegramService)
	profileHandler := handlers.NewProfileHandler(db)
	healthHandler := handlers.NewHealthHandler(db)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Health)
	api.Get("/test", healthHandler.Test)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes; browsing is public, mutation is admin only
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	requireAuth := middleware.AuthMiddleware(cfg)
	requireAdmin := middleware.RequireAdmin(db)

	products.Post("/", requireAuth, requireAdmin, productHandler.CreateProduct)
	products.Put("/:id", requireAuth, requireAdmin, productHandler.UpdateProduct)
	products.Delete("/:id", requireAuth, requireAdmin, productHandler.DeleteProduct)

	// Order routes; the owner-scoped path must be registered before /:id
	orders := api.Group("/orders", requireAuth)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/user/:userId", orderHandler.ListUserOrders)
	orders.Get("/", requireAdmin, orderHandler.ListAllOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/location", requireAdmin, orderHandler.UpdateLocation)
	orders.Put("/:id", requireAdmin, orderHandler.UpdateOrder)

	// Payment ledger routes
	payments := api.Group("/payments", requireAuth)
	payments.Post("/down-payment", paymentHandler.RecordDownPayment)
	payments.Post("/remaining-balance", paymentHandler.RecordRemainingBalance)
	payments.Get("/user/:userId", paymentHandler.ListUserPayments)

	// Profile routes
	protected := api.Group("", requireAuth)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
}
