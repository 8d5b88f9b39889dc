package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-stockwatch/internal/handler"
	"go-stockwatch/internal/middleware"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
	"go-stockwatch/internal/service"
	"go-stockwatch/internal/ws"
	"go-stockwatch/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on system env")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.User{}, &model.AuditLog{})

	// 3. Repositories
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)

	// 4. Seed default accounts (idempotent)
	if err := service.SeedDefaultUsers(db, userRepo, auditRepo); err != nil {
		logrus.WithError(err).Fatal("failed to seed default accounts")
	}

	// 5. Setup WebSocket Hub for stock updates / low-stock alerts
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Services and Handlers
	catalogService := service.NewCatalogService(productRepo, auditRepo, db)
	ledgerService := service.NewLedgerService(productRepo, txRepo, auditRepo, db, wsHub)
	authService := service.NewAuthService(userRepo, auditRepo, db)
	auditService := service.NewAuditService(auditRepo)

	productHandler := handler.NewProductHandler(catalogService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	authHandler := handler.NewAuthHandler(authService)
	auditHandler := handler.NewAuditHandler(auditService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "StockWatch v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/logout", authHandler.Logout)

	// Product Routes (reads for everyone, mutations admin only per policy)
	protected.Get("/products", middleware.RequireAction(model.ActionProductView), productHandler.GetProducts)
	protected.Get("/products/low-stock", middleware.RequireAction(model.ActionProductView), productHandler.GetLowStock)
	protected.Get("/products/:id", middleware.RequireAction(model.ActionProductView), productHandler.GetProduct)
	protected.Post("/products", middleware.RequireAction(model.ActionProductCreate), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireAction(model.ActionProductUpdate), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireAction(model.ActionProductDelete), productHandler.DeleteProduct)

	// Stock Ledger Routes
	protected.Get("/products/:id/transactions", middleware.RequireAction(model.ActionLedgerView), ledgerHandler.GetProductHistory)
	protected.Get("/transactions", middleware.RequireAction(model.ActionLedgerView), ledgerHandler.GetTransactions)
	protected.Post("/transactions", middleware.RequireAction(model.ActionLedgerPost), ledgerHandler.CreateTransaction)

	// Audit Trail (admin only)
	protected.Get("/audit-logs", middleware.RequireAction(model.ActionAuditView), auditHandler.GetRecentLogs)

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequireAction(model.ActionDashboardView), productHandler.GetStats)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logrus.WithError(err).Panic("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exited")
}
