package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/invoice"
	"storefront/internal/middleware"
	"storefront/internal/payments"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsurePaymentIndexes(db); err != nil {
		// The payments service depends on this index for the one-pending-
		// invoice-per-order guarantee; refuse to start without it.
		log.Fatalf("payment index error: %v", err)
	}

	invoiceClient := invoice.NewClient(
		config.AppEnv.ProviderBaseURL,
		config.AppEnv.CheckoutBaseURL,
		config.AppEnv.ProviderAPIKey,
		config.AppEnv.ProviderTimeout,
	)

	paymentService := payments.NewService(
		payments.NewMongoRepository(db),
		invoiceClient,
		payments.Config{
			Currency:            config.AppEnv.StoreCurrency,
			SuccessRedirectURL:  config.AppEnv.SuccessRedirectURL,
			AllowStatusOverride: config.AppEnv.AllowStatusOverride,
		},
	)

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/categories", handlers.GetCategories(db))

	r.POST("/payments/webhook", handlers.PaymentWebhook(paymentService, config.AppEnv.CallbackToken))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/orders", handlers.CreateOrder(db))
		user.GET("/orders", handlers.GetMyOrders(db))
		user.GET("/orders/:id", handlers.GetOrder(db))

		user.POST("/payments", handlers.CreatePayment(db, paymentService))
		user.GET("/payments/:id", handlers.GetPayment(paymentService))

		user.GET("/user/addresses", handlers.GetUserAddresses(db))
		user.POST("/user/addresses", handlers.CreateUserAddress(db))
		user.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(paymentService))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
