package router

import (
	"net/http"

	"github.com/julianLagraba/fin-pro/internal/config"
	"github.com/julianLagraba/fin-pro/internal/handler"
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter wires middleware and every API route onto a new gin engine.
func SetupRouter(cfg *config.Config, svc *ledger.Service, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		if err := svc.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ====== API ======
	api := r.Group("/api")

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(svc, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, svc))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile/password", handler.ChangePassword(svc))

	accountHandler := handler.NewAccountHandler(svc)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.DELETE("/accounts/:id", accountHandler.DeleteAccount)
	protected.GET("/accounts/:id/reconcile", accountHandler.Reconcile)

	categoryHandler := handler.NewCategoryHandler(svc)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	transactionHandler := handler.NewTransactionHandler(svc)
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions", transactionHandler.ListTransactions)

	exportHandler := handler.NewExportHandler(svc)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	subscriptionHandler := handler.NewSubscriptionHandler(svc)
	protected.POST("/subscriptions", subscriptionHandler.CreateSubscription)
	protected.GET("/subscriptions", subscriptionHandler.ListSubscriptions)

	cardHandler := handler.NewCardHandler(svc)
	protected.POST("/credit-cards", cardHandler.CreateCard)
	protected.GET("/credit-cards", cardHandler.ListCards)
	protected.POST("/credit-cards/:id/purchases", cardHandler.CreatePurchase)
	protected.GET("/credit-cards/:id/purchases", cardHandler.ListPurchases)
	protected.DELETE("/card-purchases/:id", cardHandler.DeletePurchase)

	clientHandler := handler.NewClientHandler(svc)
	protected.POST("/clients", clientHandler.CreateClient)
	protected.GET("/clients", clientHandler.ListClients)
	protected.POST("/clients/:id/jobs", clientHandler.CreateJob)
	protected.GET("/clients/:id/jobs", clientHandler.ListJobs)
	protected.POST("/jobs/:id/pay", clientHandler.PayJob)

	goalHandler := handler.NewGoalHandler(svc)
	protected.POST("/goals", goalHandler.CreateGoal)
	protected.GET("/goals", goalHandler.ListGoals)
	protected.DELETE("/goals/:id", goalHandler.DeleteGoal)
	protected.POST("/goals/:id/deposit", goalHandler.Deposit)

	return r
}
