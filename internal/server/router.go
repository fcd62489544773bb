// Package server assembles the HTTP router from the services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "expensetracker/internal/docs" // swagger docs

	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

// Deps are the services behind the API.
type Deps struct {
	Users    services.UserServicer
	Expenses services.ExpenseServicer
	Reports  services.ReportServicer
	Audit    services.AuditServicer
}

// NewDeps wires the default services over db.
func NewDeps(db *gorm.DB) Deps {
	expenses := services.NewExpenseService(db)
	return Deps{
		Users:    services.NewUserService(db),
		Expenses: expenses,
		Reports:  services.NewReportService(expenses),
		Audit:    services.NewAuditService(db),
	}
}

// NewRouter builds the Gin engine with every route mounted.
func NewRouter(deps Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Audit)
	expenseHandler := handlers.NewExpenseHandler(deps.Expenses, deps.Reports, deps.Audit)
	reportHandler := handlers.NewReportHandler(deps.Reports)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/monthly", expenseHandler.GetMonthlyExpenses)
	expenses.GET("/categories", expenseHandler.GetCategories)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)

	return router
}
