package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"stock-portfolio-api/config"
	"stock-portfolio-api/handlers"
	"stock-portfolio-api/middleware"
	"stock-portfolio-api/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	config.InitDB()
	config.InitRedis()

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Portfolio{},
		&models.Stock{},
		&models.StockPrice{},
		&models.Transaction{},
		&models.Holding{},
	); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	api := handlers.New(config.DB, config.Rdb)

	router := gin.Default()

	// Public routes
	router.POST("/signup", api.Signup)
	router.POST("/login", api.Login)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth())
	{
		auth.POST("/transactions", api.CreateTransaction)
		auth.GET("/transactions", api.GetTransactions)
		auth.GET("/transactions/:id", api.GetTransaction)
		auth.PUT("/transactions/:id", api.UpdateTransaction)
		auth.DELETE("/transactions/:id", api.DeleteTransaction)
		auth.GET("/transactions/portfolio/:portfolioId", api.GetTransactionsByPortfolio)
		auth.GET("/transactions/stock/:stockId", api.GetTransactionsByStock)
		auth.GET("/transactions/portfolio/:portfolioId/stock/:stockId", api.GetTransactionsByPair)
		auth.GET("/transactions/quantity/:portfolioId/:stockId", api.GetCurrentQuantity)
		auth.GET("/transactions/date-range", api.GetTransactionsByDateRange)

		auth.POST("/portfolios", api.CreatePortfolio)
		auth.GET("/portfolios", api.GetPortfolios)
		auth.GET("/portfolios/:id", api.GetPortfolio)
		auth.PUT("/portfolios/:id", api.UpdatePortfolio)
		auth.DELETE("/portfolios/:id", api.DeletePortfolio)
		auth.GET("/portfolios/:id/holdings", api.GetPortfolioHoldings)
		auth.GET("/holdings/:portfolioId/:stockId", api.GetHolding)

		auth.POST("/stocks", api.CreateStock)
		auth.GET("/stocks", api.GetStocks)
		auth.GET("/stocks/:id", api.GetStock)
		auth.PUT("/stocks/:id", api.UpdateStock)
		auth.DELETE("/stocks/:id", api.DeleteStock)
		auth.GET("/stocks/symbol/:symbol", api.GetStockBySymbol)
		auth.GET("/stocks/search", api.SearchStocks)

		auth.GET("/prices/:symbol", api.GetStockPrice)
		auth.GET("/history/:symbol", api.GetHistoricalData)
	}

	router.Run(config.ListenAddr())
}
