package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock-portfolio-api/models"
)

func newTestAPI(t *testing.T) (*API, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Portfolio{},
		&models.Stock{},
		&models.StockPrice{},
		&models.Transaction{},
		&models.Holding{},
	))

	api := New(db, nil)

	router := gin.New()
	router.POST("/signup", api.Signup)
	router.POST("/transactions", api.CreateTransaction)
	router.GET("/transactions/:id", api.GetTransaction)
	router.PUT("/transactions/:id", api.UpdateTransaction)
	router.DELETE("/transactions/:id", api.DeleteTransaction)
	router.GET("/transactions/date-range", api.GetTransactionsByDateRange)
	router.POST("/portfolios", api.CreatePortfolio)
	router.GET("/portfolios/:id", api.GetPortfolio)
	router.GET("/holdings/:portfolioId/:stockId", api.GetHolding)
	router.POST("/stocks", api.CreateStock)
	router.GET("/stocks/search", api.SearchStocks)

	return api, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedRefs(t *testing.T, api *API) (portfolioID, stockID uint) {
	t.Helper()
	p := models.Portfolio{Name: "Growth", Owner: "tester", IsActive: true}
	require.NoError(t, api.DB.Create(&p).Error)
	st := models.Stock{
		Symbol:       "AAPL",
		CompanyName:  "Apple Inc.",
		Currency:     "USD",
		CurrentPrice: decimal.NewNullDecimal(decimal.RequireFromString("180.00")),
		IsActive:     true,
	}
	require.NoError(t, api.DB.Create(&st).Error)
	return p.ID, st.ID
}

func TestCreateTransactionAndReadHolding(t *testing.T) {
	api, router := newTestAPI(t)
	portfolioID, stockID := seedRefs(t, api)

	w := doJSON(t, router, http.MethodPost, "/transactions", gin.H{
		"portfolio_id": portfolioID,
		"stock_id":     stockID,
		"type":         "Buy",
		"quantity":     "100",
		"price":        "170.00",
		"commission":   "9.99",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, decimal.RequireFromString("17009.99").Equal(created.NetAmount))

	w = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/holdings/%d/%d", portfolioID, stockID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var h models.Holding
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.True(t, decimal.RequireFromString("170.0999").Equal(h.AveragePrice))
	assert.True(t, decimal.RequireFromString("100").Equal(h.Quantity))
}

func TestCreateTransactionRejectsOversell(t *testing.T) {
	api, router := newTestAPI(t)
	portfolioID, stockID := seedRefs(t, api)

	w := doJSON(t, router, http.MethodPost, "/transactions", gin.H{
		"portfolio_id": portfolioID,
		"stock_id":     stockID,
		"type":         "sell",
		"quantity":     "10",
		"price":        "170.00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "current")
	assert.Contains(t, body, "requested")
}

func TestCreateTransactionUnknownReferences(t *testing.T) {
	_, router := newTestAPI(t)

	w := doJSON(t, router, http.MethodPost, "/transactions", gin.H{
		"portfolio_id": 42,
		"stock_id":     7,
		"type":         "buy",
		"quantity":     "1",
		"price":        "10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestDeleteTransactionUpdatesHolding(t *testing.T) {
	api, router := newTestAPI(t)
	portfolioID, stockID := seedRefs(t, api)

	w := doJSON(t, router, http.MethodPost, "/transactions", gin.H{
		"portfolio_id": portfolioID,
		"stock_id":     stockID,
		"type":         "buy",
		"quantity":     "10",
		"price":        "100",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/transactions/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/holdings/%d/%d", portfolioID, stockID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Retiring twice reports not found.
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/transactions/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPortfolioIncludesTotals(t *testing.T) {
	api, router := newTestAPI(t)
	portfolioID, stockID := seedRefs(t, api)

	w := doJSON(t, router, http.MethodPost, "/transactions", gin.H{
		"portfolio_id": portfolioID,
		"stock_id":     stockID,
		"type":         "buy",
		"quantity":     "10",
		"price":        "170.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/portfolios/%d", portfolioID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Portfolio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.True(t, decimal.RequireFromString("1800").Equal(p.TotalValue), "got %s", p.TotalValue)
	assert.True(t, decimal.RequireFromString("1700").Equal(p.TotalCost), "got %s", p.TotalCost)
	require.Len(t, p.Holdings, 1)
}

func TestCreateStockRejectsDuplicateSymbol(t *testing.T) {
	_, router := newTestAPI(t)

	body := gin.H{"symbol": "msft", "company_name": "Microsoft"}
	w := doJSON(t, router, http.MethodPost, "/stocks", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var st models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "MSFT", st.Symbol)

	w = doJSON(t, router, http.MethodPost, "/stocks", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDateRangeValidation(t *testing.T) {
	_, router := newTestAPI(t)

	w := doJSON(t, router, http.MethodGet, "/transactions/date-range?start=nope&end=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/transactions/date-range?start=2026-02-01&end=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/transactions/date-range?start=2026-01-01&end=2026-02-01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupValidatesAndHashes(t *testing.T) {
	api, router := newTestAPI(t)

	w := doJSON(t, router, http.MethodPost, "/signup", gin.H{"email": "not-an-email", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/signup", gin.H{"email": "a@b.com", "password": "longenough"})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, api.DB.Where("email = ?", "a@b.com").First(&user).Error)
	assert.NotEqual(t, "longenough", user.Password)

	w = doJSON(t, router, http.MethodPost, "/signup", gin.H{"email": "a@b.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
