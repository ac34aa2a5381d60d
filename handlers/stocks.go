package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

type StockInput struct {
	Symbol       string           `json:"symbol" binding:"required,max=10"`
	CompanyName  string           `json:"company_name" binding:"required,max=100"`
	Sector       string           `json:"sector" binding:"max=50"`
	Industry     string           `json:"industry" binding:"max=50"`
	Exchange     string           `json:"exchange" binding:"max=10"`
	Currency     string           `json:"currency" binding:"max=10"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
}

type StockUpdateInput struct {
	CompanyName  *string          `json:"company_name" binding:"omitempty,max=100"`
	Sector       *string          `json:"sector" binding:"omitempty,max=50"`
	Industry     *string          `json:"industry" binding:"omitempty,max=50"`
	Exchange     *string          `json:"exchange" binding:"omitempty,max=10"`
	Currency     *string          `json:"currency" binding:"omitempty,max=10"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	IsActive     *bool            `json:"is_active"`
}

func (a *API) CreateStock(c *gin.Context) {
	var input StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToUpper(input.Symbol)
	stocks := store.NewStocks(a.DB)
	if _, err := stocks.BySymbol(symbol); err == nil {
		writeError(c, &models.DuplicateEntityError{Entity: "Stock", Identifier: symbol})
		return
	} else if err != models.ErrNotFound {
		writeError(c, err)
		return
	}

	st := models.Stock{
		Symbol:      symbol,
		CompanyName: input.CompanyName,
		Sector:      input.Sector,
		Industry:    input.Industry,
		Exchange:    input.Exchange,
		Currency:    input.Currency,
		IsActive:    true,
	}
	if st.Currency == "" {
		st.Currency = "USD"
	}
	if input.CurrentPrice != nil {
		now := time.Now().UTC()
		st.CurrentPrice = decimal.NewNullDecimal(*input.CurrentPrice)
		st.LastUpdated = &now
	}

	if err := stocks.Create(&st); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (a *API) GetStocks(c *gin.Context) {
	sts, err := store.NewStocks(a.DB).All()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sts)
}

func (a *API) GetStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := store.NewStocks(a.DB).Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (a *API) GetStockBySymbol(c *gin.Context) {
	st, err := store.NewStocks(a.DB).BySymbol(c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (a *API) SearchStocks(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	sts, err := store.NewStocks(a.DB).Search(term)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sts)
}

// UpdateStock applies catalog edits. A price change triggers revaluation of
// every holding referencing the stock.
func (a *API) UpdateStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input StockUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stocks := store.NewStocks(a.DB)
	st, err := stocks.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	if input.CompanyName != nil {
		st.CompanyName = *input.CompanyName
	}
	if input.Sector != nil {
		st.Sector = *input.Sector
	}
	if input.Industry != nil {
		st.Industry = *input.Industry
	}
	if input.Exchange != nil {
		st.Exchange = *input.Exchange
	}
	if input.Currency != nil {
		st.Currency = *input.Currency
	}
	if input.IsActive != nil {
		st.IsActive = *input.IsActive
	}

	priceChanged := false
	if input.CurrentPrice != nil {
		now := time.Now().UTC()
		st.CurrentPrice = decimal.NewNullDecimal(*input.CurrentPrice)
		st.LastUpdated = &now
		priceChanged = true
	}

	if err := stocks.Save(st); err != nil {
		writeError(c, err)
		return
	}

	if priceChanged {
		if err := a.Ledger.RevalueStock(st.ID); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, st)
}

func (a *API) DeleteStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	stocks := store.NewStocks(a.DB)
	st, err := stocks.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := stocks.Delete(st); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock deleted successfully"})
}
