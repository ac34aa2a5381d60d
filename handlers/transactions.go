package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock-portfolio-api/ledger"
	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

type TransactionInput struct {
	PortfolioID     uint             `json:"portfolio_id" binding:"required"`
	StockID         uint             `json:"stock_id" binding:"required"`
	Type            string           `json:"type" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Price           decimal.Decimal  `json:"price"`
	Commission      *decimal.Decimal `json:"commission"`
	Fees            *decimal.Decimal `json:"fees"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Notes           string           `json:"notes" binding:"max=500"`
}

type TransactionUpdateInput struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	Price           *decimal.Decimal `json:"price"`
	Commission      *decimal.Decimal `json:"commission"`
	Fees            *decimal.Decimal `json:"fees"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Notes           *string          `json:"notes" binding:"omitempty,max=500"`
}

// CreateTransaction records a buy or sell and returns the stored row.
func (a *API) CreateTransaction(c *gin.Context) {
	var input TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := models.ParseTransactionType(input.Type)
	if err != nil {
		writeError(c, err)
		return
	}

	in := ledger.RecordInput{
		PortfolioID: input.PortfolioID,
		StockID:     input.StockID,
		Type:        kind,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Date:        input.TransactionDate,
		Notes:       input.Notes,
	}
	if input.Commission != nil {
		in.Commission = *input.Commission
	}
	if input.Fees != nil {
		in.Fees = *input.Fees
	}

	t, err := a.Ledger.Record(in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTransactions lists the live ledger, optionally filtered by
// ?type=buy|sell.
func (a *API) GetTransactions(c *gin.Context) {
	s := store.NewTransactions(a.DB)

	if raw := c.Query("type"); raw != "" {
		kind, err := models.ParseTransactionType(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		txs, err := s.ByType(kind)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
		return
	}

	txs, err := s.All()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (a *API) GetTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := store.NewTransactions(a.DB).Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *API) UpdateTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input TransactionUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := a.Ledger.Amend(id, ledger.AmendInput{
		Quantity:   input.Quantity,
		Price:      input.Price,
		Commission: input.Commission,
		Fees:       input.Fees,
		Date:       input.TransactionDate,
		Notes:      input.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTransaction retires the row; it stays in the table but leaves every
// query and aggregate.
func (a *API) DeleteTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.Ledger.Retire(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (a *API) GetTransactionsByPortfolio(c *gin.Context) {
	portfolioID, ok := paramID(c, "portfolioId")
	if !ok {
		return
	}
	txs, err := store.NewTransactions(a.DB).ByPortfolio(portfolioID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (a *API) GetTransactionsByStock(c *gin.Context) {
	stockID, ok := paramID(c, "stockId")
	if !ok {
		return
	}
	txs, err := store.NewTransactions(a.DB).ByStock(stockID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (a *API) GetTransactionsByPair(c *gin.Context) {
	portfolioID, ok := paramID(c, "portfolioId")
	if !ok {
		return
	}
	stockID, ok := paramID(c, "stockId")
	if !ok {
		return
	}
	txs, err := store.NewTransactions(a.DB).ByPair(portfolioID, stockID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (a *API) GetCurrentQuantity(c *gin.Context) {
	portfolioID, ok := paramID(c, "portfolioId")
	if !ok {
		return
	}
	stockID, ok := paramID(c, "stockId")
	if !ok {
		return
	}
	qty, err := a.Ledger.NetQuantity(portfolioID, stockID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio_id": portfolioID, "stock_id": stockID, "quantity": qty})
}

func (a *API) GetTransactionsByDateRange(c *gin.Context) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date cannot be after end date"})
		return
	}

	txs, err := store.NewTransactions(a.DB).ByDateRange(start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// parseDate accepts RFC 3339 timestamps or bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
