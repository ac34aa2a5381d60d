package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock-portfolio-api/config"
	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

const cacheExpiration = 5 * time.Minute

type AlphaVantageResponse struct {
	GlobalQuote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
	TimeSeriesDaily map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// GetStockPrice serves the latest quote for a symbol: Redis cache first,
// then Alpha Vantage. A fresh quote is persisted to price history, written
// onto the stock row, and every holding of that stock is revalued.
func (a *API) GetStockPrice(c *gin.Context) {
	symbol := c.Param("symbol")

	cached, err := a.Rdb.Get(config.Ctx, fmt.Sprintf("stock:%s:price", symbol)).Result()
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": cached})
		return
	}

	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	url := fmt.Sprintf("https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", symbol, apiKey)

	resp, err := http.Get(url)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch stock data"})
		return
	}
	defer resp.Body.Close()

	var result AlphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stock data"})
		return
	}
	if result.GlobalQuote.Price == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
		return
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stock data"})
		return
	}

	if err := a.Rdb.Set(config.Ctx, fmt.Sprintf("stock:%s:price", symbol), price.String(), cacheExpiration).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cache price"})
		return
	}

	now := time.Now().UTC()
	if err := store.NewPrices(a.DB).Create(&models.StockPrice{
		Symbol:    symbol,
		Price:     price,
		Timestamp: now,
	}); err != nil {
		writeError(c, err)
		return
	}

	// Propagate to the catalog and revalue open positions.
	stocks := store.NewStocks(a.DB)
	if st, err := stocks.BySymbol(symbol); err == nil {
		st.CurrentPrice = decimal.NewNullDecimal(price)
		st.LastUpdated = &now
		if err := stocks.Save(st); err != nil {
			writeError(c, err)
			return
		}
		if err := a.Ledger.RevalueStock(st.ID); err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": price})
}

// GetHistoricalData serves the daily close series for a symbol, cached in
// Redis for a day and batch-inserted into price history on first fetch.
func (a *API) GetHistoricalData(c *gin.Context) {
	symbol := c.Param("symbol")

	cached, err := a.Rdb.Get(config.Ctx, fmt.Sprintf("stock:%s:history", symbol)).Result()
	if err == nil {
		var history []models.StockPrice
		if err := json.Unmarshal([]byte(cached), &history); err == nil {
			c.JSON(http.StatusOK, history)
			return
		}
	}

	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	url := fmt.Sprintf("https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s", symbol, apiKey)

	resp, err := http.Get(url)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch historical data"})
		return
	}
	defer resp.Body.Close()

	var result AlphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse historical data"})
		return
	}
	if len(result.TimeSeriesDaily) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Historical data not found"})
		return
	}

	var history []models.StockPrice
	for date, data := range result.TimeSeriesDaily {
		closePrice, err := decimal.NewFromString(data.Close)
		if err != nil {
			continue
		}
		timestamp, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		history = append(history, models.StockPrice{
			Symbol:    symbol,
			Price:     closePrice,
			Timestamp: timestamp,
		})
	}

	if err := store.NewPrices(a.DB).CreateInBatches(history, 100); err != nil {
		writeError(c, err)
		return
	}

	if data, err := json.Marshal(history); err == nil {
		a.Rdb.Set(config.Ctx, fmt.Sprintf("stock:%s:history", symbol), data, 24*time.Hour)
	}

	c.JSON(http.StatusOK, history)
}
