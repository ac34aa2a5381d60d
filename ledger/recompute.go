package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

var hundred = decimal.NewFromInt(100)

// recompute rebuilds the pair's holding from the live ledger, then the
// owning portfolio's totals. Runs inside the caller's transaction.
func recompute(tx *gorm.DB, portfolioID, stockID uint) error {
	if err := recomputeHolding(tx, portfolioID, stockID); err != nil {
		return err
	}
	return recomputeRollup(tx, portfolioID)
}

// recomputeHolding is a full re-derivation: it reads every live transaction
// for the pair and replaces the holding row, or removes it when the position
// is closed. Average cost is the weighted average over all live buys; sells
// never revise it.
func recomputeHolding(tx *gorm.DB, portfolioID, stockID uint) error {
	txs, err := store.NewTransactions(tx).ByPair(portfolioID, stockID)
	if err != nil {
		return err
	}

	quantity := decimal.Zero
	buyQuantity := decimal.Zero
	buyNetAmount := decimal.Zero
	for i := range txs {
		quantity = quantity.Add(txs[i].SignedQuantity())
		if txs[i].Type == models.TransactionBuy {
			buyQuantity = buyQuantity.Add(txs[i].Quantity)
			buyNetAmount = buyNetAmount.Add(txs[i].NetAmount)
		}
	}

	holdings := store.NewHoldings(tx)
	if !quantity.IsPositive() {
		return holdings.Remove(portfolioID, stockID)
	}

	averagePrice := decimal.Zero
	if buyQuantity.IsPositive() {
		averagePrice = buyNetAmount.Div(buyQuantity).Round(4)
	}

	currentPrice := decimal.Zero
	stock, err := store.NewStocks(tx).Get(stockID)
	if err != nil {
		return err
	}
	if stock.CurrentPrice.Valid {
		currentPrice = stock.CurrentPrice.Decimal
	}

	totalValue := quantity.Mul(currentPrice).Round(4)
	totalCost := quantity.Mul(averagePrice).Round(4)
	gainLoss := totalValue.Sub(totalCost)
	gainLossPct := decimal.Zero
	if totalCost.IsPositive() {
		gainLossPct = gainLoss.Div(totalCost).Mul(hundred).Round(4)
	}

	h, err := holdings.Get(portfolioID, stockID)
	if err == models.ErrNotFound {
		h = &models.Holding{PortfolioID: portfolioID, StockID: stockID}
	} else if err != nil {
		return err
	}

	h.Quantity = quantity
	h.AveragePrice = averagePrice
	h.CurrentPrice = currentPrice
	h.TotalValue = totalValue
	h.TotalCost = totalCost
	h.GainLoss = gainLoss
	h.GainLossPercentage = gainLossPct
	h.LastUpdated = time.Now().UTC()

	return holdings.Save(h)
}

// recomputeRollup sums the portfolio's current holdings onto the portfolio
// row. It never reads the transaction ledger; holdings are its only input.
func recomputeRollup(tx *gorm.DB, portfolioID uint) error {
	hs, err := store.NewHoldings(tx).ByPortfolio(portfolioID)
	if err != nil {
		return err
	}

	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for i := range hs {
		totalValue = totalValue.Add(hs[i].TotalValue)
		totalCost = totalCost.Add(hs[i].TotalCost)
	}

	gainLoss := totalValue.Sub(totalCost)
	gainLossPct := decimal.Zero
	if totalCost.IsPositive() {
		gainLossPct = gainLoss.Div(totalCost).Mul(hundred).Round(4)
	}

	return store.NewPortfolios(tx).UpdateTotals(portfolioID, map[string]interface{}{
		"total_value":                totalValue,
		"total_cost":                 totalCost,
		"total_gain_loss":            gainLoss,
		"total_gain_loss_percentage": gainLossPct,
	})
}
