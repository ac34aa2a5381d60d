package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Portfolio carries its own valuation totals. The totals are derived from the
// portfolio's holdings on every ledger mutation and are never written by any
// other code path.
type Portfolio struct {
	gorm.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Owner       string `gorm:"size:50;index" json:"owner"`

	TotalValue              decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_value"`
	TotalCost               decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_cost"`
	TotalGainLoss           decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_gain_loss"`
	TotalGainLossPercentage decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_gain_loss_percentage"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Holdings     []Holding     `json:"holdings,omitempty"`
	Transactions []Transaction `json:"-"`
}

// Holding is the derived position for one stock within one portfolio. Rows
// exist only while the net quantity is positive; they are rebuilt from the
// transaction ledger and must never be edited directly.
type Holding struct {
	gorm.Model
	PortfolioID uint `gorm:"uniqueIndex:idx_holdings_pair;not null" json:"portfolio_id"`
	StockID     uint `gorm:"uniqueIndex:idx_holdings_pair;not null" json:"stock_id"`

	Quantity           decimal.Decimal `gorm:"type:numeric(18,4)" json:"quantity"`
	AveragePrice       decimal.Decimal `gorm:"type:numeric(18,4)" json:"average_price"`
	CurrentPrice       decimal.Decimal `gorm:"type:numeric(18,4)" json:"current_price"`
	TotalValue         decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_value"`
	TotalCost          decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_cost"`
	GainLoss           decimal.Decimal `gorm:"type:numeric(18,4)" json:"gain_loss"`
	GainLossPercentage decimal.Decimal `gorm:"type:numeric(18,4)" json:"gain_loss_percentage"`

	LastUpdated time.Time `json:"last_updated"`

	Stock *Stock `json:"stock,omitempty"`
}
