package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// ParseTransactionType accepts "buy"/"sell" in any casing.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return TransactionBuy, nil
	case "sell":
		return TransactionSell, nil
	}
	return "", &InvalidInputError{Field: "type", Reason: "must be 'buy' or 'sell'"}
}

// Transaction is one ledger entry. Rows are never physically removed; gorm's
// DeletedAt scope keeps retired rows out of every query and aggregate.
type Transaction struct {
	gorm.Model
	PortfolioID uint            `gorm:"index;not null" json:"portfolio_id"`
	StockID     uint            `gorm:"index;not null" json:"stock_id"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`

	Quantity decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(18,4)" json:"total_amount"`
	Commission  decimal.Decimal `gorm:"type:numeric(18,4)" json:"commission"`
	Fees        decimal.Decimal `gorm:"type:numeric(18,4)" json:"fees"`
	NetAmount   decimal.Decimal `gorm:"type:numeric(18,4)" json:"net_amount"`

	TransactionDate time.Time `gorm:"index" json:"transaction_date"`
	Notes           string    `gorm:"size:500" json:"notes"`

	Portfolio *Portfolio `json:"-"`
	Stock     *Stock     `json:"stock,omitempty"`
}

// RecalculateAmounts rederives the stored gross and net amounts from
// quantity, price, commission and fees.
func (t *Transaction) RecalculateAmounts() {
	t.TotalAmount = t.Quantity.Mul(t.Price)
	t.NetAmount = t.TotalAmount.Add(t.Commission).Add(t.Fees)
}

// SignedQuantity is the transaction's contribution to the pair's net
// quantity: positive for buys, negative for sells.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TransactionSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
