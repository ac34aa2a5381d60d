package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock is the instrument catalog entry. CurrentPrice is null until the first
// quote arrives; holdings value a never-priced stock at zero.
type Stock struct {
	gorm.Model
	Symbol      string `gorm:"size:10;uniqueIndex;not null" json:"symbol"`
	CompanyName string `gorm:"size:100;not null" json:"company_name"`
	Sector      string `gorm:"size:50" json:"sector"`
	Industry    string `gorm:"size:50" json:"industry"`
	Exchange    string `gorm:"size:10" json:"exchange"`
	Currency    string `gorm:"size:10;default:USD" json:"currency"`

	CurrentPrice decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"current_price"`
	LastUpdated  *time.Time          `json:"last_updated"`
	IsActive     bool                `gorm:"default:true" json:"is_active"`
}

// StockPrice is one point of quote history for a symbol.
type StockPrice struct {
	gorm.Model
	Symbol    string          `gorm:"index" json:"symbol"`
	Price     decimal.Decimal `gorm:"type:numeric(18,4)" json:"price"`
	Timestamp time.Time       `gorm:"index" json:"timestamp"`
}

type User struct {
	gorm.Model
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
}
