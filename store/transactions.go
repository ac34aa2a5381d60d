package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock-portfolio-api/models"
)

// Transactions reads and writes ledger rows. gorm's DeletedAt scope keeps
// retired rows out of every query here; CountAll uses Unscoped to see them.
type Transactions struct {
	db *gorm.DB
}

func NewTransactions(db *gorm.DB) *Transactions {
	return &Transactions{db: db}
}

// ledgerOrder keeps query results deterministic: newest first, ties broken
// by id ascending.
const ledgerOrder = "transaction_date DESC, id ASC"

func (s *Transactions) Create(t *models.Transaction) error {
	return s.db.Create(t).Error
}

func (s *Transactions) Save(t *models.Transaction) error {
	return s.db.Save(t).Error
}

// Get returns a live (non-retired) transaction by id.
func (s *Transactions) Get(id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Retire soft-deletes the row: it disappears from queries and aggregates but
// stays in the table.
func (s *Transactions) Retire(t *models.Transaction) error {
	return s.db.Delete(t).Error
}

func (s *Transactions) All() ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

func (s *Transactions) ByPortfolio(portfolioID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Where("portfolio_id = ?", portfolioID).
		Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

func (s *Transactions) ByStock(stockID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Where("stock_id = ?", stockID).
		Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

func (s *Transactions) ByPair(portfolioID, stockID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

func (s *Transactions) ByDateRange(start, end time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Where("transaction_date >= ? AND transaction_date <= ?", start, end).
		Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

func (s *Transactions) ByType(kind models.TransactionType) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Where("type = ?", kind).Order(ledgerOrder).Find(&txs).Error
	return txs, err
}

// NetQuantity is buys minus sells over the live ledger for one pair.
func (s *Transactions) NetQuantity(portfolioID, stockID uint) (decimal.Decimal, error) {
	txs, err := s.ByPair(portfolioID, stockID)
	if err != nil {
		return decimal.Zero, err
	}
	net := decimal.Zero
	for i := range txs {
		net = net.Add(txs[i].SignedQuantity())
	}
	return net, nil
}

// CountAll counts every row for a pair, retired rows included.
func (s *Transactions) CountAll(portfolioID, stockID uint) (int64, error) {
	var n int64
	err := s.db.Unscoped().Model(&models.Transaction{}).
		Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		Count(&n).Error
	return n, err
}
