package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"stock-portfolio-api/models"
)

var errInvalidBatchSize = errors.New("batch size must be positive")

type Prices struct {
	db *gorm.DB
}

func NewPrices(db *gorm.DB) *Prices {
	return &Prices{db: db}
}

func (s *Prices) Create(p *models.StockPrice) error {
	return s.db.Create(p).Error
}

// CreateInBatches inserts a price history series in chunks inside one
// transaction, so a failed chunk leaves no partial series behind.
func (s *Prices) CreateInBatches(prices []models.StockPrice, batchSize int) error {
	if batchSize <= 0 {
		return errInvalidBatchSize
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < len(prices); i += batchSize {
			end := i + batchSize
			if end > len(prices) {
				end = len(prices)
			}
			chunk := prices[i:end]
			if err := tx.Create(&chunk).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Prices) History(symbol string, since time.Time) ([]models.StockPrice, error) {
	var ps []models.StockPrice
	err := s.db.Where("symbol = ? AND timestamp >= ?", symbol, since).
		Order("timestamp DESC").Find(&ps).Error
	return ps, err
}
