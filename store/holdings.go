package store

import (
	"errors"

	"gorm.io/gorm"

	"stock-portfolio-api/models"
)

// Holdings stores the derived positions. Rows are replaced wholesale by the
// ledger's recompute; removal is a hard delete so the (portfolio, stock)
// unique index stays reusable.
type Holdings struct {
	db *gorm.DB
}

func NewHoldings(db *gorm.DB) *Holdings {
	return &Holdings{db: db}
}

func (s *Holdings) Get(portfolioID, stockID uint) (*models.Holding, error) {
	var h models.Holding
	err := s.db.Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *Holdings) ByPortfolio(portfolioID uint) ([]models.Holding, error) {
	var hs []models.Holding
	err := s.db.Where("portfolio_id = ?", portfolioID).Order("stock_id ASC").Find(&hs).Error
	return hs, err
}

// PortfolioIDsByStock lists the portfolios currently holding a stock, for
// revaluation after a price change.
func (s *Holdings) PortfolioIDsByStock(stockID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Holding{}).Where("stock_id = ?", stockID).
		Distinct().Pluck("portfolio_id", &ids).Error
	return ids, err
}

func (s *Holdings) Save(h *models.Holding) error {
	return s.db.Save(h).Error
}

func (s *Holdings) Remove(portfolioID, stockID uint) error {
	return s.db.Unscoped().
		Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		Delete(&models.Holding{}).Error
}
