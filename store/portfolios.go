package store

import (
	"errors"

	"gorm.io/gorm"

	"stock-portfolio-api/models"
)

type Portfolios struct {
	db *gorm.DB
}

func NewPortfolios(db *gorm.DB) *Portfolios {
	return &Portfolios{db: db}
}

func (s *Portfolios) Create(p *models.Portfolio) error {
	return s.db.Create(p).Error
}

func (s *Portfolios) Save(p *models.Portfolio) error {
	return s.db.Save(p).Error
}

func (s *Portfolios) Get(id uint) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetWithHoldings preloads the portfolio's current holdings and their stocks.
func (s *Portfolios) GetWithHoldings(id uint) (*models.Portfolio, error) {
	var p models.Portfolio
	err := s.db.Preload("Holdings", func(db *gorm.DB) *gorm.DB {
		return db.Order("stock_id ASC")
	}).Preload("Holdings.Stock").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Portfolios) All() ([]models.Portfolio, error) {
	var ps []models.Portfolio
	err := s.db.Order("id ASC").Find(&ps).Error
	return ps, err
}

func (s *Portfolios) ByOwner(owner string) ([]models.Portfolio, error) {
	var ps []models.Portfolio
	err := s.db.Where("owner = ?", owner).Order("id ASC").Find(&ps).Error
	return ps, err
}

func (s *Portfolios) Exists(id uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.Portfolio{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *Portfolios) Delete(p *models.Portfolio) error {
	return s.db.Delete(p).Error
}

// UpdateTotals writes only the derived rollup columns.
func (s *Portfolios) UpdateTotals(id uint, totals map[string]interface{}) error {
	return s.db.Model(&models.Portfolio{}).Where("id = ?", id).Updates(totals).Error
}
