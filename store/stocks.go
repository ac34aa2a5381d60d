package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"stock-portfolio-api/models"
)

type Stocks struct {
	db *gorm.DB
}

func NewStocks(db *gorm.DB) *Stocks {
	return &Stocks{db: db}
}

func (s *Stocks) Create(st *models.Stock) error {
	return s.db.Create(st).Error
}

func (s *Stocks) Save(st *models.Stock) error {
	return s.db.Save(st).Error
}

func (s *Stocks) Get(id uint) (*models.Stock, error) {
	var st models.Stock
	if err := s.db.First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *Stocks) BySymbol(symbol string) (*models.Stock, error) {
	var st models.Stock
	err := s.db.Where("symbol = ?", strings.ToUpper(symbol)).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Search matches the term against symbol and company name,
// case-insensitively.
func (s *Stocks) Search(term string) ([]models.Stock, error) {
	var sts []models.Stock
	pattern := "%" + strings.ToUpper(term) + "%"
	err := s.db.Where("UPPER(symbol) LIKE ? OR UPPER(company_name) LIKE ?", pattern, pattern).
		Order("symbol ASC").Find(&sts).Error
	return sts, err
}

func (s *Stocks) All() ([]models.Stock, error) {
	var sts []models.Stock
	err := s.db.Order("symbol ASC").Find(&sts).Error
	return sts, err
}

func (s *Stocks) Exists(id uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.Stock{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *Stocks) Delete(st *models.Stock) error {
	return s.db.Delete(st).Error
}
