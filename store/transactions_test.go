package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock-portfolio-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Portfolio{},
		&models.Stock{},
		&models.Transaction{},
		&models.Holding{},
	))
	return db
}

func seedTx(t *testing.T, db *gorm.DB, portfolioID, stockID uint, kind models.TransactionType, qty string, date time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		PortfolioID:     portfolioID,
		StockID:         stockID,
		Type:            kind,
		Quantity:        decimal.RequireFromString(qty),
		Price:           decimal.RequireFromString("100"),
		TransactionDate: date,
	}
	tx.RecalculateAmounts()
	require.NoError(t, NewTransactions(db).Create(tx))
	return tx
}

func TestQueryOrderingIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Two rows share a timestamp; ties break by id ascending.
	older := seedTx(t, db, 1, 1, models.TransactionBuy, "1", day.AddDate(0, 0, -1))
	tieA := seedTx(t, db, 1, 1, models.TransactionBuy, "2", day)
	tieB := seedTx(t, db, 1, 1, models.TransactionBuy, "3", day)

	txs, err := NewTransactions(db).ByPair(1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, tieA.ID, txs[0].ID)
	assert.Equal(t, tieB.ID, txs[1].ID)
	assert.Equal(t, older.ID, txs[2].ID)
}

func TestQueriesScopeToPairAndDateRange(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	seedTx(t, db, 1, 1, models.TransactionBuy, "1", day)
	seedTx(t, db, 1, 2, models.TransactionBuy, "1", day)
	seedTx(t, db, 2, 1, models.TransactionBuy, "1", day.AddDate(0, 0, 3))

	s := NewTransactions(db)

	byPortfolio, err := s.ByPortfolio(1)
	require.NoError(t, err)
	assert.Len(t, byPortfolio, 2)

	byStock, err := s.ByStock(1)
	require.NoError(t, err)
	assert.Len(t, byStock, 2)

	byPair, err := s.ByPair(1, 1)
	require.NoError(t, err)
	assert.Len(t, byPair, 1)

	inRange, err := s.ByDateRange(day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)
}

func TestQueriesExcludeRetiredRows(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	keep := seedTx(t, db, 1, 1, models.TransactionBuy, "5", day)
	gone := seedTx(t, db, 1, 1, models.TransactionSell, "2", day)

	s := NewTransactions(db)
	require.NoError(t, s.Retire(gone))

	txs, err := s.ByPair(1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, keep.ID, txs[0].ID)

	net, err := s.NetQuantity(1, 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5").Equal(net))

	n, err := s.CountAll(1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestByTypeFilters(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	seedTx(t, db, 1, 1, models.TransactionBuy, "5", day)
	seedTx(t, db, 1, 1, models.TransactionSell, "2", day)

	buys, err := NewTransactions(db).ByType(models.TransactionBuy)
	require.NoError(t, err)
	require.Len(t, buys, 1)
	assert.Equal(t, models.TransactionBuy, buys[0].Type)
}
