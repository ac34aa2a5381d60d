// Package ledger owns the buy/sell transaction ledger and every aggregate
// derived from it. All mutations run the same cascade: validate, write the
// ledger row, rebuild the pair's holding from scratch, rebuild the owning
// portfolio's totals. The cascade runs inside one database transaction and
// under a per-pair lock, so holdings and totals can never drift from the
// ledger.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

type Service struct {
	db    *gorm.DB
	locks *pairLocks
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, locks: newPairLocks()}
}

// RecordInput is a buy or sell to append to the ledger.
type RecordInput struct {
	PortfolioID uint
	StockID     uint
	Type        models.TransactionType
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Commission  decimal.Decimal
	Fees        decimal.Decimal
	Date        *time.Time
	Notes       string
}

func (in *RecordInput) validate() error {
	if in.Type != models.TransactionBuy && in.Type != models.TransactionSell {
		return &models.InvalidInputError{Field: "type", Reason: "must be 'buy' or 'sell'"}
	}
	if !in.Quantity.IsPositive() {
		return &models.InvalidInputError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if !in.Price.IsPositive() {
		return &models.InvalidInputError{Field: "price", Reason: "must be greater than zero"}
	}
	if in.Commission.IsNegative() {
		return &models.InvalidInputError{Field: "commission", Reason: "must not be negative"}
	}
	if in.Fees.IsNegative() {
		return &models.InvalidInputError{Field: "fees", Reason: "must not be negative"}
	}
	return nil
}

// Record validates and appends a transaction, then recomputes the affected
// holding and portfolio totals. Nothing is written when validation fails.
func (s *Service) Record(in RecordInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(in.PortfolioID, in.StockID)
	defer unlock()

	var rec *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if ok, err := store.NewPortfolios(tx).Exists(in.PortfolioID); err != nil {
			return err
		} else if !ok {
			return &models.ReferenceNotFoundError{Entity: "Portfolio", ID: in.PortfolioID}
		}
		if ok, err := store.NewStocks(tx).Exists(in.StockID); err != nil {
			return err
		} else if !ok {
			return &models.ReferenceNotFoundError{Entity: "Stock", ID: in.StockID}
		}

		if in.Type == models.TransactionSell {
			current, err := store.NewTransactions(tx).NetQuantity(in.PortfolioID, in.StockID)
			if err != nil {
				return err
			}
			if current.LessThan(in.Quantity) {
				return &models.InsufficientQuantityError{Current: current, Requested: in.Quantity}
			}
		}

		t := &models.Transaction{
			PortfolioID:     in.PortfolioID,
			StockID:         in.StockID,
			Type:            in.Type,
			Quantity:        in.Quantity,
			Price:           in.Price,
			Commission:      in.Commission,
			Fees:            in.Fees,
			TransactionDate: time.Now().UTC(),
			Notes:           in.Notes,
		}
		if in.Date != nil {
			t.TransactionDate = *in.Date
		}
		t.RecalculateAmounts()

		if err := store.NewTransactions(tx).Create(t); err != nil {
			return err
		}
		rec = t
		return recompute(tx, in.PortfolioID, in.StockID)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AmendInput carries the optional field changes of an amend. Portfolio,
// stock and type are fixed for the life of a transaction.
type AmendInput struct {
	Quantity   *decimal.Decimal
	Price      *decimal.Decimal
	Commission *decimal.Decimal
	Fees       *decimal.Decimal
	Date       *time.Time
	Notes      *string
}

// Amend applies the supplied fields to a transaction, rederives its amounts
// and recomputes the affected aggregates. The amended ledger must still
// satisfy net quantity >= 0 for the pair, otherwise the amend is rejected
// with InsufficientQuantityError and nothing changes.
func (s *Service) Amend(id uint, in AmendInput) (*models.Transaction, error) {
	t, err := store.NewTransactions(s.db).Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(t.PortfolioID, t.StockID)
	defer unlock()

	var rec *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		t, err := store.NewTransactions(tx).Get(id)
		if err != nil {
			return err
		}

		if in.Quantity != nil {
			t.Quantity = *in.Quantity
		}
		if in.Price != nil {
			t.Price = *in.Price
		}
		if in.Commission != nil {
			t.Commission = *in.Commission
		}
		if in.Fees != nil {
			t.Fees = *in.Fees
		}
		if in.Date != nil {
			t.TransactionDate = *in.Date
		}
		if in.Notes != nil {
			t.Notes = *in.Notes
		}

		check := RecordInput{
			Type:       t.Type,
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			Fees:       t.Fees,
		}
		if err := check.validate(); err != nil {
			return err
		}
		t.RecalculateAmounts()

		if err := ensureCoveredSells(tx, t.PortfolioID, t.StockID, t.ID, t.SignedQuantity()); err != nil {
			return err
		}

		if err := store.NewTransactions(tx).Save(t); err != nil {
			return err
		}
		rec = t
		return recompute(tx, t.PortfolioID, t.StockID)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Retire soft-deletes a transaction and recomputes the affected aggregates.
// Retiring a buy that recorded sells depend on would leave the pair net
// negative; that is rejected the same way an oversized sell is.
func (s *Service) Retire(id uint) error {
	t, err := store.NewTransactions(s.db).Get(id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(t.PortfolioID, t.StockID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		t, err := store.NewTransactions(tx).Get(id)
		if err != nil {
			return err
		}

		if err := ensureCoveredSells(tx, t.PortfolioID, t.StockID, t.ID, decimal.Zero); err != nil {
			return err
		}

		if err := store.NewTransactions(tx).Retire(t); err != nil {
			return err
		}
		return recompute(tx, t.PortfolioID, t.StockID)
	})
}

// NetQuantity reports buys minus sells over the live ledger for one pair.
func (s *Service) NetQuantity(portfolioID, stockID uint) (decimal.Decimal, error) {
	return store.NewTransactions(s.db).NetQuantity(portfolioID, stockID)
}

// RevalueStock recomputes every holding referencing the stock, then the
// owning portfolios' totals. Called after a price change.
func (s *Service) RevalueStock(stockID uint) error {
	ids, err := store.NewHoldings(s.db).PortfolioIDsByStock(stockID)
	if err != nil {
		return err
	}
	for _, portfolioID := range ids {
		unlock := s.locks.Lock(portfolioID, stockID)
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return recompute(tx, portfolioID, stockID)
		})
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureCoveredSells rejects a mutation that would leave the pair's ledger
// with more units sold than bought. The row identified by excludeID is
// replaced by contribution (its new signed quantity, or zero when retiring).
func ensureCoveredSells(tx *gorm.DB, portfolioID, stockID, excludeID uint, contribution decimal.Decimal) error {
	txs, err := store.NewTransactions(tx).ByPair(portfolioID, stockID)
	if err != nil {
		return err
	}

	bought := decimal.Zero
	sold := decimal.Zero
	add := func(kind models.TransactionType, qty decimal.Decimal) {
		if kind == models.TransactionSell {
			sold = sold.Add(qty)
		} else {
			bought = bought.Add(qty)
		}
	}
	for i := range txs {
		if txs[i].ID == excludeID {
			continue
		}
		add(txs[i].Type, txs[i].Quantity)
	}
	if !contribution.IsZero() {
		if contribution.IsNegative() {
			sold = sold.Add(contribution.Neg())
		} else {
			bought = bought.Add(contribution)
		}
	}

	if sold.GreaterThan(bought) {
		return &models.InsufficientQuantityError{Current: bought, Requested: sold}
	}
	return nil
}
