package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"loan-payoff/domain"
)

var ErrNotFound = errors.New("liability not found")

type LiabilityRepository interface {
	Save(ctx context.Context, liability domain.Liability) error
	Get(ctx context.Context, id string) (domain.Liability, error)
	List(ctx context.Context) ([]domain.Liability, error)
	// AddTransaction stores tx and applies it to the liability's current
	// balance as one unit, returning the updated liability.
	AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Liability, error)
	Transactions(ctx context.Context, liabilityID string) ([]domain.Transaction, error)
}

// applyTransaction moves a balance by tx: payments reduce it, never below
// zero; interest and charges add to it.
func applyTransaction(balance float64, tx domain.Transaction) float64 {
	current := decimal.NewFromFloat(balance)
	amount := decimal.NewFromFloat(tx.Amount)
	if tx.Kind == domain.TransactionPayment {
		current = decimal.Max(decimal.Zero, current.Sub(amount))
	} else {
		current = current.Add(amount)
	}
	return current.Round(2).InexactFloat64()
}
