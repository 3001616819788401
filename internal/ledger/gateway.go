package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dedovbet/backend/internal/models"
)

// Gateway is the session's view of the store of record. The HTTP client in
// internal/client implements it against the REST API; tests substitute an
// in-memory fake.
//
// Deposit and Withdraw return the new authoritative balance and the id of
// the transaction the store recorded. UpdateBalance overwrites the stored
// balance with the given value and returns what the store now holds.
type Gateway interface {
	Balance(ctx context.Context, username string) (decimal.Decimal, error)
	Deposit(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error)
	UpdateBalance(ctx context.Context, username string, balance decimal.Decimal) (decimal.Decimal, error)
	SaveTransaction(ctx context.Context, username string, tx models.Transaction) error
	Transactions(ctx context.Context, username string) ([]models.Transaction, error)
}

// SnapshotCache persists the last-known account snapshot after every
// committing operation. internal/cache provides a redis-backed one; a nil
// cache disables snapshotting.
type SnapshotCache interface {
	PutAccount(ctx context.Context, account models.PublicAccount) error
}
